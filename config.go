package main

import (
	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

// Config carries the render settings. Values come from an optional TOML
// file; any flag set on the command line overrides the file.
type Config struct {
	World           string `toml:"world"`
	BlockProperties string `toml:"block-properties"`
	Scale           int    `toml:"scale"`
	Workers         int    `toml:"workers"`
	Output          string `toml:"output"`
}

func defaultConfig() Config {
	return Config{
		Scale:  1,
		Output: "map.png",
	}
}

// loadConfig merges the config file (when given) with command-line flags.
func loadConfig(c *cli.Context) (Config, error) {
	config := defaultConfig()
	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return config, err
		}
	}
	if c.IsSet("world") {
		config.World = c.String("world")
	}
	if c.IsSet("block-properties") {
		config.BlockProperties = c.String("block-properties")
	}
	if c.IsSet("scale") {
		config.Scale = c.Int("scale")
	}
	if c.IsSet("workers") {
		config.Workers = c.Int("workers")
	}
	if c.IsSet("output") {
		config.Output = c.String("output")
	}
	return config, nil
}
