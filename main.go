package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "hytale2map",
		Usage: "renders top-down PNG maps from Hytale save data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML config file; flags override its values"},
			&cli.StringFlag{Name: "world", Usage: "world directory (or its chunks directory)"},
			&cli.StringFlag{Name: "block-properties", Usage: "block properties JSON extracted from the game assets"},
			&cli.IntFlag{Name: "scale", Usage: "pixels per block"},
			&cli.IntFlag{Name: "workers", Usage: "parallel chunk renders (0 = all CPUs)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output PNG path"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug log output"},
		},
		Commands: []*cli.Command{
			{
				Name:      "chunk",
				Usage:     "render a single chunk",
				ArgsUsage: "<chunkX> <chunkZ>",
				Action:    renderChunkCommand,
			},
			{
				Name:      "map",
				Usage:     "render an inclusive chunk range",
				ArgsUsage: "<startX> <startZ> <endX> <endZ>",
				Action:    renderMapCommand,
			},
			{
				Name:      "info",
				Usage:     "decode a chunk and print its structure",
				ArgsUsage: "<chunkX> <chunkZ>",
				Action:    infoCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
