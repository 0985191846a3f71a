package render

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// BlockProperties are the display attributes of one block type, extracted
// from the game assets.
type BlockProperties struct {
	TintColors       []RGB
	BiomeTintPercent int
	ParticleColor    *RGB
}

// BlockTable is the immutable name-keyed table of block display
// properties. It is loaded once and shared read-only; prefix lookups walk
// the names in sorted order so resolution is deterministic.
type BlockTable struct {
	props map[string]BlockProperties
	names []string
}

// blockPropertiesJSON mirrors the asset-extraction output format.
type blockPropertiesJSON struct {
	TintUp        []string `json:"TintUp"`
	BiomeTintUp   int      `json:"BiomeTintUp"`
	ParticleColor *string  `json:"ParticleColor"`
}

// LoadBlockTable reads a block-properties JSON file. Entries with
// malformed colors are rejected outright; a bad asset dump should not
// silently render wrong.
func LoadBlockTable(path string) (*BlockTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decoded map[string]blockPropertiesJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrapf(err, "block properties %s", path)
	}

	table := &BlockTable{
		props: make(map[string]BlockProperties, len(decoded)),
		names: make([]string, 0, len(decoded)),
	}
	for name, entry := range decoded {
		props := BlockProperties{BiomeTintPercent: entry.BiomeTintUp}
		for _, hex := range entry.TintUp {
			color, err := ParseHexColor(hex)
			if err != nil {
				return nil, errors.Wrapf(err, "block %s", name)
			}
			props.TintColors = append(props.TintColors, color)
		}
		if entry.ParticleColor != nil {
			color, err := ParseHexColor(*entry.ParticleColor)
			if err != nil {
				return nil, errors.Wrapf(err, "block %s", name)
			}
			props.ParticleColor = &color
		}
		table.props[name] = props
		table.names = append(table.names, name)
	}
	sort.Strings(table.names)
	return table, nil
}

// NewBlockTable builds a table directly from properties, in tests and
// anywhere the JSON file is not involved.
func NewBlockTable(props map[string]BlockProperties) *BlockTable {
	table := &BlockTable{
		props: make(map[string]BlockProperties, len(props)),
		names: make([]string, 0, len(props)),
	}
	for name, p := range props {
		table.props[name] = p
		table.names = append(table.names, name)
	}
	sort.Strings(table.names)
	return table
}

// Lookup resolves a block name to its properties: exact match first, then
// the first prefix match in sorted name order.
func (t *BlockTable) Lookup(blockName string) (BlockProperties, bool) {
	if t == nil {
		return BlockProperties{}, false
	}
	if props, ok := t.props[blockName]; ok {
		return props, true
	}
	for _, name := range t.names {
		if len(blockName) > len(name) && blockName[:len(name)] == name {
			return t.props[name], true
		}
	}
	return BlockProperties{}, false
}

func (t *BlockTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.props)
}
