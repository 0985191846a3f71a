package chunk

import (
	"strings"

	"github.com/pkg/errors"
)

// WorldHeight is the total block height covered by a chunk column.
const WorldHeight = SectionCount * 32

// Scanner performs per-column surface extraction over one decoded chunk.
// Section blobs are decoded lazily and memoized, since a full chunk render
// scans all 1024 columns and would otherwise re-decode every section per
// column. Not safe for concurrent use; renders use one Scanner per chunk.
type Scanner struct {
	chunk *Chunk

	blocks     [SectionCount]*BlockSection
	blocksErr  [SectionCount]error
	blocksDone [SectionCount]bool

	fluids     [SectionCount]*FluidSection
	fluidsDone [SectionCount]bool
}

func NewScanner(c *Chunk) *Scanner {
	return &Scanner{chunk: c}
}

// blockSection returns the memoized block data for a section, nil when the
// section has no block component.
func (s *Scanner) blockSection(index int) (*BlockSection, error) {
	if !s.blocksDone[index] {
		s.blocksDone[index] = true
		component := s.chunk.Components.ChunkColumn.Sections[index].Components.Block
		if component != nil && len(component.Data) > 0 {
			section, err := DecodeBlockSection(component.Data)
			if err != nil {
				s.blocksErr[index] = errors.Wrapf(err, "section %d", index)
			} else {
				s.blocks[index] = section
			}
		}
	}
	return s.blocks[index], s.blocksErr[index]
}

// fluidSection returns the memoized fluid data for a section, nil when the
// section has no fluid component. Fluid decoding never fails; structural
// problems surface as a section with nil arrays.
func (s *Scanner) fluidSection(index int) *FluidSection {
	if !s.fluidsDone[index] {
		s.fluidsDone[index] = true
		component := s.chunk.Components.ChunkColumn.Sections[index].Components.Fluid
		if component != nil && len(component.Data) > 0 {
			s.fluids[index] = DecodeFluidSection(component.Data)
		}
	}
	return s.fluids[index]
}

// SurfaceHeight finds the topmost solid block in the column (x,z). Cells
// named "Empty" or whose name starts with "*" are non-solid markers and
// are skipped. A fully empty column reports (0, "Empty", 0).
func (s *Scanner) SurfaceHeight(x, z int) (worldY int, blockName string, sectionIndex int, err error) {
	for index := SectionCount - 1; index >= 0; index-- {
		section, err := s.blockSection(index)
		if err != nil {
			return 0, "", 0, err
		}
		if section == nil || section.Indices == nil {
			continue
		}
		for localY := 31; localY >= 0; localY-- {
			id := PaletteID(section.Indices, section.Encoding, CellIndex(x, localY, z))
			name := section.Palette.NameByID(id)
			if name == EmptyBlockName || strings.HasPrefix(name, "*") {
				continue
			}
			return index*32 + localY, name, index, nil
		}
	}
	return 0, EmptyBlockName, 0, nil
}

// SurfaceFluid scans the column above surfaceY for the topmost contiguous
// fluid run. It returns the fluid type and the depth from the run's top
// down to the solid surface, or ("", 0) when the column holds no fluid.
// The run ends when the fluid type changes or, once inside a run, an empty
// cell is hit.
func (s *Scanner) SurfaceFluid(x, z, surfaceY int) (fluidType string, fluidDepth int) {
	topY := -1
	for worldY := WorldHeight - 1; worldY > surfaceY; worldY-- {
		section := s.fluidSection(worldY / 32)
		if section == nil || len(section.Types) == 0 || section.Levels == nil {
			continue
		}

		flat := CellIndex(x, worldY&31, z)
		id := PaletteID(section.Types, section.Encoding, flat)
		name := section.Palette.NameByID(id)
		level := section.Level(flat)

		if level == 0 || name == EmptyBlockName {
			if fluidType != "" {
				break
			}
			continue
		}
		if fluidType == "" {
			fluidType = name
			topY = worldY
		} else if name != fluidType {
			break
		}
	}
	if fluidType == "" {
		return "", 0
	}
	return fluidType, topY - surfaceY
}

// BlockData decodes the optional heightmap/tint blob attached to the
// chunk, or returns nil when the chunk carries none.
func (c *Chunk) BlockData() (*BlockChunkData, error) {
	component := c.Components.BlockChunkData
	if component == nil || len(component.Data) == 0 {
		return nil, nil
	}
	return DecodeBlockChunkData(component.Data)
}
