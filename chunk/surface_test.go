package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyChunk returns a chunk whose sections all lack block and fluid data.
func emptyChunk() *Chunk {
	c := &Chunk{}
	c.Components.ChunkColumn.Sections = make([]Section, SectionCount)
	return c
}

func withBlockData(c *Chunk, section int, data []byte) *Chunk {
	c.Components.ChunkColumn.Sections[section].Components.Block = &BlockComponent{Version: 1, Data: data}
	return c
}

func withFluidData(c *Chunk, section int, data []byte) *Chunk {
	c.Components.ChunkColumn.Sections[section].Components.Fluid = &FluidComponent{Data: data}
	return c
}

func TestSurfaceHeightAllEmpty(t *testing.T) {
	scanner := NewScanner(emptyChunk())
	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			worldY, name, section, err := scanner.SurfaceHeight(x, z)
			require.NoError(t, err)
			assert.Equal(t, 0, worldY)
			assert.Equal(t, EmptyBlockName, name)
			assert.Equal(t, 0, section)
		}
	}
}

func TestSurfaceHeightSingleBlock(t *testing.T) {
	indices := make([]byte, EncodingByte.ArrayLen())
	for i := range indices {
		indices[i] = 1 // Empty
	}
	indices[CellIndex(5, 20, 10)] = 0 // Soil_Grass
	c := withBlockData(emptyChunk(), 0, buildBlockSection(EncodingByte, []string{"Soil_Grass", "Empty"}, indices))
	scanner := NewScanner(c)

	worldY, name, section, err := scanner.SurfaceHeight(5, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, worldY)
	assert.Equal(t, "Soil_Grass", name)
	assert.Equal(t, 0, section)

	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			if x == 5 && z == 10 {
				continue
			}
			worldY, name, section, err := scanner.SurfaceHeight(x, z)
			require.NoError(t, err)
			assert.Equal(t, 0, worldY)
			assert.Equal(t, EmptyBlockName, name)
			assert.Equal(t, 0, section)
		}
	}
}

func TestSurfaceHeightSkipsMarkers(t *testing.T) {
	indices := make([]byte, EncodingByte.ArrayLen())
	flat := CellIndex(2, 30, 2)
	indices[flat] = 1                // marker above
	indices[CellIndex(2, 12, 2)] = 2 // real surface below
	names := []string{"Empty", "*EnvironmentMarker", "Rock_Stone"}
	c := withBlockData(emptyChunk(), 0, buildBlockSection(EncodingByte, names, indices))

	worldY, name, _, err := NewScanner(c).SurfaceHeight(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, worldY)
	assert.Equal(t, "Rock_Stone", name)
}

func TestSurfaceHeightPrefersHigherSection(t *testing.T) {
	low := make([]byte, EncodingByte.ArrayLen())
	for i := range low {
		low[i] = 1 // Rock_Stone everywhere in section 0
	}
	high := make([]byte, EncodingByte.ArrayLen())
	high[CellIndex(0, 3, 0)] = 1 // one block in section 6

	c := emptyChunk()
	withBlockData(c, 0, buildBlockSection(EncodingByte, []string{"Empty", "Rock_Stone"}, low))
	withBlockData(c, 6, buildBlockSection(EncodingByte, []string{"Empty", "Soil_Grass"}, high))
	scanner := NewScanner(c)

	worldY, name, section, err := scanner.SurfaceHeight(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6*32+3, worldY)
	assert.Equal(t, "Soil_Grass", name)
	assert.Equal(t, 6, section)

	// Neighboring column only has the section 0 surface.
	worldY, name, section, err = scanner.SurfaceHeight(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 31, worldY)
	assert.Equal(t, "Rock_Stone", name)
	assert.Equal(t, 0, section)
}

func TestSurfaceHeightCorruptSection(t *testing.T) {
	c := withBlockData(emptyChunk(), 4, []byte{0x01, 0x02})
	_, _, _, err := NewScanner(c).SurfaceHeight(0, 0)
	assert.ErrorIs(t, err, ErrCorruptFormat)
}

// fluidColumn builds a fluid blob with the given type id filled at column
// (x,z) for local Y range [fromY, toY].
func fluidColumn(id uint16, name string, x, z, fromY, toY int) []byte {
	types := make([]byte, EncodingByte.ArrayLen())
	levels := make([]byte, fluidLevelBytes)
	for y := fromY; y <= toY; y++ {
		flat := CellIndex(x, y, z)
		types[flat] = byte(id)
		setNibble(levels, flat, 8)
	}
	return buildFluidSection(EncodingByte, []PaletteEntry{{ID: id, Name: name}}, types, levels)
}

func TestSurfaceFluidRun(t *testing.T) {
	c := withFluidData(emptyChunk(), 0, fluidColumn(1, "Fluid_Water", 4, 9, 21, 25))
	scanner := NewScanner(c)

	fluidType, depth := scanner.SurfaceFluid(4, 9, 20)
	assert.Equal(t, "Fluid_Water", fluidType)
	assert.Equal(t, 5, depth)

	// A dry column has no fluid at all.
	fluidType, depth = scanner.SurfaceFluid(0, 0, 20)
	assert.Equal(t, "", fluidType)
	assert.Equal(t, 0, depth)
}

func TestSurfaceFluidDepthOne(t *testing.T) {
	c := withFluidData(emptyChunk(), 0, fluidColumn(1, "Fluid_Water", 0, 0, 21, 21))
	fluidType, depth := NewScanner(c).SurfaceFluid(0, 0, 20)
	assert.Equal(t, "Fluid_Water", fluidType)
	assert.Equal(t, 1, depth)
}

func TestSurfaceFluidIgnoresFluidBelowSurface(t *testing.T) {
	c := withFluidData(emptyChunk(), 0, fluidColumn(1, "Fluid_Water", 0, 0, 5, 10))
	fluidType, depth := NewScanner(c).SurfaceFluid(0, 0, 20)
	assert.Equal(t, "", fluidType)
	assert.Equal(t, 0, depth)
}

func TestSurfaceFluidDegradedSectionIsDry(t *testing.T) {
	c := withFluidData(emptyChunk(), 0, []byte{0x02}) // truncated blob
	fluidType, depth := NewScanner(c).SurfaceFluid(0, 0, 0)
	assert.Equal(t, "", fluidType)
	assert.Equal(t, 0, depth)
}

func TestSurfaceFluidStopsAtTypeChange(t *testing.T) {
	types := make([]byte, EncodingByte.ArrayLen())
	levels := make([]byte, fluidLevelBytes)
	for y := 23; y <= 25; y++ {
		flat := CellIndex(0, y, 0)
		types[flat] = 1
		setNibble(levels, flat, 8)
	}
	for y := 21; y <= 22; y++ {
		flat := CellIndex(0, y, 0)
		types[flat] = 2
		setNibble(levels, flat, 8)
	}
	entries := []PaletteEntry{{ID: 1, Name: "Fluid_Water"}, {ID: 2, Name: "Fluid_Lava"}}
	c := withFluidData(emptyChunk(), 0, buildFluidSection(EncodingByte, entries, types, levels))

	fluidType, depth := NewScanner(c).SurfaceFluid(0, 0, 20)
	assert.Equal(t, "Fluid_Water", fluidType)
	assert.Equal(t, 5, depth)
}
