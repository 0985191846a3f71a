package render

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"hytale2map/chunk"
	"hytale2map/world"
)

// flatGrassChunk builds a chunk with a solid Soil_Grass layer at worldY 20
// across every column.
func flatGrassChunk(t *testing.T) *chunk.Chunk {
	t.Helper()
	indices := make([]byte, chunk.EncodingByte.ArrayLen())
	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			indices[chunk.CellIndex(x, 20, z)] = 1
		}
	}
	c := &chunk.Chunk{}
	c.Components.ChunkColumn.Sections = make([]chunk.Section, chunk.SectionCount)
	c.Components.ChunkColumn.Sections[0].Components.Block = &chunk.BlockComponent{
		Version: 1,
		Data:    blockSectionBytes([]string{"Empty", "Soil_Grass"}, indices),
	}
	return c
}

func blockSectionBytes(names []string, indices []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(0x0A))
	buf.WriteByte(byte(chunk.EncodingByte))
	binary.Write(&buf, binary.BigEndian, uint16(len(names)))
	buf.WriteByte(0)
	for _, name := range names {
		binary.Write(&buf, binary.BigEndian, uint16(len(name)))
		buf.WriteString(name)
		binary.Write(&buf, binary.BigEndian, uint16(1))
		buf.WriteByte(0)
	}
	buf.Write(indices)
	return buf.Bytes()
}

func TestRenderChunkFlatTerrain(t *testing.T) {
	renderer := NewRenderer(nil, 1, 1, nil)
	img, err := renderer.RenderChunk(flatGrassChunk(t))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, ChunkSpan, bounds.Dx())
	assert.Equal(t, ChunkSpan, bounds.Dy())

	// Flat terrain shades uniformly: every pixel is the grass keyword
	// color under the flat-neighborhood multiplier.
	want := RGB{80, 180, 60}.Scale(Shade(20, Flat(20), 0.5, 0.5))
	for _, p := range [][2]int{{0, 0}, {15, 7}, {31, 31}} {
		got := img.RGBAAt(p[0], p[1])
		assert.Equal(t, color.RGBA{R: want.R, G: want.G, B: want.B, A: 255}, got, "pixel %v", p)
	}
}

func TestRenderChunkScale(t *testing.T) {
	renderer := NewRenderer(nil, 4, 1, nil)
	img, err := renderer.RenderChunk(flatGrassChunk(t))
	require.NoError(t, err)
	assert.Equal(t, ChunkSpan*4, img.Bounds().Dx())
	assert.Equal(t, ChunkSpan*4, img.Bounds().Dy())
}

func TestWritePNG(t *testing.T) {
	renderer := NewRenderer(nil, 1, 1, nil)
	img, err := renderer.RenderChunk(flatGrassChunk(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chunk.png")
	require.NoError(t, WritePNG(path, img))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// regionFileBytes wraps one compressed chunk payload at relative (0,0)
// into a minimal region file image.
func regionFileBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	const segmentSize = 4096
	require.Less(t, len(payload)+8, segmentSize)

	file := make([]byte, 2*segmentSize+32)
	copy(file, world.Magic[:])
	binary.BigEndian.PutUint32(file[20:], 1) // version
	binary.BigEndian.PutUint32(file[24:], 1) // blob count
	binary.BigEndian.PutUint32(file[28:], segmentSize)
	binary.BigEndian.PutUint32(file[32:], 1) // chunk (0,0) -> segment 1

	offset := segmentSize + 32
	binary.BigEndian.PutUint32(file[offset:], uint32(len(payload)*3)) // uncompressed hint
	binary.BigEndian.PutUint32(file[offset+4:], uint32(len(payload)))
	copy(file[offset+8:], payload)
	return file
}

func TestRenderMapSkipsAbsentChunks(t *testing.T) {
	raw, err := bson.Marshal(flatGrassChunk(t))
	require.NoError(t, err)
	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	payload := encoder.EncodeAll(raw, nil)
	encoder.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.0.region.bin"), regionFileBytes(t, payload), 0644))

	w, err := world.Open(dir)
	require.NoError(t, err)

	renderer := NewRenderer(nil, 1, 2, nil)
	img, err := renderer.RenderMap(w, 0, 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2*ChunkSpan, img.Bounds().Dx())
	assert.Equal(t, ChunkSpan, img.Bounds().Dy())

	// Chunk (0,0) rendered; chunk (1,0) is absent and leaves its tile
	// untouched.
	rendered := img.RGBAAt(5, 5)
	assert.NotEqual(t, color.RGBA{}, rendered)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(ChunkSpan+5, 5))
}

func TestRenderMapEmptyRange(t *testing.T) {
	w, err := world.Open(t.TempDir())
	require.NoError(t, err)
	renderer := NewRenderer(nil, 1, 1, nil)
	_, err = renderer.RenderMap(w, 3, 3, 2, 3)
	assert.Error(t, err)
}
