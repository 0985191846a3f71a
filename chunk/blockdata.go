package chunk

import (
	"github.com/pkg/errors"

	"hytale2map/internal/cursor"
)

const columnsPerChunk = 32 * 32

// BlockChunkData is the optional per-chunk blob holding the precomputed
// heightmap and biome tint grids, each stored as a small palette plus 1024
// packed 10-bit indices. All integers in this blob are little-endian,
// unlike the section blobs.
type BlockChunkData struct {
	NeedsPhysics bool

	heightPalette []uint16
	heightIndices []uint16
	tintPalette   []uint32
	tintIndices   []uint16
}

// DecodeBlockChunkData parses the heightmap/tint blob.
func DecodeBlockChunkData(data []byte) (*BlockChunkData, error) {
	c := cursor.New(data)
	d := &BlockChunkData{}

	physics, err := c.U8()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "block chunk data: %v", err)
	}
	d.NeedsPhysics = physics != 0

	heightCount, err := c.U16LE()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "height palette: %v", err)
	}
	d.heightPalette = make([]uint16, heightCount)
	for i := range d.heightPalette {
		if d.heightPalette[i], err = c.U16LE(); err != nil {
			return nil, errors.Wrapf(ErrCorruptFormat, "height palette entry %d: %v", i, err)
		}
	}
	heightPacked, err := readPackedArray(c)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "height indices: %v", err)
	}
	d.heightIndices = unpackTenBit(heightPacked, columnsPerChunk)

	tintCount, err := c.U16LE()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "tint palette: %v", err)
	}
	d.tintPalette = make([]uint32, tintCount)
	for i := range d.tintPalette {
		if d.tintPalette[i], err = c.U32LE(); err != nil {
			return nil, errors.Wrapf(ErrCorruptFormat, "tint palette entry %d: %v", i, err)
		}
	}
	tintPacked, err := readPackedArray(c)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "tint indices: %v", err)
	}
	d.tintIndices = unpackTenBit(tintPacked, columnsPerChunk)

	return d, nil
}

func readPackedArray(c *cursor.Cursor) ([]byte, error) {
	length, err := c.U32LE()
	if err != nil {
		return nil, err
	}
	return c.Bytes(int(length))
}

// unpackTenBit expands count packed 10-bit values, little-endian bit order
// within each byte pair. A byte past the end of the array reads as zero.
func unpackTenBit(packed []byte, count int) []uint16 {
	values := make([]uint16, count)
	for i := range values {
		bitOffset := i * 10
		byteOffset := bitOffset / 8
		shift := uint(bitOffset % 8)

		var lo, hi uint16
		if byteOffset < len(packed) {
			lo = uint16(packed[byteOffset])
		}
		if byteOffset+1 < len(packed) {
			hi = uint16(packed[byteOffset+1])
		}
		values[i] = (lo>>shift | hi<<(8-shift)) & 0x3FF
	}
	return values
}

// HeightAt returns the stored surface height for a column. The heightmap
// grid maps linear index i to (x=i%32, z=i/32); indices past the palette
// fall back to height 0. This mapping intentionally differs from TintAt's.
func (d *BlockChunkData) HeightAt(x, z int) int {
	idx := int(d.heightIndices[x+z*32])
	if idx >= len(d.heightPalette) {
		return 0
	}
	return int(d.heightPalette[idx])
}

// TintAt returns the biome tint RGB for a column. The tint grid maps
// linear index i to (z=i%32, x=i/32) — transposed relative to HeightAt;
// both layouts match the on-disk format and must not be unified. Indices
// past the palette fall back to white.
func (d *BlockChunkData) TintAt(x, z int) (r, g, b uint8) {
	idx := int(d.tintIndices[z+x*32])
	if idx >= len(d.tintPalette) {
		return 255, 255, 255
	}
	packed := d.tintPalette[idx]
	return uint8(packed >> 16), uint8(packed >> 8), uint8(packed)
}
