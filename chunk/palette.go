package chunk

import "encoding/binary"

// PaletteEncoding selects the index width used by a section's packed cell
// array. It is a closed set; anything else in the packing byte is a format
// error.
type PaletteEncoding uint8

const (
	EncodingEmpty    PaletteEncoding = 0
	EncodingHalfByte PaletteEncoding = 1
	EncodingByte     PaletteEncoding = 2
	EncodingShort    PaletteEncoding = 3
)

// CellsPerSection is the number of cells in one 32x32x32 section.
const CellsPerSection = 32 * 32 * 32

func (e PaletteEncoding) Valid() bool {
	return e <= EncodingShort
}

// ArrayLen returns the byte length of a packed cell array under this
// encoding: 4, 8 or 16 bits per cell, or no array at all for Empty.
func (e PaletteEncoding) ArrayLen() int {
	switch e {
	case EncodingHalfByte:
		return CellsPerSection / 2
	case EncodingByte:
		return CellsPerSection
	case EncodingShort:
		return CellsPerSection * 2
	default:
		return 0
	}
}

func (e PaletteEncoding) String() string {
	switch e {
	case EncodingEmpty:
		return "Empty"
	case EncodingHalfByte:
		return "HalfByte"
	case EncodingByte:
		return "Byte"
	case EncodingShort:
		return "Short"
	}
	return "Invalid"
}

// PaletteEntry maps a compact section-local id to a block or fluid name.
// Unknown is the undeciphered byte trailing each stored entry, preserved
// as-is.
type PaletteEntry struct {
	ID      uint16
	Name    string
	Count   uint16
	Unknown int8
}

type Palette []PaletteEntry

// NameByID resolves an id to its palette name, or "Empty" when the id has
// no entry. Palettes are small, so a linear scan beats building a map per
// section.
func (p Palette) NameByID(id int) string {
	for i := range p {
		if int(p[i].ID) == id {
			return p[i].Name
		}
	}
	return EmptyBlockName
}

// EmptyBlockName is the palette name denoting the absence of a block or
// fluid.
const EmptyBlockName = "Empty"

// CellIndex flattens local section coordinates in [0,31] to an index into
// the packed cell arrays. The Y-major, then Z, then X ordering is the
// addressing scheme for every packed array in the format.
func CellIndex(x, y, z int) int {
	return (y&31)<<10 | (z&31)<<5 | (x & 31)
}

// PaletteID extracts the palette id stored for flatIndex under the given
// encoding. For HalfByte, even cells occupy the low nibble of the shared
// byte; Short ids are big-endian. Empty has no array and always yields 0.
func PaletteID(indices []byte, encoding PaletteEncoding, flatIndex int) int {
	switch encoding {
	case EncodingHalfByte:
		b := indices[flatIndex/2]
		if flatIndex%2 == 0 {
			return int(b & 0x0F)
		}
		return int(b >> 4 & 0x0F)
	case EncodingByte:
		return int(indices[flatIndex])
	case EncodingShort:
		return int(binary.BigEndian.Uint16(indices[flatIndex*2:]))
	default:
		return 0
	}
}
