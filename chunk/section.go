package chunk

import (
	"github.com/pkg/errors"

	"hytale2map/internal/cursor"
)

// fluidLevelBytes is the size of the always-4-bit-packed fluid level
// array; it does not vary with the section's palette encoding.
const fluidLevelBytes = CellsPerSection / 2

// BlockSection is a decoded block blob for one section. The two Unknown
// fields have no confirmed semantics and are carried through untouched.
type BlockSection struct {
	UnknownLeading  uint32
	UnknownTrailing int8
	Encoding        PaletteEncoding
	Palette         Palette
	Indices         []byte
}

// FluidSection is a decoded fluid blob for one section. Types and Levels
// are nil when the blob was structurally unusable; callers must treat nil
// as "no fluid data", not as an error.
type FluidSection struct {
	Encoding PaletteEncoding
	Palette  Palette
	Types    []byte
	Levels   []byte
}

// DecodeBlockSection parses a section's block blob: an 8-byte header, a
// palette whose ids are assigned positionally (they are not stored in the
// stream), and the fixed-size packed index array selected by the encoding.
func DecodeBlockSection(data []byte) (*BlockSection, error) {
	c := cursor.New(data)

	section := &BlockSection{}
	var err error
	if section.UnknownLeading, err = c.U32BE(); err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "block header: %v", err)
	}
	packing, err := c.U8()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "block header: %v", err)
	}
	section.Encoding = PaletteEncoding(packing)
	if !section.Encoding.Valid() {
		return nil, errors.Wrapf(ErrCorruptFormat, "block header: packing factor %#x", packing)
	}
	paletteLen, err := c.U16BE()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "block header: %v", err)
	}
	if section.UnknownTrailing, err = c.I8(); err != nil {
		return nil, errors.Wrapf(ErrCorruptFormat, "block header: %v", err)
	}

	section.Palette = make(Palette, 0, paletteLen)
	for i := 0; i < int(paletteLen); i++ {
		entry, err := readPaletteEntry(c)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptFormat, "block palette entry %d: %v", i, err)
		}
		entry.ID = uint16(i)
		section.Palette = append(section.Palette, entry)
	}

	if n := section.Encoding.ArrayLen(); n > 0 {
		if section.Indices, err = c.Bytes(n); err != nil {
			return nil, errors.Wrapf(ErrCorruptFormat, "block index array: %v", err)
		}
	}
	return section, nil
}

// DecodeFluidSection parses a section's fluid blob. Unlike blocks there is
// no 8-byte pre-header and palette ids are stored explicitly. Structural
// anomalies never raise: the section degrades to nil Types/Levels and the
// caller sees a fluidless section.
func DecodeFluidSection(data []byte) *FluidSection {
	c := cursor.New(data)
	section := &FluidSection{}

	packing, err := c.U8()
	if err != nil {
		return section
	}
	section.Encoding = PaletteEncoding(packing)
	if !section.Encoding.Valid() {
		return section
	}
	paletteLen, err := c.U16BE()
	if err != nil {
		return section
	}

	section.Palette = make(Palette, 0, paletteLen)
	for i := 0; i < int(paletteLen); i++ {
		var id uint16
		if section.Encoding == EncodingShort {
			if id, err = c.U16BE(); err != nil {
				return section
			}
		} else {
			b, err := c.U8()
			if err != nil {
				return section
			}
			id = uint16(b)
		}
		entry, err := readPaletteEntry(c)
		if err != nil {
			return section
		}
		entry.ID = id
		section.Palette = append(section.Palette, entry)
	}

	var types []byte
	if n := section.Encoding.ArrayLen(); n > 0 {
		if types, err = c.Bytes(n); err != nil {
			return section
		}
	}
	levels, err := c.Bytes(fluidLevelBytes)
	if err != nil {
		return section
	}
	section.Types = types
	section.Levels = levels
	return section
}

// readPaletteEntry reads the shared tail of a palette entry: name length,
// UTF-8 name, count, and one undeciphered byte. The ID is filled in by the
// caller.
func readPaletteEntry(c *cursor.Cursor) (PaletteEntry, error) {
	var entry PaletteEntry
	nameLen, err := c.U16BE()
	if err != nil {
		return entry, err
	}
	if entry.Name, err = c.String(int(nameLen)); err != nil {
		return entry, err
	}
	if entry.Count, err = c.U16BE(); err != nil {
		return entry, err
	}
	if entry.Unknown, err = c.I8(); err != nil {
		return entry, err
	}
	return entry, nil
}

// Level returns the 4-bit fluid level at flatIndex, with even cells in the
// low nibble like HalfByte cell indices.
func (f *FluidSection) Level(flatIndex int) int {
	b := f.Levels[flatIndex/2]
	if flatIndex%2 == 0 {
		return int(b & 0x0F)
	}
	return int(b >> 4 & 0x0F)
}
