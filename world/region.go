package world

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/willf/bitset"
)

const (
	// RegionWidthChunks is the chunk width of one region file along each axis.
	RegionWidthChunks = 32

	headerLength    = 32
	locationEntries = RegionWidthChunks * RegionWidthChunks
	magicLength     = 20
)

// Magic identifies a region container file. The first 20 bytes of every
// region file must match it exactly.
var Magic = [magicLength]byte{'H', 'y', 't', 'a', 'l', 'e', 'R', 'e', 'g', 'i', 'o', 'n', 'F', 'i', 'l', 'e', '0', '0', '0', '1'}

var (
	ErrChunkNotFound = errors.New("world: chunk not found")
	ErrBadMagic      = errors.New("world: region magic mismatch")
	ErrTruncated     = errors.New("world: region file truncated")
)

// Region reads one region container file and resolves relative chunk
// coordinates to compressed chunk payloads. The reader is not safe for
// concurrent access; usage should be protected by a mutex if concurrent
// access is desired.
type Region struct {
	source    io.ReadSeeker
	locations []uint32
	present   *bitset.BitSet
	Name      string

	Version     uint32
	BlobCount   uint32
	SegmentSize uint32
}

// NewRegion creates a Region over source. The ownership of the source is
// transferred to this reader. The header and location table are read and
// validated immediately.
func NewRegion(source io.ReadSeeker) (region *Region, err error) {
	region = &Region{
		source:    source,
		locations: make([]uint32, locationEntries),
		present:   bitset.New(locationEntries),
	}

	if file, ok := source.(*os.File); ok {
		region.Name = file.Name()
	}
	if err = region.readHeader(); err != nil {
		return nil, err
	}
	return region, nil
}

func (region *Region) readHeader() (err error) {
	if _, err = region.source.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var header struct {
		Magic       [magicLength]byte
		Version     uint32
		BlobCount   uint32
		SegmentSize uint32
	}
	if err = binary.Read(region.source, binary.BigEndian, &header); err != nil {
		return errors.Wrap(ErrTruncated, "header")
	}
	if !bytes.Equal(header.Magic[:], Magic[:]) {
		return ErrBadMagic
	}
	region.Version = header.Version
	region.BlobCount = header.BlobCount
	region.SegmentSize = header.SegmentSize

	if err = binary.Read(region.source, binary.BigEndian, region.locations); err != nil {
		return errors.Wrap(ErrTruncated, "location table")
	}
	for i, segment := range region.locations {
		if segment != 0 {
			region.present.Set(uint(i))
		}
	}
	return nil
}

// Locate resolves a relative chunk coordinate to its segment index.
// Returns ErrChunkNotFound for absent chunks.
func (region *Region) Locate(x, z int) (uint32, error) {
	segment := region.locations[x+z*RegionWidthChunks]
	if segment == 0 {
		return 0, ErrChunkNotFound
	}
	return segment, nil
}

// ChunkExists reports whether the location table has an entry for the
// relative chunk coordinate.
func (region *Region) ChunkExists(x, z int) bool {
	return region.present.Test(uint(x + z*RegionWidthChunks))
}

// PresentCount returns how many of the 1024 chunk slots are populated.
func (region *Region) PresentCount() uint {
	return region.present.Count()
}

// ReadBlob reads the chunk blob stored at the given segment. It returns the
// declared uncompressed size and the compressed payload bytes.
func (region *Region) ReadBlob(segment uint32) (uncompressedSize uint32, compressed []byte, err error) {
	offset := int64(segment)*int64(region.SegmentSize) + headerLength
	if _, err = region.source.Seek(offset, io.SeekStart); err != nil {
		return 0, nil, err
	}

	var sizes struct {
		UncompressedSize uint32
		CompressedSize   uint32
	}
	if err = binary.Read(region.source, binary.BigEndian, &sizes); err != nil {
		return 0, nil, errors.Wrapf(ErrTruncated, "blob sizes at segment %d", segment)
	}

	compressed = make([]byte, sizes.CompressedSize)
	if _, err = io.ReadFull(region.source, compressed); err != nil {
		return 0, nil, errors.Wrapf(ErrTruncated, "blob data at segment %d: declared %d bytes", segment, sizes.CompressedSize)
	}
	return sizes.UncompressedSize, compressed, nil
}

// Chunk locates and reads the compressed payload for the relative chunk
// coordinate in one step.
func (region *Region) Chunk(x, z int) ([]byte, error) {
	segment, err := region.Locate(x, z)
	if err != nil {
		return nil, err
	}
	_, compressed, err := region.ReadBlob(segment)
	return compressed, err
}

func (region *Region) Close() error {
	if closer, ok := region.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
