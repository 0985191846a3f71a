// Package chunk decodes the compressed chunk payloads found in region
// files: the zstd-framed BSON document, the palette-compressed block and
// fluid section arrays, the 10-bit packed heightmap/tint blob, and the
// surface scan that turns all of that into per-column terrain data.
package chunk

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// SectionCount is the fixed number of vertical sections in a chunk column.
// Each section is 32 blocks tall, covering world Y 0..319 in total.
const SectionCount = 10

var (
	ErrCorruptPayload = errors.New("chunk: corrupt payload")
	ErrCorruptFormat  = errors.New("chunk: corrupt section data")
)

// Chunk is the typed view of a decoded chunk document. Only the components
// the renderer consumes are modeled; unknown document fields are ignored by
// the BSON decoder.
type Chunk struct {
	Components Components `bson:"Components"`
}

type Components struct {
	ChunkColumn    ChunkColumn      `bson:"ChunkColumn"`
	BlockChunkData *BinaryComponent `bson:"BlockChunkData,omitempty"`
}

type ChunkColumn struct {
	Sections []Section `bson:"Sections"`
}

// Section holds the per-slice block and fluid blobs. Either component may
// be absent, meaning the section is entirely empty for that category.
type Section struct {
	Components SectionComponents `bson:"Components"`
}

type SectionComponents struct {
	Block *BlockComponent `bson:"Block,omitempty"`
	Fluid *FluidComponent `bson:"Fluid,omitempty"`
}

type BlockComponent struct {
	Version int32  `bson:"Version"`
	Data    []byte `bson:"Data"`
}

type FluidComponent struct {
	Data []byte `bson:"Data"`
}

type BinaryComponent struct {
	Data []byte `bson:"Data"`
}

// A single shared decoder: DecodeAll on a nil-option zstd.Decoder is safe
// for concurrent use.
var zstdDecoder, _ = zstd.NewReader(nil)

// Decode decompresses a chunk payload and deserializes it into a Chunk.
// The section count is validated here so downstream code can index
// sections without re-checking. No partial result is returned on failure.
func Decode(compressed []byte) (*Chunk, error) {
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptPayload, "zstd: %v", err)
	}

	var decoded Chunk
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrapf(ErrCorruptPayload, "bson: %v", err)
	}
	if n := len(decoded.Components.ChunkColumn.Sections); n != SectionCount {
		return nil, errors.Wrapf(ErrCorruptPayload, "expected %d sections, document has %d", SectionCount, n)
	}
	return &decoded, nil
}
