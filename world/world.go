package world

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"hytale2map/chunk"
)

// World resolves absolute chunk coordinates to region files inside a save's
// chunks directory. Region files are opened read-only per lookup and closed
// before the call returns; there is no shared state between lookups.
type World struct {
	dir string
}

// Open validates that dir exists and returns a World over it. If dir
// contains a "chunks" subdirectory (a world directory rather than the
// chunks directory itself), that subdirectory is used.
func Open(dir string) (*World, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.Errorf("world: %s is not a directory", dir)
	}
	chunks := filepath.Join(dir, "chunks")
	if info, err := os.Stat(chunks); err == nil && info.IsDir() {
		dir = chunks
	}
	return &World{dir: dir}, nil
}

// RegionPath returns the file path for a region coordinate.
func (w *World) RegionPath(regionX, regionZ int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%d.%d.region.bin", regionX, regionZ))
}

// OpenRegion opens the region containing the given chunk coordinate. The
// caller owns the returned Region and must close it. A missing region file
// is reported as ErrChunkNotFound so batch renders can skip it.
func (w *World) OpenRegion(chunkX, chunkZ int) (*Region, error) {
	path := w.RegionPath(regionCoord(chunkX), regionCoord(chunkZ))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrChunkNotFound
		}
		return nil, err
	}
	region, err := NewRegion(file)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return region, nil
}

// Chunk reads and decodes the chunk at an absolute chunk coordinate.
func (w *World) Chunk(chunkX, chunkZ int) (*chunk.Chunk, error) {
	region, err := w.OpenRegion(chunkX, chunkZ)
	if err != nil {
		return nil, err
	}
	defer region.Close()

	compressed, err := region.Chunk(relativeCoord(chunkX), relativeCoord(chunkZ))
	if err != nil {
		return nil, err
	}
	decoded, err := chunk.Decode(compressed)
	if err != nil {
		return nil, errors.Wrapf(err, "chunk %d,%d", chunkX, chunkZ)
	}
	return decoded, nil
}

// regionCoord is the floored division of a chunk coordinate by the region
// width, correct for negative coordinates.
func regionCoord(c int) int {
	return c >> 5
}

// relativeCoord is the floored modulus of a chunk coordinate within its
// region, always in [0,31].
func relativeCoord(c int) int {
	return c & 31
}
