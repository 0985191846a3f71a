// Package render turns decoded chunks into top-down RGB rasters: surface
// shading, block color composition, fluid overlays, and tiling of chunk
// images into a single map.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hytale2map/chunk"
	"hytale2map/world"
)

// ChunkSpan is the block width of one chunk along each horizontal axis.
const ChunkSpan = 32

// Renderer renders chunks and chunk ranges. Safe for concurrent use: it
// holds only immutable configuration.
type Renderer struct {
	compositor *Compositor
	scale      int
	workers    int
	log        *zap.Logger
}

// NewRenderer builds a Renderer over an immutable block table. scale is
// the square pixel count per block; workers bounds the parallel chunk
// renders in RenderMap. Zero values pick sane defaults.
func NewRenderer(table *BlockTable, scale, workers int, log *zap.Logger) *Renderer {
	if scale < 1 {
		scale = 1
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		compositor: NewCompositor(table),
		scale:      scale,
		workers:    workers,
		log:        log,
	}
}

// TileSize returns the pixel width of one rendered chunk.
func (r *Renderer) TileSize() int {
	return ChunkSpan * r.scale
}

// RenderChunk rasters one decoded chunk into a TileSize-square image.
func (r *Renderer) RenderChunk(c *chunk.Chunk) (*image.RGBA, error) {
	scanner := chunk.NewScanner(c)

	var heights [ChunkSpan][ChunkSpan]int
	var names [ChunkSpan][ChunkSpan]string
	for z := 0; z < ChunkSpan; z++ {
		for x := 0; x < ChunkSpan; x++ {
			worldY, name, _, err := scanner.SurfaceHeight(x, z)
			if err != nil {
				return nil, err
			}
			heights[z][x] = worldY
			names[z][x] = name
		}
	}

	blockData, err := c.BlockData()
	if err != nil {
		// A bad tint blob should not sink the whole chunk; render untinted.
		r.log.Warn("ignoring corrupt block chunk data", zap.Error(err))
		blockData = nil
	}

	tile := r.TileSize()
	img := image.NewRGBA(image.Rect(0, 0, tile, tile))
	scale := float64(r.scale)

	for z := 0; z < ChunkSpan; z++ {
		for x := 0; x < ChunkSpan; x++ {
			height := heights[z][x]

			var tint *RGB
			if blockData != nil {
				tr, tg, tb := blockData.TintAt(x, z)
				tint = &RGB{tr, tg, tb}
			}
			base := r.compositor.BlockColor(names[z][x], tint)
			nb := neighborhood(&heights, x, z)
			fluidType, fluidDepth := scanner.SurfaceFluid(x, z, height)

			for sy := 0; sy < r.scale; sy++ {
				for sx := 0; sx < r.scale; sx++ {
					u := (float64(sx) + 0.5) / scale
					v := (float64(sy) + 0.5) / scale
					shaded := base.Scale(Shade(float64(height), nb, u, v))
					final := BlendFluid(shaded, fluidType, fluidDepth)
					img.SetRGBA(x*r.scale+sx, z*r.scale+sy, color.RGBA{R: final.R, G: final.G, B: final.B, A: 255})
				}
			}
		}
	}
	return img, nil
}

// neighborhood collects the eight neighbor heights around (x,z), clamping
// to the center height at chunk edges.
func neighborhood(heights *[ChunkSpan][ChunkSpan]int, x, z int) Neighborhood {
	center := heights[z][x]
	at := func(nx, nz int) float64 {
		if nx < 0 || nx >= ChunkSpan || nz < 0 || nz >= ChunkSpan {
			return float64(center)
		}
		return float64(heights[nz][nx])
	}
	return Neighborhood{
		N: at(x, z-1), S: at(x, z+1), W: at(x-1, z), E: at(x+1, z),
		NW: at(x-1, z-1), NE: at(x+1, z-1), SW: at(x-1, z+1), SE: at(x+1, z+1),
	}
}

// RenderMap renders the inclusive chunk range (x0,z0)..(x1,z1) into one
// tiled image. Chunks render in parallel; absent or undecodable chunks are
// skipped and leave their tile black, never aborting the batch.
func (r *Renderer) RenderMap(w *world.World, x0, z0, x1, z1 int) (*image.RGBA, error) {
	if x1 < x0 || z1 < z0 {
		return nil, errors.Errorf("render: empty chunk range (%d,%d)..(%d,%d)", x0, z0, x1, z1)
	}

	tile := r.TileSize()
	img := image.NewRGBA(image.Rect(0, 0, (x1-x0+1)*tile, (z1-z0+1)*tile))

	var group errgroup.Group
	group.SetLimit(r.workers)
	for cz := z0; cz <= z1; cz++ {
		for cx := x0; cx <= x1; cx++ {
			cx, cz := cx, cz
			group.Go(func() error {
				decoded, err := w.Chunk(cx, cz)
				if err != nil {
					if errors.Is(err, world.ErrChunkNotFound) {
						r.log.Debug("chunk absent", zap.Int("x", cx), zap.Int("z", cz))
					} else {
						r.log.Warn("skipping unreadable chunk", zap.Int("x", cx), zap.Int("z", cz), zap.Error(err))
					}
					return nil
				}
				tileImg, err := r.RenderChunk(decoded)
				if err != nil {
					r.log.Warn("skipping corrupt chunk", zap.Int("x", cx), zap.Int("z", cz), zap.Error(err))
					return nil
				}
				// Tiles are disjoint, so concurrent draws do not overlap.
				bounds := image.Rect((cx-x0)*tile, (cz-z0)*tile, (cx-x0+1)*tile, (cz-z0+1)*tile)
				draw.Draw(img, bounds, tileImg, image.Point{}, draw.Src)
				return nil
			})
		}
	}
	_ = group.Wait()
	return img, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return png.Encode(file, img)
}
