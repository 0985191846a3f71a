package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"hytale2map/chunk"
	"hytale2map/render"
	"hytale2map/world"
)

func intArgs(c *cli.Context, count int) ([]int, error) {
	if c.NArg() != count {
		return nil, errors.Errorf("expected %d arguments, got %d", count, c.NArg())
	}
	args := make([]int, count)
	for i := range args {
		v, err := strconv.Atoi(c.Args().Get(i))
		if err != nil {
			return nil, errors.Errorf("argument %q is not an integer", c.Args().Get(i))
		}
		args[i] = v
	}
	return args, nil
}

// setup builds the shared pieces every command needs: config, logger,
// world handle and renderer. The block table is optional; without it every
// block resolves through the keyword fallback colors.
func setup(c *cli.Context) (Config, *zap.Logger, *world.World, *render.Renderer, error) {
	config, err := loadConfig(c)
	if err != nil {
		return config, nil, nil, nil, err
	}
	logger, err := newLogger(c)
	if err != nil {
		return config, nil, nil, nil, err
	}
	if config.World == "" {
		return config, nil, nil, nil, errors.New("no world directory given (--world)")
	}
	w, err := world.Open(config.World)
	if err != nil {
		return config, nil, nil, nil, err
	}

	var table *render.BlockTable
	if config.BlockProperties != "" {
		if table, err = render.LoadBlockTable(config.BlockProperties); err != nil {
			return config, nil, nil, nil, err
		}
		logger.Info("loaded block properties", zap.Int("blocks", table.Len()))
	} else {
		logger.Warn("no block properties file, using fallback colors only")
	}

	renderer := render.NewRenderer(table, config.Scale, config.Workers, logger)
	return config, logger, w, renderer, nil
}

func renderChunkCommand(c *cli.Context) error {
	args, err := intArgs(c, 2)
	if err != nil {
		return err
	}
	config, logger, w, renderer, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	decoded, err := w.Chunk(args[0], args[1])
	if err != nil {
		return errors.Wrapf(err, "chunk %d,%d", args[0], args[1])
	}
	img, err := renderer.RenderChunk(decoded)
	if err != nil {
		return errors.Wrapf(err, "chunk %d,%d", args[0], args[1])
	}
	if err := render.WritePNG(config.Output, img); err != nil {
		return err
	}
	logger.Info("wrote chunk render",
		zap.String("output", config.Output),
		zap.Int("size", renderer.TileSize()))
	return nil
}

func renderMapCommand(c *cli.Context) error {
	args, err := intArgs(c, 4)
	if err != nil {
		return err
	}
	config, logger, w, renderer, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	img, err := renderer.RenderMap(w, args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	if err := render.WritePNG(config.Output, img); err != nil {
		return err
	}
	logger.Info("wrote map render",
		zap.String("output", config.Output),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return nil
}

// infoCommand decodes one chunk and logs its structure: region header,
// section palettes and encodings, and the stored heightmap range.
func infoCommand(c *cli.Context) error {
	args, err := intArgs(c, 2)
	if err != nil {
		return err
	}
	_, logger, w, _, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	chunkX, chunkZ := args[0], args[1]
	region, err := w.OpenRegion(chunkX, chunkZ)
	if err != nil {
		return errors.Wrapf(err, "chunk %d,%d", chunkX, chunkZ)
	}
	defer region.Close()

	logger.Info("region",
		zap.String("file", region.Name),
		zap.Uint32("version", region.Version),
		zap.Uint32("blobCount", region.BlobCount),
		zap.Uint32("segmentSize", region.SegmentSize),
		zap.Uint("presentChunks", region.PresentCount()))

	compressed, err := region.Chunk(chunkX&31, chunkZ&31)
	if err != nil {
		return errors.Wrapf(err, "chunk %d,%d", chunkX, chunkZ)
	}
	decoded, err := chunk.Decode(compressed)
	if err != nil {
		return errors.Wrapf(err, "chunk %d,%d", chunkX, chunkZ)
	}

	for i, section := range decoded.Components.ChunkColumn.Sections {
		fields := []zap.Field{zap.Int("section", i)}
		if block := section.Components.Block; block != nil && len(block.Data) > 0 {
			blockSection, err := chunk.DecodeBlockSection(block.Data)
			if err != nil {
				return err
			}
			fields = append(fields,
				zap.Stringer("blockEncoding", blockSection.Encoding),
				zap.Int("blockPalette", len(blockSection.Palette)))
		}
		if fluid := section.Components.Fluid; fluid != nil && len(fluid.Data) > 0 {
			fluidSection := chunk.DecodeFluidSection(fluid.Data)
			fields = append(fields,
				zap.Stringer("fluidEncoding", fluidSection.Encoding),
				zap.Int("fluidPalette", len(fluidSection.Palette)),
				zap.Bool("fluidUsable", fluidSection.Types != nil))
		}
		logger.Info("section", fields...)
	}

	blockData, err := decoded.BlockData()
	if err != nil {
		return err
	}
	if blockData == nil {
		logger.Info("no block chunk data")
		return nil
	}
	minHeight, maxHeight := blockData.HeightAt(0, 0), blockData.HeightAt(0, 0)
	for z := 0; z < render.ChunkSpan; z++ {
		for x := 0; x < render.ChunkSpan; x++ {
			h := blockData.HeightAt(x, z)
			if h < minHeight {
				minHeight = h
			}
			if h > maxHeight {
				maxHeight = h
			}
		}
	}
	logger.Info("block chunk data",
		zap.Bool("needsPhysics", blockData.NeedsPhysics),
		zap.Int("minHeight", minHeight),
		zap.Int("maxHeight", maxHeight))
	return nil
}
