// Command mosaicfuse fuses a set of affine-transformed image tiles into a
// chunked mosaic, driven by a TOML job description.
//
// Example job file:
//
//	output = "mosaic_out"
//	format = "raw"           # raw | png
//	chunk_size = [2048, 2048]
//	blend = "overwrite"      # overwrite | max | average
//	resample = "nearest"     # nearest | bilinear
//	dtype = "uint16"         # uint8 | uint16 | float32
//	failure = "abort"        # abort | skip
//	workers = 0              # 0 = GOMAXPROCS
//
//	[[tiles]]
//	path = "tiles/r0c0.tif"
//	affine = [1.0, 0.0, 0.0, 0.0, 1.0, 0.0]   # a b c d e f
//
//	[[tiles]]
//	path = "tiles/r0c1.tif"
//	scale = [0.5, 1.1]
//	translate = [500.0, -1000.0]
//
// A tile either gives the six affine coefficients directly or a
// scale/translate pair, composed as translate ∘ scale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/mosaic"
	"github.com/gogpu/mosaic/chunkio"
	"github.com/gogpu/mosaic/tileio"
)

type jobConfig struct {
	Output    string       `toml:"output"`
	Format    string       `toml:"format"`
	ChunkSize []int        `toml:"chunk_size"`
	Blend     string       `toml:"blend"`
	Resample  string       `toml:"resample"`
	Dtype     string       `toml:"dtype"`
	Failure   string       `toml:"failure"`
	Workers   int          `toml:"workers"`
	Tiles     []tileConfig `toml:"tiles"`
}

type tileConfig struct {
	Path      string    `toml:"path"`
	Affine    []float64 `toml:"affine"`
	Scale     []float64 `toml:"scale"`
	Translate []float64 `toml:"translate"`
}

func main() {
	var (
		configPath = flag.String("config", "job.toml", "job description file")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	mosaic.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	var cfg jobConfig
	if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to read job config: %v", err)
	}

	fuser, err := buildFuser(&cfg)
	if err != nil {
		log.Fatalf("Invalid job: %v", err)
	}

	sink, err := buildSink(&cfg, fuser.OutputDtype())
	if err != nil {
		log.Fatalf("Failed to create sink: %v", err)
	}

	report, err := fuser.Run(context.Background(), tileio.FileLoader{}, sink)
	if err != nil {
		log.Fatalf("Fusion failed: %v", err)
	}

	log.Printf("Fused %d/%d chunks into %s (canvas %dx%d)",
		report.Fused, report.Chunks, cfg.Output, report.CanvasH, report.CanvasW)
	for _, f := range report.Failed {
		log.Printf("Chunk (%d, %d) failed: %v", f.Chunk.Row, f.Chunk.Col, f.Err)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

// buildFuser translates the TOML job into fuser options and registers
// every tile, probing each image file for its pixel shape.
func buildFuser(cfg *jobConfig) (*mosaic.Fuser, error) {
	opts, err := fuserOptions(cfg)
	if err != nil {
		return nil, err
	}

	fuser, err := mosaic.NewFuser(opts...)
	if err != nil {
		return nil, err
	}

	if len(cfg.Tiles) == 0 {
		return nil, fmt.Errorf("job has no tiles")
	}
	for i, tc := range cfg.Tiles {
		transform, err := tileTransform(tc)
		if err != nil {
			return nil, fmt.Errorf("tile %d (%s): %w", i, tc.Path, err)
		}
		shape, err := tileio.Probe(tc.Path)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		if _, err := fuser.AddTile(shape, transform, tc.Path); err != nil {
			return nil, err
		}
	}
	return fuser, nil
}

func fuserOptions(cfg *jobConfig) ([]mosaic.Option, error) {
	var opts []mosaic.Option

	if len(cfg.ChunkSize) > 0 {
		if len(cfg.ChunkSize) != 2 {
			return nil, fmt.Errorf("chunk_size must be [height, width]")
		}
		opts = append(opts, mosaic.WithChunkSize(cfg.ChunkSize[0], cfg.ChunkSize[1]))
	}

	switch cfg.Blend {
	case "", "overwrite":
	case "max":
		opts = append(opts, mosaic.WithBlend(mosaic.BlendMax))
	case "average":
		opts = append(opts, mosaic.WithBlend(mosaic.BlendAverage))
	default:
		return nil, fmt.Errorf("unknown blend policy %q", cfg.Blend)
	}

	switch cfg.Resample {
	case "", "nearest":
	case "bilinear":
		opts = append(opts, mosaic.WithResample(mosaic.ResampleBilinear))
	default:
		return nil, fmt.Errorf("unknown resample method %q", cfg.Resample)
	}

	switch cfg.Dtype {
	case "", "float32":
	case "uint8":
		opts = append(opts, mosaic.WithOutputDtype(mosaic.DtypeUint8))
	case "uint16":
		opts = append(opts, mosaic.WithOutputDtype(mosaic.DtypeUint16))
	default:
		return nil, fmt.Errorf("unknown dtype %q", cfg.Dtype)
	}

	switch cfg.Failure {
	case "", "abort":
	case "skip":
		opts = append(opts, mosaic.WithFailurePolicy(mosaic.SkipChunk))
	default:
		return nil, fmt.Errorf("unknown failure policy %q", cfg.Failure)
	}

	opts = append(opts, mosaic.WithWorkers(cfg.Workers))
	return opts, nil
}

// tileTransform builds the tile's affine transform from either the six
// coefficients or a scale/translate pair (applied scale first).
func tileTransform(tc tileConfig) (mosaic.Matrix, error) {
	if len(tc.Affine) > 0 {
		if len(tc.Affine) != 6 {
			return mosaic.Matrix{}, fmt.Errorf("affine needs 6 coefficients, got %d", len(tc.Affine))
		}
		if len(tc.Scale) > 0 || len(tc.Translate) > 0 {
			return mosaic.Matrix{}, fmt.Errorf("affine excludes scale/translate")
		}
		a := tc.Affine
		return mosaic.Matrix{
			A: a[0], B: a[1], C: a[2],
			D: a[3], E: a[4], F: a[5],
		}, nil
	}

	m := mosaic.Identity()
	if len(tc.Scale) > 0 {
		if len(tc.Scale) != 2 {
			return mosaic.Matrix{}, fmt.Errorf("scale needs 2 factors, got %d", len(tc.Scale))
		}
		m = mosaic.Scale(tc.Scale[0], tc.Scale[1])
	}
	if len(tc.Translate) > 0 {
		if len(tc.Translate) != 2 {
			return mosaic.Matrix{}, fmt.Errorf("translate needs 2 offsets, got %d", len(tc.Translate))
		}
		m = mosaic.Translate(tc.Translate[0], tc.Translate[1]).Multiply(m)
	}
	return m, nil
}

func buildSink(cfg *jobConfig, dtype mosaic.Dtype) (mosaic.Sink, error) {
	out := cfg.Output
	if out == "" {
		out = "mosaic_out"
	}
	switch cfg.Format {
	case "", "raw":
		return chunkio.NewRawSink(out, dtype)
	case "png":
		return chunkio.NewPNGSink(out, dtype)
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
