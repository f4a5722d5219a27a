package mosaic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/mosaic/internal/parallel"
)

// Sink accepts finished chunk buffers and persists them, typically into a
// chunked on-disk array. Write order and storage format are the sink's
// business; the fuser only guarantees that every written buffer is complete.
//
// Sinks are called from chunk workers, possibly concurrently, and must be
// safe for concurrent use.
type Sink interface {
	WriteChunk(chunk Chunk, buf *Buffer) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(chunk Chunk, buf *Buffer) error

// WriteChunk calls f(chunk, buf).
func (f SinkFunc) WriteChunk(chunk Chunk, buf *Buffer) error { return f(chunk, buf) }

// Fuser is a fusion job: a set of registered tiles plus configuration.
// Register tiles with AddTile, then call Run.
//
// Fuser is not safe for concurrent registration; Run may be called once
// registration is complete.
type Fuser struct {
	opts  fuserOptions
	tiles []*Tile
}

// NewFuser creates a fusion job. Invalid options are rejected here, before
// any tile or chunk work, and wrap ErrInvalidConfig.
func NewFuser(options ...Option) (*Fuser, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Fuser{opts: opts}, nil
}

// AddTile registers one tile: its declared pixel shape, the affine
// transform into the shared frame, and an opaque handle for the pixel
// loader. Tiles blend in registration order.
//
// The transform is validated invertible here rather than lazily during
// fusion, failing the whole job fast instead of letting every chunk
// rediscover the same broken tile. All tiles must share one channel count.
func (f *Fuser) AddTile(shape Shape, transform Matrix, handle any) (*Tile, error) {
	shape = shape.normalized()
	if !shape.valid() {
		return nil, fmt.Errorf("%w: tile %d: shape %v must have positive dimensions",
			ErrInvalidConfig, len(f.tiles), shape)
	}
	if len(f.tiles) > 0 && shape.C != f.tiles[0].Shape.C {
		return nil, fmt.Errorf("%w: tile %d: channel count %d does not match job channel count %d",
			ErrInvalidConfig, len(f.tiles), shape.C, f.tiles[0].Shape.C)
	}
	if _, ok := transform.Invert(); !ok {
		return nil, fmt.Errorf("tile %d: %w", len(f.tiles), ErrSingularTransform)
	}

	t := &Tile{
		ID:        len(f.tiles),
		Shape:     shape,
		Transform: transform,
		Handle:    handle,
	}
	f.tiles = append(f.tiles, t)
	return t, nil
}

// Tiles returns the registered tiles in registration order.
// The returned slice must not be modified.
func (f *Fuser) Tiles() []*Tile { return f.tiles }

// OutputDtype returns the configured output element type, for constructing
// a matching sink.
func (f *Fuser) OutputDtype() Dtype { return f.opts.dtype }

// Report summarizes a fusion run.
type Report struct {
	// CanvasH, CanvasW are the planned canvas dimensions.
	CanvasH, CanvasW int

	// Chunks is the total number of chunks in the grid.
	Chunks int

	// Fused is the number of chunks fused and written successfully.
	Fused int

	// Failed lists per-chunk failures. Under AbortJob it holds the
	// failures observed before the job stopped; under SkipChunk it holds
	// every failed chunk of the full run.
	Failed []*FusionError
}

// Run plans the canvas, partitions it into chunks, indexes tile overlaps,
// and fuses every chunk, handing each finished buffer to the sink.
//
// Chunk tasks fan out over a worker pool and are independent: tiles are
// reloaded per chunk rather than cached, so a task's memory footprint is
// bounded by the chunk size times its overlapping tile count, independent
// of canvas or job size. Results are identical for any worker count.
//
// A load or sink failure fails only that chunk; the configured
// FailurePolicy decides whether the job aborts or continues. Canceling ctx
// always aborts. A chunk that cannot be fully fused is never written.
func (f *Fuser) Run(ctx context.Context, loader PixelLoader, sink Sink) (Report, error) {
	layout := Plan(f.tiles)
	grid := NewGrid(layout.H, layout.W, f.opts.chunkH, f.opts.chunkW)
	index := BuildIndex(layout, grid)

	Logger().Info("mosaic: canvas planned",
		slog.Int("height", layout.H),
		slog.Int("width", layout.W),
		slog.Int("tiles", len(f.tiles)),
		slog.Int("chunks", grid.NumChunks()))

	report := Report{
		CanvasH: layout.H,
		CanvasW: layout.W,
		Chunks:  grid.NumChunks(),
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		fused int
	)
	fail := func(ferr *FusionError) {
		mu.Lock()
		report.Failed = append(report.Failed, ferr)
		mu.Unlock()
		if f.opts.failure == AbortJob {
			cancel()
		} else {
			Logger().Warn("mosaic: chunk skipped",
				slog.Int("row", ferr.Chunk.Row),
				slog.Int("col", ferr.Chunk.Col),
				slog.Any("error", ferr.Err))
		}
	}

	tasks := make([]func(), 0, grid.NumChunks())
	for _, chunk := range grid.Chunks() {
		c := chunk
		tasks = append(tasks, func() {
			if runCtx.Err() != nil {
				return
			}
			isects := index.For(c.Row, c.Col)
			Logger().Debug("mosaic: fusing chunk",
				slog.Int("row", c.Row),
				slog.Int("col", c.Col),
				slog.Int("tiles", len(isects)))

			buf, err := Fuse(c, layout.Channels, isects, loader, f.opts.blend, f.opts.resample)
			if err != nil {
				fail(&FusionError{Chunk: c, Err: err})
				return
			}
			if err := sink.WriteChunk(c, buf); err != nil {
				fail(&FusionError{Chunk: c, Err: err})
				return
			}
			mu.Lock()
			fused++
			mu.Unlock()
		})
	}

	pool := parallel.New(f.opts.workers)
	pool.RunAll(runCtx, tasks)
	pool.Close()

	report.Fused = fused

	Logger().Info("mosaic: job finished",
		slog.Int("fused", report.Fused),
		slog.Int("failed", len(report.Failed)))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if f.opts.failure == AbortJob && len(report.Failed) > 0 {
		return report, report.Failed[0]
	}
	return report, nil
}
