// Package mosaic fuses overlapping, affine-transformed 2D image tiles into
// one large mosaic, computed and persisted chunk by chunk.
//
// # Overview
//
// Each input tile carries a known affine transform into a shared coordinate
// frame. The library plans the minimal output canvas, partitions it into a
// grid of fixed-size chunks, indexes which tiles overlap which chunks, and
// fuses each chunk independently by inverse-warp resampling. Neither all
// tiles nor the full mosaic ever need to reside in memory at once: the
// memory footprint of a chunk task is bounded by the chunk size times the
// number of tiles overlapping that chunk.
//
// # Quick Start
//
//	f, err := mosaic.NewFuser(mosaic.WithChunkSize(2048, 2048))
//	if err != nil {
//		log.Fatal(err)
//	}
//	f.AddTile(mosaic.Shape{H: 5120, W: 5120}, mosaic.Identity(), "tiles/r0c0.tif")
//	f.AddTile(mosaic.Shape{H: 5120, W: 5120}, mosaic.Translate(500, -1000), "tiles/r0c1.tif")
//
//	report, err := f.Run(ctx, loader, sink)
//
// The pixel loader and the output sink are injected collaborators: the
// loader turns an opaque tile handle into pixels (see package tileio), the
// sink persists finished chunk buffers (see package chunkio).
//
// # Determinism
//
// The fused mosaic is identical regardless of worker count or chunk
// scheduling order. Chunks cover disjoint canvas regions, and within a chunk
// tiles blend in registration order. Fuse itself is a pure function and may
// be invoked for any chunk, in any order, on any goroutine, any number of
// times.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Fuser, Tile, Matrix, Grid, Buffer, Fuse
//   - Collaborator packages: tileio (pixel loaders), chunkio (chunk sinks)
//   - Internal: parallel (work-stealing chunk worker pool)
package mosaic
