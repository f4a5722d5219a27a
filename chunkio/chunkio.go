// Package chunkio provides Sink implementations for the mosaic fusion
// core. Every sink writes one file per chunk, so concurrent chunk workers
// never contend on a shared file.
//
// RawSink produces zarr-style raw chunk files (little-endian, row-major,
// named "row.col"); array-level metadata is the surrounding pipeline's
// business. PNGSink produces one PNG per chunk for quick inspection.
package chunkio

import "errors"

// ErrBadChannels is returned by PNGSink for channel counts PNG cannot
// represent.
var ErrBadChannels = errors.New("chunkio: unsupported channel count for PNG")
