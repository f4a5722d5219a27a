// Package tileio provides PixelLoader implementations for the mosaic
// fusion core: an in-memory loader for pipelines that already hold pixels
// (and for tests), and a file loader decoding PNG, TIFF and BMP tiles into
// float32 buffers.
//
// Numeric values are preserved: 8-bit sources load as 0..255, 16-bit
// sources as 0..65535. Grayscale images load as one channel, color images
// as three (RGB) or four (RGBA) channels.
package tileio

import "errors"

// Loader errors.
var (
	// ErrUnknownHandle is returned when a handle was never registered
	// with the loader.
	ErrUnknownHandle = errors.New("tileio: unknown tile handle")

	// ErrBadHandle is returned when a handle has the wrong dynamic type
	// for the loader.
	ErrBadHandle = errors.New("tileio: handle is not a file path")

	// ErrUnsupportedFormat is returned when the image format or color
	// model is not supported.
	ErrUnsupportedFormat = errors.New("tileio: unsupported image format")
)
