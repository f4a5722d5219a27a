package chunkio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/mosaic"
)

// RawSink writes each chunk as a raw little-endian file named "row.col"
// (the zarr chunk key convention) in a directory, converting values to the
// configured dtype. Element order is row-major, channel-minor, matching
// the buffer layout.
//
// RawSink is safe for concurrent use: chunks map to distinct files.
type RawSink struct {
	dir   string
	dtype mosaic.Dtype
}

// NewRawSink creates a sink writing into dir, creating it if needed.
func NewRawSink(dir string, dtype mosaic.Dtype) (*RawSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chunkio: create output dir: %w", err)
	}
	return &RawSink{dir: dir, dtype: dtype}, nil
}

// WriteChunk encodes and writes one chunk buffer.
func (s *RawSink) WriteChunk(chunk mosaic.Chunk, buf *mosaic.Buffer) error {
	path := filepath.Join(s.dir, fmt.Sprintf("%d.%d", chunk.Row, chunk.Col))
	data := Encode(buf, s.dtype)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("chunkio: write chunk: %w", err)
	}
	mosaic.Logger().Debug("chunkio: chunk written",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}

// Encode converts a buffer to little-endian bytes of the given dtype,
// rounding and clamping integer dtypes to their range.
func Encode(buf *mosaic.Buffer, dtype mosaic.Dtype) []byte {
	switch dtype {
	case mosaic.DtypeUint8:
		return buf.Uint8()

	case mosaic.DtypeUint16:
		vals := buf.Uint16()
		out := make([]byte, 2*len(vals))
		for i, v := range vals {
			binary.LittleEndian.PutUint16(out[2*i:], v)
		}
		return out

	default:
		data := buf.Data()
		out := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
		}
		return out
	}
}
