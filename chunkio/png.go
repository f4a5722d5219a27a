package chunkio

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/mosaic"
)

// PNGSink writes each chunk as a PNG file named "chunk_row_col.png".
// One-channel buffers become grayscale images (8- or 16-bit per the
// dtype), three-channel buffers RGB and four-channel buffers RGBA, both
// 8-bit. Other channel counts are rejected with ErrBadChannels.
//
// PNGSink is safe for concurrent use: chunks map to distinct files.
type PNGSink struct {
	dir   string
	dtype mosaic.Dtype
}

// NewPNGSink creates a sink writing into dir, creating it if needed.
func NewPNGSink(dir string, dtype mosaic.Dtype) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chunkio: create output dir: %w", err)
	}
	return &PNGSink{dir: dir, dtype: dtype}, nil
}

// WriteChunk encodes and writes one chunk buffer.
func (s *PNGSink) WriteChunk(chunk mosaic.Chunk, buf *mosaic.Buffer) error {
	img, err := toImage(buf, s.dtype)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("chunk_%d_%d.png", chunk.Row, chunk.Col))
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("chunkio: create chunk file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("chunkio: encode chunk: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chunkio: close chunk file: %w", err)
	}
	mosaic.Logger().Debug("chunkio: chunk written", slog.String("path", path))
	return nil
}

// toImage converts a chunk buffer into an image for PNG encoding.
func toImage(buf *mosaic.Buffer, dtype mosaic.Dtype) (image.Image, error) {
	h, w := buf.H(), buf.W()
	rect := image.Rect(0, 0, w, h)

	switch buf.Channels() {
	case 1:
		if dtype == mosaic.DtypeUint16 {
			img := image.NewGray16(rect)
			for i, v := range buf.Uint16() {
				img.Pix[2*i] = uint8(v >> 8)
				img.Pix[2*i+1] = uint8(v)
			}
			return img, nil
		}
		img := image.NewGray(rect)
		copy(img.Pix, buf.Uint8())
		return img, nil

	case 3:
		img := image.NewNRGBA(rect)
		vals := buf.Uint8()
		for p := 0; p < h*w; p++ {
			img.Pix[4*p+0] = vals[3*p+0]
			img.Pix[4*p+1] = vals[3*p+1]
			img.Pix[4*p+2] = vals[3*p+2]
			img.Pix[4*p+3] = 0xff
		}
		return img, nil

	case 4:
		img := image.NewNRGBA(rect)
		copy(img.Pix, buf.Uint8())
		return img, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrBadChannels, buf.Channels())
	}
}
