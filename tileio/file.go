package tileio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	// Registered image formats. PNG and JPEG come from the standard
	// library; TIFF (the usual microscopy tile format) and BMP from
	// golang.org/x/image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gogpu/mosaic"
)

// FileLoader loads tile pixels from image files. The tile handle must be a
// file path (string); the format is detected from the file content.
//
// FileLoader is stateless and safe for concurrent use.
type FileLoader struct{}

// LoadPixels decodes the image at the path given by handle.
func (FileLoader) LoadPixels(handle any) (*mosaic.Buffer, error) {
	path, ok := handle.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrBadHandle, handle)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("tileio: open tile: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("tileio: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Probe returns the pixel shape of the image at path without decoding the
// pixel data, for registering tiles ahead of fusion.
func Probe(path string) (mosaic.Shape, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return mosaic.Shape{}, fmt.Errorf("tileio: open tile: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if errors.Is(err, image.ErrFormat) {
		return mosaic.Shape{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return mosaic.Shape{}, fmt.Errorf("tileio: probe %s: %w", path, err)
	}
	return mosaic.Shape{
		H: cfg.Height,
		W: cfg.Width,
		C: channelsFor(cfg.ColorModel),
	}, nil
}

// channelsFor maps a color model to the channel count FromImage produces.
func channelsFor(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model:
		return 4
	default:
		return 3
	}
}

// FromImage converts a decoded image into a float32 buffer.
// Grayscale sources become one channel and keep their bit depth
// numerically (0..255 or 0..65535); NRGBA/RGBA sources become four 0..255
// channels; everything else becomes three 0..255 RGB channels.
func FromImage(img image.Image) *mosaic.Buffer {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()

	switch src := img.(type) {
	case *image.Gray:
		buf := mosaic.NewBuffer(h, w, 1)
		data := buf.Data()
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			for x, v := range row {
				data[y*w+x] = float32(v)
			}
		}
		return buf

	case *image.Gray16:
		buf := mosaic.NewBuffer(h, w, 1)
		data := buf.Data()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*src.Stride + x*2
				data[y*w+x] = float32(uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1]))
			}
		}
		return buf

	case *image.NRGBA:
		buf := mosaic.NewBuffer(h, w, 4)
		data := buf.Data()
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			for i, v := range row {
				data[y*w*4+i] = float32(v)
			}
		}
		return buf

	case *image.RGBA, *image.RGBA64, *image.NRGBA64:
		buf := mosaic.NewBuffer(h, w, 4)
		data := buf.Data()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := (y*w + x) * 4
				data[i+0] = float32(c.R)
				data[i+1] = float32(c.G)
				data[i+2] = float32(c.B)
				data[i+3] = float32(c.A)
			}
		}
		return buf

	default:
		buf := mosaic.NewBuffer(h, w, 3)
		data := buf.Data()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 3
				data[i+0] = float32(r >> 8)
				data[i+1] = float32(g >> 8)
				data[i+2] = float32(bb >> 8)
			}
		}
		return buf
	}
}
