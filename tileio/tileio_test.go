package tileio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/mosaic"
)

func TestMemoryLoader(t *testing.T) {
	loader := NewMemoryLoader()
	pix := mosaic.NewBuffer(4, 4, 1)
	pix.Set(1, 2, 0, 9)
	loader.Add("tile-a", pix)

	got, err := loader.LoadPixels("tile-a")
	if err != nil {
		t.Fatalf("LoadPixels() error: %v", err)
	}
	if got != pix {
		t.Error("LoadPixels() returned a different buffer than registered")
	}
}

func TestMemoryLoaderUnknownHandle(t *testing.T) {
	loader := NewMemoryLoader()

	_, err := loader.LoadPixels("nope")
	if !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("LoadPixels() error = %v, want ErrUnknownHandle", err)
	}
}

func TestMemoryLoaderReplace(t *testing.T) {
	loader := NewMemoryLoader()
	first := mosaic.NewBuffer(2, 2, 1)
	second := mosaic.NewBuffer(3, 3, 1)
	loader.Add(7, first)
	loader.Add(7, second)

	got, err := loader.LoadPixels(7)
	if err != nil {
		t.Fatalf("LoadPixels() error: %v", err)
	}
	if got != second {
		t.Error("Add() did not replace the earlier registration")
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(2, 1, color.Gray{Y: 200})

	buf := FromImage(img)
	if buf.Shape() != (mosaic.Shape{H: 2, W: 3, C: 1}) {
		t.Fatalf("shape = %v, want (2, 3, 1)", buf.Shape())
	}
	if got := buf.At(0, 0, 0); got != 10 {
		t.Errorf("At(0, 0, 0) = %v, want 10", got)
	}
	if got := buf.At(1, 2, 0); got != 200 {
		t.Errorf("At(1, 2, 0) = %v, want 200", got)
	}
}

func TestFromImageGray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	img.SetGray16(1, 1, color.Gray16{Y: 40000})

	buf := FromImage(img)
	if buf.Shape() != (mosaic.Shape{H: 2, W: 2, C: 1}) {
		t.Fatalf("shape = %v, want (2, 2, 1)", buf.Shape())
	}
	if got := buf.At(1, 1, 0); got != 40000 {
		t.Errorf("At(1, 1, 0) = %v, want 40000 (16-bit values kept)", got)
	}
}

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 251, B: 252, A: 255})

	buf := FromImage(img)
	if buf.Shape() != (mosaic.Shape{H: 1, W: 2, C: 4}) {
		t.Fatalf("shape = %v, want (1, 2, 4)", buf.Shape())
	}
	want := []float32{1, 2, 3, 128, 250, 251, 252, 255}
	for i, w := range want {
		if got := buf.Data()[i]; got != w {
			t.Errorf("element %d = %v, want %v", i, got, w)
		}
	}
}

func TestFromImageRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 100, G: 150, B: 200, A: 255})

	buf := FromImage(img)
	if buf.Shape() != (mosaic.Shape{H: 1, W: 1, C: 4}) {
		t.Fatalf("shape = %v, want (1, 1, 4)", buf.Shape())
	}
	want := []float32{100, 150, 200, 255}
	for i, w := range want {
		if got := buf.Data()[i]; got != w {
			t.Errorf("channel %d = %v, want %v", i, got, w)
		}
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	// Subimages carry non-zero Min; conversion must be origin-relative.
	img := image.NewRGBA(image.Rect(5, 7, 7, 9))
	img.SetRGBA(5, 7, color.RGBA{R: 42, A: 255})

	buf := FromImage(img)
	if buf.Shape() != (mosaic.Shape{H: 2, W: 2, C: 4}) {
		t.Fatalf("shape = %v, want (2, 2, 4)", buf.Shape())
	}
	if got := buf.At(0, 0, 0); got != 42 {
		t.Errorf("At(0, 0, 0) = %v, want 42", got)
	}
}

// writeTestPNG encodes img into a file under t.TempDir and returns its path.
func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tile.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestFileLoaderRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 10), G: uint8(y * 20), B: 5, A: 255,
			})
		}
	}
	path := writeTestPNG(t, img)

	buf, err := FileLoader{}.LoadPixels(path)
	if err != nil {
		t.Fatalf("LoadPixels() error: %v", err)
	}
	if buf.Shape() != (mosaic.Shape{H: 3, W: 4, C: 4}) {
		t.Fatalf("shape = %v, want (3, 4, 4)", buf.Shape())
	}
	if got := buf.At(2, 3, 0); got != 30 {
		t.Errorf("At(2, 3, 0) = %v, want 30", got)
	}
	if got := buf.At(1, 0, 1); got != 20 {
		t.Errorf("At(1, 0, 1) = %v, want 20", got)
	}
}

func TestFileLoaderBadHandle(t *testing.T) {
	_, err := FileLoader{}.LoadPixels(42)
	if !errors.Is(err, ErrBadHandle) {
		t.Errorf("LoadPixels(42) error = %v, want ErrBadHandle", err)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := FileLoader{}.LoadPixels(filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Fatal("LoadPixels() on a missing file: want error, got nil")
	}
}

func TestProbe(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 7, 5))
	path := writeTestPNG(t, img)

	shape, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	want := mosaic.Shape{H: 5, W: 7, C: 1}
	if shape != want {
		t.Errorf("Probe() = %v, want %v", shape, want)
	}
}

// Probe and LoadPixels must agree on the channel count, or registration
// would declare a shape LoadPixels cannot deliver.
func TestProbeMatchesLoad(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 3, 3))},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 3, 3))},
		{"rgba", image.NewRGBA(image.Rect(0, 0, 3, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestPNG(t, tt.img)

			probed, err := Probe(path)
			if err != nil {
				t.Fatalf("Probe() error: %v", err)
			}
			buf, err := FileLoader{}.LoadPixels(path)
			if err != nil {
				t.Fatalf("LoadPixels() error: %v", err)
			}
			if probed != buf.Shape() {
				t.Errorf("Probe() = %v, LoadPixels() shape = %v", probed, buf.Shape())
			}
		})
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Fatal("Probe() on a missing file: want error, got nil")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.bin")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Probe(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Probe() error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := (FileLoader{}).LoadPixels(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadPixels() error = %v, want ErrUnsupportedFormat", err)
	}
}
