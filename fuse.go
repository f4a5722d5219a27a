package mosaic

import (
	"fmt"
	"math"
)

// PixelLoader turns an opaque tile handle into pixels. Implementations may
// crop, transpose or convert formats internally; the core only requires
// that the returned buffer matches the tile's declared shape.
//
// Loaders are called from chunk tasks, possibly concurrently, and must be
// safe for concurrent use.
type PixelLoader interface {
	LoadPixels(handle any) (*Buffer, error)
}

// LoaderFunc adapts a function to the PixelLoader interface.
type LoaderFunc func(handle any) (*Buffer, error)

// LoadPixels calls f(handle).
func (f LoaderFunc) LoadPixels(handle any) (*Buffer, error) { return f(handle) }

// Fuse resamples and blends the given tiles into one chunk buffer of the
// chunk's extent with the given channel count.
//
// Fuse is a pure function of its inputs: it touches no shared mutable
// state, identical inputs produce identical buffers, and it may be invoked
// for any chunk, in any order, on any goroutine, any number of times. This
// is the contract an external chunk-parallel engine relies on.
//
// The buffer starts at the background value (0). Tiles contribute in list
// order by inverse-warp resampling: every destination pixel center is
// mapped into tile coordinates through the inverted canvas transform,
// skipped if it falls outside [0, w) x [0, h), and otherwise sampled and
// combined under the blend policy. Destination-to-source mapping means
// holes and folds of forward warping cannot arise.
//
// Sample coordinates are derived from canvas-global pixel centers and the
// per-tile canvas transform rather than the chunk-local one: pixel centers
// are exact in float64 and the inverted matrix is shared by every chunk,
// so a pixel's sampled value does not depend on which chunk, of whatever
// partitioning, it landed in.
func Fuse(chunk Chunk, channels int, intersections []Intersection, loader PixelLoader, blend BlendPolicy, resample ResampleMethod) (*Buffer, error) {
	buf := NewBuffer(chunk.H(), chunk.W(), channels)

	// Per-pixel contribution counter, scoped to this call. Overwrite
	// never needs it; max uses it to distinguish "no contribution yet"
	// from a genuine 0, average uses it to finalize the mean.
	var count []uint32
	if blend != BlendOverwrite {
		count = make([]uint32, buf.H()*buf.W())
	}

	for _, is := range intersections {
		if err := warpTile(buf, count, chunk, is, loader, blend, resample); err != nil {
			return nil, err
		}
	}

	if blend == BlendAverage {
		finalizeAverage(buf, count)
	}
	return buf, nil
}

// warpTile loads one tile and blends its contribution into buf.
func warpTile(buf *Buffer, count []uint32, chunk Chunk, is Intersection, loader PixelLoader, blend BlendPolicy, resample ResampleMethod) error {
	tile := is.Tile
	pix, err := loader.LoadPixels(tile.Handle)
	if err != nil {
		return &LoadError{TileID: tile.ID, Err: err}
	}
	if pix.Shape() != tile.Shape {
		return &LoadError{TileID: tile.ID, Want: tile.Shape, Got: pix.Shape()}
	}

	inv, ok := is.Canvas.Invert()
	if !ok {
		// Registration validates invertibility, and composing with the
		// canvas shift preserves it. Reaching this means the tile was
		// never registered through AddTile.
		return fmt.Errorf("tile %d: %w", tile.ID, ErrSingularTransform)
	}

	tw := float64(tile.Shape.W)
	th := float64(tile.Shape.H)
	channels := min(buf.Channels(), pix.Channels())

	for y := 0; y < buf.H(); y++ {
		gy := float64(chunk.Y0+y) + 0.5
		for x := 0; x < buf.W(); x++ {
			// Destination pixel center in canvas coordinates.
			src := inv.Apply(Pt(float64(chunk.X0+x)+0.5, gy))
			if src.X < 0 || src.X >= tw || src.Y < 0 || src.Y >= th {
				continue
			}

			di := buf.offset(y, x)
			first := false
			if count != nil {
				count[y*buf.W()+x]++
				first = count[y*buf.W()+x] == 1
			}
			for ch := 0; ch < channels; ch++ {
				v := samplePixel(pix, src.X, src.Y, ch, resample)
				switch blend {
				case BlendOverwrite:
					buf.data[di+ch] = v
				case BlendMax:
					if first || v > buf.data[di+ch] {
						buf.data[di+ch] = v
					}
				case BlendAverage:
					// Accumulate; finalizeAverage divides once.
					buf.data[di+ch] += v
				}
			}
		}
	}
	return nil
}

// samplePixel samples the tile at continuous pixel coordinates (sx, sy),
// which are guaranteed in [0, w) x [0, h).
func samplePixel(pix *Buffer, sx, sy float64, ch int, resample ResampleMethod) float32 {
	if resample == ResampleNearest {
		return pix.At(int(sy), int(sx), ch)
	}
	return sampleBilinear(pix, sx, sy, ch)
}

// sampleBilinear interpolates between the 4 pixels neighboring the
// continuous coordinate. Taps outside the tile clamp to the edge, so
// border pixels extend rather than darken.
func sampleBilinear(pix *Buffer, sx, sy float64, ch int) float32 {
	fx := sx - 0.5
	fy := sy - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	x1 := x0 + 1
	y1 := y0 + 1

	w := pix.W()
	h := pix.H()
	x0 = clampInt(x0, 0, w-1)
	x1 = clampInt(x1, 0, w-1)
	y0 = clampInt(y0, 0, h-1)
	y1 = clampInt(y1, 0, h-1)

	v00 := pix.At(y0, x0, ch)
	v10 := pix.At(y0, x1, ch)
	v01 := pix.At(y1, x0, ch)
	v11 := pix.At(y1, x1, ch)

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}

// finalizeAverage divides accumulated sums by the contribution count.
// Pixels no tile touched stay at the background value.
func finalizeAverage(buf *Buffer, count []uint32) {
	for p, n := range count {
		if n == 0 {
			continue
		}
		di := p * buf.Channels()
		for ch := 0; ch < buf.Channels(); ch++ {
			buf.data[di+ch] /= float32(n)
		}
	}
}
