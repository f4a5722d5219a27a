package mosaic

import "fmt"

// Shape describes pixel dimensions as height, width and channel count.
// A zero C means single-channel and is normalized to 1 at registration.
type Shape struct {
	H, W, C int
}

// Elems returns the number of elements a buffer of this shape holds.
func (s Shape) Elems() int {
	return s.H * s.W * s.C
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.H, s.W, s.C)
}

// normalized returns the shape with a channel count of at least 1.
func (s Shape) normalized() Shape {
	if s.C <= 0 {
		s.C = 1
	}
	return s
}

// valid reports whether the spatial dimensions are positive.
func (s Shape) valid() bool {
	return s.H > 0 && s.W > 0
}

// Tile is one input image: a declared pixel shape, an affine transform
// mapping tile-local pixel coordinates into the shared frame, and an opaque
// handle understood by the pixel loader. Tiles are registered once and
// never mutated.
type Tile struct {
	// ID is the zero-based registration index. Registration order is also
	// the blend precedence within every chunk.
	ID int

	// Shape is the declared pixel shape. Pixels returned by the loader
	// must match it exactly.
	Shape Shape

	// Transform maps tile-local pixel coordinates (x=column, y=row) into
	// the shared coordinate frame. Must be invertible.
	Transform Matrix

	// Handle is passed through to the pixel loader unchanged.
	Handle any
}
