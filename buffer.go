package mosaic

// Buffer is a rectangular pixel buffer with one or more channels, stored as
// a flat float32 slice in row-major, channel-minor order.
//
// The fusion kernel computes in float32 regardless of the source or output
// dtype; sinks convert on write (see the Uint8 and Uint16 helpers).
type Buffer struct {
	h, w, c int
	data    []float32
}

// NewBuffer creates a zero-filled buffer. Zero is the background value of
// an unfused pixel. A channel count below 1 is treated as 1.
func NewBuffer(h, w, c int) *Buffer {
	if c < 1 {
		c = 1
	}
	return &Buffer{
		h: h, w: w, c: c,
		data: make([]float32, h*w*c),
	}
}

// H returns the buffer height in pixels.
func (b *Buffer) H() int { return b.h }

// W returns the buffer width in pixels.
func (b *Buffer) W() int { return b.w }

// Channels returns the channel count.
func (b *Buffer) Channels() int { return b.c }

// Shape returns the buffer shape.
func (b *Buffer) Shape() Shape { return Shape{H: b.h, W: b.w, C: b.c} }

// Data returns the raw backing slice.
func (b *Buffer) Data() []float32 { return b.data }

// At returns the value at pixel (y, x) channel ch.
// Out-of-bounds coordinates return 0.
func (b *Buffer) At(y, x, ch int) float32 {
	if x < 0 || x >= b.w || y < 0 || y >= b.h || ch < 0 || ch >= b.c {
		return 0
	}
	return b.data[(y*b.w+x)*b.c+ch]
}

// Set stores a value at pixel (y, x) channel ch.
// Out-of-bounds coordinates are ignored.
func (b *Buffer) Set(y, x, ch int, v float32) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h || ch < 0 || ch >= b.c {
		return
	}
	b.data[(y*b.w+x)*b.c+ch] = v
}

// offset returns the index of pixel (y, x) channel 0.
// Coordinates must be in bounds.
func (b *Buffer) offset(y, x int) int {
	return (y*b.w + x) * b.c
}

// Uint8 returns the buffer values rounded and clamped to [0, 255].
func (b *Buffer) Uint8() []uint8 {
	out := make([]uint8, len(b.data))
	for i, v := range b.data {
		out[i] = uint8(clampF(v+0.5, 0, 255))
	}
	return out
}

// Uint16 returns the buffer values rounded and clamped to [0, 65535].
func (b *Buffer) Uint16() []uint16 {
	out := make([]uint16, len(b.data))
	for i, v := range b.data {
		out[i] = uint16(clampF(v+0.5, 0, 65535))
	}
	return out
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
