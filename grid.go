package mosaic

import "math"

// Chunk is one rectangular region of the output canvas, identified by its
// grid index and bounded by half-open pixel intervals in canvas
// coordinates.
type Chunk struct {
	// Row, Col are the grid indices (0-based).
	Row, Col int

	// Y0, Y1 bound the rows and X0, X1 the columns, half-open.
	Y0, Y1 int
	X0, X1 int
}

// H returns the chunk height in pixels.
func (c Chunk) H() int { return c.Y1 - c.Y0 }

// W returns the chunk width in pixels.
func (c Chunk) W() int { return c.X1 - c.X0 }

// Rect returns the chunk bounds as a geometric rectangle.
func (c Chunk) Rect() Rect {
	return Rect{
		X0: float64(c.X0), Y0: float64(c.Y0),
		X1: float64(c.X1), Y1: float64(c.Y1),
	}
}

// Grid partitions a canvas into an exact, gap-free, overlap-free grid of
// rectangular chunks. All chunks have the configured size except possibly
// the last along each axis, which takes the remainder.
//
// Grid is immutable after construction and safe for concurrent use.
type Grid struct {
	h, w           int
	chunkH, chunkW int
	rows, cols     int
}

// NewGrid creates a grid for a canvas of the given dimensions. Chunk
// dimensions must be positive; canvas dimensions may be zero, yielding an
// empty grid.
func NewGrid(h, w, chunkH, chunkW int) Grid {
	g := Grid{h: h, w: w, chunkH: chunkH, chunkW: chunkW}
	if h > 0 && w > 0 {
		g.rows = (h + chunkH - 1) / chunkH
		g.cols = (w + chunkW - 1) / chunkW
	}
	return g
}

// Rows returns the number of chunk rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of chunk columns.
func (g Grid) Cols() int { return g.cols }

// NumChunks returns the total number of chunks.
func (g Grid) NumChunks() int { return g.rows * g.cols }

// At returns the chunk at the given grid index.
// Edge chunks are clipped to the canvas.
func (g Grid) At(row, col int) Chunk {
	c := Chunk{
		Row: row, Col: col,
		Y0: row * g.chunkH,
		X0: col * g.chunkW,
	}
	c.Y1 = min(c.Y0+g.chunkH, g.h)
	c.X1 = min(c.X0+g.chunkW, g.w)
	return c
}

// Chunks enumerates all chunks in row-major order: the row index varies
// slowest. The ordering is deterministic and reproducible.
func (g Grid) Chunks() []Chunk {
	chunks := make([]Chunk, 0, g.rows*g.cols)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			chunks = append(chunks, g.At(row, col))
		}
	}
	return chunks
}

// cover returns the half-open grid index ranges of chunks whose closed
// rectangles can touch r, clamped to the grid. Chunk row k spans
// [k*chunkH, (k+1)*chunkH) and touches r iff k*chunkH <= r.Y1 and
// (k+1)*chunkH >= r.Y0; touching boundaries count, matching the closed
// region semantics of the exact intersection test.
func (g Grid) cover(r Rect) (row0, row1, col0, col1 int) {
	if g.rows == 0 || g.cols == 0 {
		return 0, 0, 0, 0
	}
	ch := float64(g.chunkH)
	cw := float64(g.chunkW)
	row0 = clampInt(int(math.Ceil(r.Y0/ch))-1, 0, g.rows)
	row1 = clampInt(int(math.Floor(r.Y1/ch))+1, 0, g.rows)
	col0 = clampInt(int(math.Ceil(r.X0/cw))-1, 0, g.cols)
	col1 = clampInt(int(math.Floor(r.X1/cw))+1, 0, g.cols)
	return row0, row1, col0, col1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
