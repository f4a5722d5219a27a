package mosaic

// Intersection annotates one tile overlapping one chunk.
type Intersection struct {
	Tile *Tile

	// Canvas maps tile-local pixel coordinates into canvas coordinates
	// (the tile transform composed with the canvas shift). It is the
	// same matrix for every chunk the tile touches; the fusion kernel
	// inverts this one, so resampled values are bit-identical no matter
	// how the canvas is chunked.
	Canvas Matrix

	// Local maps tile-local pixel coordinates into chunk-local
	// coordinates: translate(-chunk.origin) composed with Canvas. The
	// fusion kernel deliberately samples through Canvas instead, keeping
	// results independent of the chunking; Local serves consumers that
	// work in chunk-local coordinates, such as per-chunk visualization.
	Local Matrix
}

// Index maps every chunk of a grid to the ordered list of tiles overlapping
// it. Per-chunk lists preserve tile registration order, which is the blend
// precedence consumed by the fusion kernel.
//
// The index is built once per job and must not be mutated afterwards; it is
// the only resource shared across chunk tasks and is read-only by contract.
type Index struct {
	grid  Grid
	lists [][]Intersection
}

// BuildIndex computes the tile lists for every chunk of the grid.
//
// Each tile's transformed corner polygon is computed once. Candidate chunks
// are narrowed to the grid range covered by the polygon's bounding box, then
// confirmed with the exact quad/rectangle test, so cost scales with the
// chunks a tile actually spans rather than the full grid.
func BuildIndex(layout Layout, grid Grid) *Index {
	ix := &Index{
		grid:  grid,
		lists: make([][]Intersection, grid.NumChunks()),
	}
	for i := range layout.Tiles {
		pt := &layout.Tiles[i]
		quad := Corners(pt.Tile.Shape, pt.Transform)
		row0, row1, col0, col1 := grid.cover(quad.Bounds())
		for row := row0; row < row1; row++ {
			for col := col0; col < col1; col++ {
				c := grid.At(row, col)
				if !quad.IntersectsRect(c.Rect()) {
					continue
				}
				local := Translate(-float64(c.X0), -float64(c.Y0)).Multiply(pt.Transform)
				k := row*grid.Cols() + col
				ix.lists[k] = append(ix.lists[k], Intersection{
					Tile:   pt.Tile,
					Canvas: pt.Transform,
					Local:  local,
				})
			}
		}
	}
	return ix
}

// Grid returns the chunk grid the index was built for.
func (ix *Index) Grid() Grid { return ix.grid }

// For returns the ordered intersections for the chunk at the given grid
// index. A chunk no tile overlaps yields an empty list; such a chunk fuses
// to an all-background buffer. The returned slice must not be modified.
func (ix *Index) For(row, col int) []Intersection {
	return ix.lists[row*ix.grid.Cols()+col]
}
