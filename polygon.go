package mosaic

// Quad is a convex quadrilateral: the image of an axis-aligned rectangle
// under an invertible affine transform. Vertices are stored in the order
// the source corners were walked, so consecutive vertices share an edge.
type Quad [4]Point

// Rect is an axis-aligned rectangle with half-open-style min/max corners.
// For geometric predicates the region is treated as closed.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Corners returns the polygon obtained by mapping the corners of a tile of
// the given shape through m. The tile-local corners are walked as
// (0,0), (w,0), (w,h), (0,h).
func Corners(shape Shape, m Matrix) Quad {
	w := float64(shape.W)
	h := float64(shape.H)
	return Quad{
		m.Apply(Pt(0, 0)),
		m.Apply(Pt(w, 0)),
		m.Apply(Pt(w, h)),
		m.Apply(Pt(0, h)),
	}
}

// Bounds returns the axis-aligned bounding rectangle of the quad.
func (q Quad) Bounds() Rect {
	r := Rect{X0: q[0].X, Y0: q[0].Y, X1: q[0].X, Y1: q[0].Y}
	for _, p := range q[1:] {
		if p.X < r.X0 {
			r.X0 = p.X
		}
		if p.X > r.X1 {
			r.X1 = p.X
		}
		if p.Y < r.Y0 {
			r.Y0 = p.Y
		}
		if p.Y > r.Y1 {
			r.Y1 = p.Y
		}
	}
	return r
}

// IntersectsRect reports whether the closed quad region and the closed
// rectangle share any point. Touching edges or corners count as
// intersecting.
//
// This is a separating axis test: two convex shapes are disjoint iff some
// edge normal of one of them separates their projections. The rectangle
// contributes the two coordinate axes, the quad its four edge normals.
func (q Quad) IntersectsRect(r Rect) bool {
	// Rectangle axes: cheap interval checks against the quad's bounds.
	qb := q.Bounds()
	if qb.X1 < r.X0 || r.X1 < qb.X0 {
		return false
	}
	if qb.Y1 < r.Y0 || r.Y1 < qb.Y0 {
		return false
	}

	// Quad edge normals.
	rect := [4]Point{
		{r.X0, r.Y0},
		{r.X1, r.Y0},
		{r.X1, r.Y1},
		{r.X0, r.Y1},
	}
	for i := 0; i < 4; i++ {
		a := q[i]
		b := q[(i+1)%4]
		// Normal of edge a->b.
		axis := Point{X: b.Y - a.Y, Y: a.X - b.X}
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		qMin, qMax := project(axis, q[:])
		rMin, rMax := project(axis, rect[:])
		if qMax < rMin || rMax < qMin {
			return false
		}
	}
	return true
}

// project returns the min and max of the points projected onto axis.
// The axis need not be normalized: projections are only compared to each
// other on the same axis.
func project(axis Point, pts []Point) (min, max float64) {
	min = axis.Dot(pts[0])
	max = min
	for _, p := range pts[1:] {
		d := axis.Dot(p)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
