package mosaic

import "math"

// PlacedTile is a tile together with its canvas transform: the registered
// transform composed with the canvas origin shift.
type PlacedTile struct {
	Tile *Tile

	// Transform maps tile-local pixel coordinates into canvas coordinates,
	// where the canvas minimum corner is the origin.
	Transform Matrix
}

// Layout is the planned placement of every tile on the output canvas.
// It is derived once per job and read-only afterwards.
type Layout struct {
	// H, W are the canvas dimensions: the smallest integer box containing
	// every tile's shifted corner set.
	H, W int

	// Channels is the common channel count of all tiles.
	Channels int

	// Shift is the translation applied uniformly to every tile transform
	// so the minimum transformed corner lands on the origin.
	Shift Matrix

	// Tiles holds the placed tiles in registration order.
	Tiles []PlacedTile
}

// Plan computes the minimal non-negative canvas for the given tiles and the
// origin shift applied to every tile transform.
//
// The canvas is sized by sweeping all transformed tile corners: the shift
// translates the elementwise minimum corner to (0,0) and the shape is the
// per-axis ceil of the swept extent, so every tile is fully covered. A
// single tile with the identity transform yields an identity shift and a
// canvas of exactly the tile shape.
func Plan(tiles []*Tile) Layout {
	if len(tiles) == 0 {
		return Layout{Shift: Identity()}
	}

	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)
	for _, t := range tiles {
		b := Corners(t.Shape, t.Transform).Bounds()
		minX = math.Min(minX, b.X0)
		minY = math.Min(minY, b.Y0)
		maxX = math.Max(maxX, b.X1)
		maxY = math.Max(maxY, b.Y1)
	}

	shift := Translate(-minX, -minY)
	layout := Layout{
		H:        int(math.Ceil(maxY - minY)),
		W:        int(math.Ceil(maxX - minX)),
		Channels: tiles[0].Shape.C,
		Shift:    shift,
		Tiles:    make([]PlacedTile, len(tiles)),
	}
	for i, t := range tiles {
		layout.Tiles[i] = PlacedTile{
			Tile:      t,
			Transform: shift.Multiply(t.Transform),
		}
	}
	return layout
}
