package mosaic

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrapped errors are detectable with errors.Is.
var (
	// ErrInvalidConfig is returned by NewFuser for an invalid option value
	// such as a non-positive chunk size or an unknown blend policy.
	ErrInvalidConfig = errors.New("mosaic: invalid configuration")

	// ErrSingularTransform is returned by AddTile when a tile's transform
	// is not invertible. Registration fails fast so that chunk work never
	// starts with a broken tile.
	ErrSingularTransform = errors.New("mosaic: singular transform")
)

// LoadError reports a pixel loader failure: either the loader itself
// returned an error, or the pixels it returned disagree with the tile's
// declared shape.
type LoadError struct {
	TileID int
	Want   Shape // declared shape; zero value when the loader errored
	Got    Shape // returned shape; zero value when the loader errored
	Err    error // underlying loader error, nil for a shape mismatch
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mosaic: load tile %d: %v", e.TileID, e.Err)
	}
	return fmt.Sprintf("mosaic: load tile %d: pixel shape %v does not match declared shape %v",
		e.TileID, e.Got, e.Want)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FusionError reports a failure while fusing or persisting one specific
// chunk. It carries the chunk so callers can diagnose or retry it.
type FusionError struct {
	Chunk Chunk
	Err   error
}

func (e *FusionError) Error() string {
	return fmt.Sprintf("mosaic: fuse chunk (%d, %d): %v", e.Chunk.Row, e.Chunk.Col, e.Err)
}

func (e *FusionError) Unwrap() error { return e.Err }
