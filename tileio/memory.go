package tileio

import (
	"sync"

	"github.com/gogpu/mosaic"
)

// MemoryLoader serves pixel buffers registered up front, keyed by handle.
// It is the loader of choice for tests and for pipelines whose tiles are
// already decoded.
//
// MemoryLoader is safe for concurrent use.
type MemoryLoader struct {
	mu    sync.RWMutex
	tiles map[any]*mosaic.Buffer
}

// NewMemoryLoader creates an empty in-memory loader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{tiles: make(map[any]*mosaic.Buffer)}
}

// Add registers pixels under the given handle, replacing any previous
// registration. The loader keeps a reference, not a copy.
func (l *MemoryLoader) Add(handle any, pix *mosaic.Buffer) {
	l.mu.Lock()
	l.tiles[handle] = pix
	l.mu.Unlock()
}

// LoadPixels returns the pixels registered under handle.
func (l *MemoryLoader) LoadPixels(handle any) (*mosaic.Buffer, error) {
	l.mu.RLock()
	pix, ok := l.tiles[handle]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownHandle
	}
	return pix, nil
}
