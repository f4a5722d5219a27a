package chunkio

import (
	"sync"

	"github.com/gogpu/mosaic"
)

// MemorySink collects chunk buffers in memory, keyed by grid index. Useful
// for tests and for pipelines that post-process chunks in-process.
//
// MemorySink is safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	chunks map[[2]int]*mosaic.Buffer
}

// NewMemorySink creates an empty collecting sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{chunks: make(map[[2]int]*mosaic.Buffer)}
}

// WriteChunk stores the buffer under the chunk's grid index.
func (s *MemorySink) WriteChunk(chunk mosaic.Chunk, buf *mosaic.Buffer) error {
	s.mu.Lock()
	s.chunks[[2]int{chunk.Row, chunk.Col}] = buf
	s.mu.Unlock()
	return nil
}

// Chunk returns the buffer written for the given grid index, or nil.
func (s *MemorySink) Chunk(row, col int) *mosaic.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks[[2]int{row, col}]
}

// Len returns the number of chunks written so far.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}
