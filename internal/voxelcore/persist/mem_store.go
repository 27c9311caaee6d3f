package persist

import (
	"sync"

	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// MemStore is a synchronous in-memory Store. There is no background
// writer: SaveChunk encodes and stores immediately, so "enqueue" and
// "land" are the same step. Used when no save directory is configured
// and by tests that want a Store without a filesystem dependency.
type MemStore struct {
	mu    sync.Mutex
	blobs map[uint64][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[uint64][]byte)}
}

// LoadChunk implements Store.
func (s *MemStore) LoadChunk(coord voxel.Coord) (*voxel.Chunk, bool) {
	s.mu.Lock()
	data, ok := s.blobs[coord.Pack()]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	c, err := DecodeChunk(coord, data)
	if err != nil {
		return nil, false
	}
	return c, true
}

// SaveChunk implements Store. A second save for the same coordinate
// simply overwrites the first in the map — the merge-repeat-writes
// requirement falls out of using a map keyed by coordinate.
func (s *MemStore) SaveChunk(c *voxel.Chunk) {
	data := EncodeChunk(c)
	key := c.Coord.Pack()
	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()
}

// Flush implements Store. A no-op: there is nothing pending.
func (s *MemStore) Flush() error { return nil }

// Len reports how many chunks are currently persisted, for tests.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
