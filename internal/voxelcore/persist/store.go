// Package persist implements the persistence adapter spec §4.8 treats
// as external to the core: a write-behind byte-blob store the
// streaming scheduler calls into on chunk load and unload. The core
// never blocks on it — LoadChunk is best-effort and may be called from
// worker goroutines, SaveChunk only enqueues, and Flush is the only
// call that waits for pending writes to land.
package persist

import "github.com/dantero/voxelcore/internal/voxelcore/voxel"

// Store is the persistence adapter interface the streaming scheduler
// depends on. Implementations must make repeat SaveChunk calls for the
// same coordinate collapse to the latest write rather than queuing
// unbounded history.
type Store interface {
	// LoadChunk returns the persisted chunk at coord, or ok=false if
	// nothing is stored for it. Never returns an error: a corrupt or
	// unreadable blob is treated the same as "not found" (the chunk is
	// regenerated), consistent with the generation-failure handling in
	// the streaming scheduler.
	LoadChunk(coord voxel.Coord) (*voxel.Chunk, bool)

	// SaveChunk enqueues c for write-behind persistence. Returns
	// immediately; the write may not have reached storage when this
	// returns. Calling it again for the same coordinate before the
	// first write lands must merge into a single pending write.
	SaveChunk(c *voxel.Chunk)

	// Flush blocks until every enqueued write has reached storage.
	// Called on shutdown.
	Flush() error
}
