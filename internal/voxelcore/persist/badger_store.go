package persist

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// BadgerStore is the on-disk Store backend: a badger key-value
// database keyed by the chunk's packed coordinate. Writes are
// write-behind — SaveChunk only stages the blob in a pending map and
// wakes a single background writer goroutine, so chunk-unload on the
// observer thread never blocks on disk IO. A second SaveChunk for a
// coordinate that hasn't reached disk yet simply replaces the staged
// blob, per the write-behind merge contract in Store's doc comment.
type BadgerStore struct {
	db *badger.DB

	mu      sync.Mutex
	pending map[uint64][]byte
	wake    chan struct{}
	done    chan struct{}
}

// OpenBadgerStore opens (creating if necessary) a badger database
// rooted at dir and starts its background writer.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persist: opening badger store at %q: %w", dir, err)
	}
	s := &BadgerStore{
		db:      db,
		pending: make(map[uint64][]byte),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.writer()
	return s, nil
}

func chunkKey(coord voxel.Coord) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, coord.Pack())
	return key
}

// LoadChunk implements Store.
func (s *BadgerStore) LoadChunk(coord voxel.Coord) (*voxel.Chunk, bool) {
	packed := coord.Pack()

	s.mu.Lock()
	if data, ok := s.pending[packed]; ok {
		s.mu.Unlock()
		c, err := DecodeChunk(coord, data)
		if err != nil {
			log.Printf("persist: discarding corrupt pending blob for %v: %v", coord, err)
			return nil, false
		}
		return c, true
	}
	s.mu.Unlock()

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coord))
		if err == badger.ErrKeyNotFound {
			return err
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, false
	}

	c, err := DecodeChunk(coord, data)
	if err != nil {
		log.Printf("persist: discarding corrupt blob for %v: %v", coord, err)
		return nil, false
	}
	return c, true
}

// SaveChunk implements Store: stage the blob and nudge the writer.
// Never blocks — a full wake channel means the writer is already
// scheduled to run again, which will pick up this write too.
func (s *BadgerStore) SaveChunk(c *voxel.Chunk) {
	data := EncodeChunk(c)
	s.mu.Lock()
	s.pending[c.Coord.Pack()] = data
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *BadgerStore) writer() {
	for range s.wake {
		s.drainPending()
	}
	close(s.done)
}

func (s *BadgerStore) drainPending() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[uint64][]byte)
	s.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for key, data := range batch {
		keyBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(keyBytes, key)
		if err := wb.Set(keyBytes, data); err != nil {
			log.Printf("persist: staging write for chunk key %d: %v", key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		log.Printf("persist: write batch failed, %d chunks not persisted this round: %v", len(batch), err)
	}
}

// Flush blocks until every staged write has reached disk.
func (s *BadgerStore) Flush() error {
	s.drainPending()
	return s.db.Sync()
}

// Close flushes pending writes and closes the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.Flush(); err != nil {
		log.Printf("persist: flush during close failed: %v", err)
	}
	close(s.wake)
	<-s.done
	return s.db.Close()
}
