package persist

import (
	"testing"

	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

func sampleChunk(coord voxel.Coord) *voxel.Chunk {
	c := voxel.New(coord)
	c.SetBlockRaw(3, 10, 7, 5)
	c.SetSkyLight(3, 10, 7, 12)
	c.SetBlockLightScalar(3, 10, 7, 9)
	return c
}

func TestEncodeDecodeChunkRoundTrip(t *testing.T) {
	coord := voxel.Coord{X: 2, Z: -3}
	c := sampleChunk(coord)

	data := EncodeChunk(c)
	if len(data) != chunkBlobSize {
		t.Fatalf("EncodeChunk length = %d, want %d", len(data), chunkBlobSize)
	}

	got, err := DecodeChunk(coord, data)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if got.Block(3, 10, 7) != 5 {
		t.Errorf("decoded block = %d, want 5", got.Block(3, 10, 7))
	}
	if got.SkyLight(3, 10, 7) != 12 {
		t.Errorf("decoded sky light = %d, want 12", got.SkyLight(3, 10, 7))
	}
	if got.BlockLightScalar(3, 10, 7) != 9 {
		t.Errorf("decoded scalar block light = %d, want 9", got.BlockLightScalar(3, 10, 7))
	}
}

func TestDecodeChunkRejectsWrongLength(t *testing.T) {
	if _, err := DecodeChunk(voxel.Coord{}, []byte{1, 2, 3}); err == nil {
		t.Error("expected an error for a short blob")
	}
}

func TestMemStoreSaveThenLoadRoundTrip(t *testing.T) {
	s := NewMemStore()
	coord := voxel.Coord{X: 5, Z: 5}
	c := sampleChunk(coord)

	if _, ok := s.LoadChunk(coord); ok {
		t.Fatal("expected no chunk before any save")
	}

	s.SaveChunk(c)
	got, ok := s.LoadChunk(coord)
	if !ok {
		t.Fatal("expected chunk to load after save")
	}
	if got.Block(3, 10, 7) != 5 {
		t.Errorf("loaded block = %d, want 5", got.Block(3, 10, 7))
	}
}

func TestMemStoreRepeatedSaveMergesToLatest(t *testing.T) {
	s := NewMemStore()
	coord := voxel.Coord{X: 0, Z: 0}

	first := sampleChunk(coord)
	s.SaveChunk(first)

	second := voxel.New(coord)
	second.SetBlockRaw(3, 10, 7, 9)
	s.SaveChunk(second)

	if got := s.Len(); got != 1 {
		t.Fatalf("expected exactly one stored blob per coordinate, got %d", got)
	}
	loaded, _ := s.LoadChunk(coord)
	if loaded.Block(3, 10, 7) != 9 {
		t.Errorf("expected the latest save to win, got block %d", loaded.Block(3, 10, 7))
	}
}

func TestDecodedChunkIsLightDirty(t *testing.T) {
	coord := voxel.Coord{X: 1, Z: 1}
	s := NewMemStore()
	s.SaveChunk(sampleChunk(coord))

	got, _ := s.LoadChunk(coord)
	if !got.LightDirty {
		t.Error("decoded chunk must be LightDirty so colored light and edge bleed get reseeded")
	}
}
