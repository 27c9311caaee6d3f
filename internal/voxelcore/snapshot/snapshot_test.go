package snapshot

import (
	"testing"

	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

func init() {
	registry.NewDefault()
}

func TestCaptureNilWhenCenterMissing(t *testing.T) {
	st := store.New()
	if snap := Capture(st, voxel.Coord{X: 0, Z: 0}); snap != nil {
		t.Fatal("expected nil snapshot when center chunk is not loaded")
	}
}

func TestGetBlockReadsCenter(t *testing.T) {
	st := store.New()
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetBlockRaw(5, 10, 5, registry.Stone)
	st.Insert(c)

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	if got := snap.GetBlock(5, 10, 5); got != registry.Stone {
		t.Errorf("GetBlock(5,10,5) = %d, want Stone", got)
	}
}

func TestGetBlockReadsEastNeighborAcrossBoundary(t *testing.T) {
	st := store.New()
	center := voxel.New(voxel.Coord{X: 0, Z: 0})
	east := voxel.New(voxel.Coord{X: 1, Z: 0})
	east.SetBlockRaw(0, 10, 3, registry.Dirt)
	st.Insert(center)
	st.Insert(east)

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	if got := snap.GetBlock(voxel.ChunkSizeX, 10, 3); got != registry.Dirt {
		t.Errorf("GetBlock(16,10,3) = %d, want Dirt (from east neighbor)", got)
	}
}

func TestGetBlockMissingNeighborResolvesToAir(t *testing.T) {
	st := store.New()
	st.Insert(voxel.New(voxel.Coord{X: 0, Z: 0}))

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	if got := snap.GetBlock(-1, 10, 3); got != registry.Air {
		t.Errorf("GetBlock with absent west neighbor = %d, want air", got)
	}
}

func TestGetBlockDiagonalResolvesToAir(t *testing.T) {
	st := store.New()
	center := voxel.New(voxel.Coord{X: 0, Z: 0})
	st.Insert(center)
	ne := voxel.New(voxel.Coord{X: 1, Z: -1})
	ne.SetBlockRaw(0, 10, voxel.ChunkSizeZ-1, registry.Stone)
	st.Insert(ne)

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	if got := snap.GetBlock(voxel.ChunkSizeX, 10, -1); got != registry.Air {
		t.Errorf("diagonal GetBlock = %d, want air (unsupported per contract)", got)
	}
}

func TestGetSkyVisibilityNormalized(t *testing.T) {
	st := store.New()
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetSkyLight(4, 50, 4, 15)
	st.Insert(c)

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	if got := snap.GetSkyVisibility(4, 50, 4); got != 1.0 {
		t.Errorf("GetSkyVisibility = %v, want 1.0", got)
	}
}

func TestGetBlockLightRGBNormalized(t *testing.T) {
	st := store.New()
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetBlockLightRGB(4, 50, 4, 255, 0, 128)
	st.Insert(c)

	snap := Capture(st, voxel.Coord{X: 0, Z: 0})
	rgb := snap.GetBlockLightRGB(4, 50, 4)
	if rgb[0] != 1.0 || rgb[1] != 0 || rgb[2] < 0.49 || rgb[2] > 0.51 {
		t.Errorf("GetBlockLightRGB = %v, want [1,0,~0.5]", rgb)
	}
}
