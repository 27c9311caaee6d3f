package light

import (
	"testing"

	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

func flatChunk(reg *registry.Registry, groundY int) *voxel.Chunk {
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			for y := 0; y <= groundY; y++ {
				c.SetBlockRaw(lx, y, lz, registry.Stone)
			}
		}
	}
	return c
}

func TestSkyColumnTopIsFifteen(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := flatChunk(reg, 10)

	p.SeedInitial(c, store.New())

	if v := c.SkyLight(5, voxel.WorldHeight-1, 5); v != 15 {
		t.Errorf("top of column: sky light = %d, want 15", v)
	}
}

func TestSkyLightZeroBeneathOpaqueColumn(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := flatChunk(reg, 10)

	p.SeedInitial(c, store.New())

	if v := c.SkyLight(5, 0, 5); v != 0 {
		t.Errorf("beneath solid ground: sky light = %d, want 0", v)
	}
}

func TestSkyLightLeaksUnderOverhang(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})

	// A horizontal slab at y=20 with a gap at lx=8, lz=8: light should
	// reach the cave mouth at y<20 near the gap via horizontal BFS.
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			if lx == 8 && lz == 8 {
				continue
			}
			c.SetBlockRaw(lx, 20, lz, registry.Stone)
		}
	}

	p.SeedInitial(c, store.New())

	if v := c.SkyLight(8, 19, 8); v == 0 {
		t.Error("expected light to leak down through the gap at (8,20,8)")
	}
	if v := c.SkyLight(9, 18, 8); v == 0 {
		t.Error("expected some light to spread sideways beneath the gap")
	}
}

func TestBlockLightEmitterSeedsNeighbors(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetBlockRaw(8, 64, 8, registry.Torch)

	p.SeedInitial(c, store.New())

	r, _, _ := c.BlockLightRGB(8, 64, 8)
	if r != reg.Lookup(registry.Torch).EmitR {
		t.Errorf("emitter cell R = %d, want full emission", r)
	}
	nr, _, _ := c.BlockLightRGB(9, 64, 8)
	if nr == 0 {
		t.Error("expected neighboring cell to receive propagated red light")
	}
}

func TestBlockLightDecaysWithDistance(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetBlockRaw(8, 64, 8, registry.Torch)

	p.SeedInitial(c, store.New())

	near, _, _ := c.BlockLightRGB(9, 64, 8)
	far, _, _ := c.BlockLightRGB(11, 64, 8)
	if far >= near {
		t.Errorf("expected light to decay with distance: near=%d far=%d", near, far)
	}
}

func TestOnBlockPlacedOpaqueClearsColumnBelow(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	p.SeedInitial(c, store.New())

	if v := c.SkyLight(8, 64, 8); v != 15 {
		t.Fatalf("precondition: expected full sky light in open air, got %d", v)
	}

	c.SetBlockRaw(8, 64, 8, registry.Stone)
	p.OnBlockPlaced(c, 8, 64, 8)

	if v := c.SkyLight(8, 64, 8); v != 0 {
		t.Errorf("placed opaque cell: sky light = %d, want 0", v)
	}
	if v := c.SkyLight(8, 63, 8); v != 0 {
		t.Errorf("cell beneath placed opaque block: sky light = %d, want 0", v)
	}
}

func TestOnBlockRemovedRestoresColumn(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	c := flatChunk(reg, 10)
	p.SeedInitial(c, store.New())

	c.SetBlockRaw(8, 10, 8, 0)
	p.OnBlockRemoved(c, 8, 10, 8)

	if v := c.SkyLight(8, 10, 8); v != 15 {
		t.Errorf("removed top block: sky light = %d, want 15", v)
	}
}

func TestPropagateEdgeLightBleedsAcrossBoundary(t *testing.T) {
	reg := registry.NewDefault()
	p := New(reg)
	st := store.New()

	source := voxel.New(voxel.Coord{X: 0, Z: 0})
	p.SeedInitial(source, st)
	st.Insert(source)

	neighbor := voxel.New(voxel.Coord{X: 1, Z: 0})
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			for y := 0; y < 64; y++ {
				neighbor.SetBlockRaw(lx, y, lz, registry.Stone)
			}
		}
	}
	// Dig a horizontal tunnel at y=64 open at x=0 of neighbor, which
	// backs onto source's x=15 boundary.
	for lz := 6; lz < 10; lz++ {
		for lx := 0; lx < 4; lx++ {
			neighbor.SetBlockRaw(lx, 64, lz, 0)
		}
	}

	p.PropagateEdgeLight(source, neighbor)

	if v := neighbor.SkyLight(0, 64, 7); v == 0 {
		t.Error("expected sky light to bleed across the chunk boundary into the tunnel mouth")
	}
}
