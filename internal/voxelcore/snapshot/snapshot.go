// Package snapshot captures an immutable neighborhood view — one
// center chunk plus up to four cardinal neighbors — that the mesher
// reads without ever touching the store again. Capturing holds the
// store's per-shard lock only long enough to grab chunk pointers; all
// later reads go straight through those pointers (spec §4.4's
// no-map-lookups-after-capture contract).
package snapshot

import (
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Snapshot is a read-only view over a center chunk and its cardinal
// neighbors. A nil neighbor field means that neighbor was not loaded
// at capture time; reads that would land there resolve to air / zero
// light rather than erroring.
type Snapshot struct {
	Center voxel.Coord

	center *voxel.Chunk
	north  *voxel.Chunk // -Z
	south  *voxel.Chunk // +Z
	east   *voxel.Chunk // +X
	west   *voxel.Chunk // -X
}

// Capture reads the center chunk and its four cardinal neighbors from
// st and returns an immutable snapshot. Returns nil if the center
// chunk is not loaded — the mesher's documented failure mode is an
// empty mesh, which callers get by checking for a nil Snapshot before
// meshing.
func Capture(st *store.Store, coord voxel.Coord) *Snapshot {
	center := st.Get(coord)
	if center == nil {
		return nil
	}
	return &Snapshot{
		Center: coord,
		center: center,
		north:  st.Get(voxel.Coord{X: coord.X, Z: coord.Z - 1}),
		south:  st.Get(voxel.Coord{X: coord.X, Z: coord.Z + 1}),
		east:   st.Get(voxel.Coord{X: coord.X + 1, Z: coord.Z}),
		west:   st.Get(voxel.Coord{X: coord.X - 1, Z: coord.Z}),
	}
}

// resolve maps a possibly out-of-range (lx,lz) onto the chunk that
// owns it and the in-bounds local coordinate within that chunk.
// Diagonal accesses (both lx and lz out of [0,15]) are unsupported per
// spec §4.4 and return (nil, 0, 0) — callers translate that into
// air / zero light.
func (s *Snapshot) resolve(lx, lz int) (*voxel.Chunk, int, int) {
	xOut := lx < 0 || lx >= voxel.ChunkSizeX
	zOut := lz < 0 || lz >= voxel.ChunkSizeZ

	switch {
	case !xOut && !zOut:
		return s.center, lx, lz
	case xOut && zOut:
		return nil, 0, 0
	case lx == -1:
		return s.west, voxel.ChunkSizeX - 1, lz
	case lx == voxel.ChunkSizeX:
		return s.east, 0, lz
	case lz == -1:
		return s.north, lx, voxel.ChunkSizeZ - 1
	case lz == voxel.ChunkSizeZ:
		return s.south, lx, 0
	default:
		return nil, 0, 0
	}
}

// GetBlock returns the block id at (lx,y,lz), where lx,lz may range
// over [-1,16]. Out-of-range y, an absent neighbor, or a diagonal
// access all resolve to air.
func (s *Snapshot) GetBlock(lx, y, lz int) voxel.BlockID {
	c, rlx, rlz := s.resolve(lx, lz)
	if c == nil {
		return 0
	}
	return c.Block(rlx, y, rlz)
}

// GetSkyVisibility returns the sky-light level at (lx,y,lz) normalized
// to [0,1].
func (s *Snapshot) GetSkyVisibility(lx, y, lz int) float32 {
	c, rlx, rlz := s.resolve(lx, lz)
	if c == nil {
		if y >= voxel.WorldHeight {
			return 1
		}
		return 0
	}
	return float32(c.SkyLight(rlx, y, rlz)) / 15
}

// GetBlockLightScalar returns the legacy scalar block-light level at
// (lx,y,lz) normalized to [0,1].
func (s *Snapshot) GetBlockLightScalar(lx, y, lz int) float32 {
	c, rlx, rlz := s.resolve(lx, lz)
	if c == nil {
		return 0
	}
	return float32(c.BlockLightScalar(rlx, y, rlz)) / 15
}

// GetBlockLightRGB returns the colored block-light intensity at
// (lx,y,lz) normalized to [0,1] per channel.
func (s *Snapshot) GetBlockLightRGB(lx, y, lz int) [3]float32 {
	c, rlx, rlz := s.resolve(lx, lz)
	if c == nil {
		return [3]float32{}
	}
	r, g, b := c.BlockLightRGB(rlx, y, rlz)
	return [3]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

// CenterChunk returns the captured center chunk, for callers (the
// mesher's section-aware variants) that need direct raw-array access
// rather than the bounds-checked accessor methods.
func (s *Snapshot) CenterChunk() *voxel.Chunk {
	return s.center
}
