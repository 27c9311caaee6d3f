package generate

import "github.com/dantero/voxelcore/internal/voxelcore/registry"
import "github.com/dantero/voxelcore/internal/voxelcore/voxel"

// oreBand bounds the y-range a given ore id may spawn in, mirroring
// real-world-ish rarity bands: common ores near the surface, rare ones
// deep.
type oreBand struct {
	id       voxel.BlockID
	minY     int
	maxY     int
	rarity   float64 // multiplier on cfg.OreDensity; smaller = rarer
}

// decorate implements spec §4.2 step 4 (full generator only): a seeded
// sprinkle of ores per y-band, and trees on grass surfaces meeting
// slope/clearance criteria. Every decision is a deterministic hash of
// (seed, world coordinate) — there is no shared RNG state, so chunks
// decorate identically regardless of generation order (spec's
// determinism contract).
func decorate(c *voxel.Chunk, baseX, baseZ int, seed int64, cfg Config, reg *registry.Registry) {
	bands := []oreBand{
		{id: registry.OreCoal, minY: 5, maxY: 120, rarity: 1.0},
		{id: registry.OreIron, minY: 5, maxY: 64, rarity: 0.6},
		{id: registry.OreGold, minY: 5, maxY: 32, rarity: 0.25},
		{id: registry.OreDiamond, minY: 5, maxY: 16, rarity: 0.08},
	}

	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			wx, wz := baseX+lx, baseZ+lz
			for y := 5; y < voxel.WorldHeight-1; y++ {
				if c.Block(lx, y, lz) != registry.Stone {
					continue
				}
				for _, band := range bands {
					if y < band.minY || y > band.maxY {
						continue
					}
					if decisionHash(wx, y, wz, seed^int64(band.id)*31) < cfg.OreDensity*band.rarity {
						c.SetBlockRaw(lx, y, lz, band.id)
						break
					}
				}
			}

			top := topSolidY(c, lx, lz)
			if top < 0 || top <= cfg.SeaLevel || c.Block(lx, top, lz) != registry.Grass {
				continue
			}
			if !hasClearance(c, lx, top, lz) || !flatEnough(c, lx, lz) {
				continue
			}
			if decisionHash(wx, top, wz, seed^0x7EE) < cfg.TreeDensity {
				plantTree(c, lx, top, lz)
			}
		}
	}
}

// decisionHash returns a deterministic pseudo-random value in [0,1)
// for a world coordinate, independent of generation order.
func decisionHash(x, y, z int, seed int64) float64 {
	return lattice3(int64(x), int64(y), int64(z), seed)
}

func hasClearance(c *voxel.Chunk, lx, top, lz int) bool {
	for dy := 1; dy <= 6; dy++ {
		if top+dy >= voxel.WorldHeight {
			return false
		}
		if c.Block(lx, top+dy, lz) != 0 {
			return false
		}
	}
	return true
}

// flatEnough requires the four orthogonal in-chunk neighbors (where
// present) to be within one block of this column's height — trees
// never spawn on a cliff edge.
func flatEnough(c *voxel.Chunk, lx, lz int) bool {
	h := topSolidY(c, lx, lz)
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, d := range dirs {
		nx, nz := lx+d[0], lz+d[1]
		if nx < 0 || nx >= voxel.ChunkSizeX || nz < 0 || nz >= voxel.ChunkSizeZ {
			continue
		}
		nh := topSolidY(c, nx, nz)
		if nh < 0 || abs(nh-h) > 1 {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// plantTree writes a minimal trunk-and-canopy blob. It never writes
// outside the chunk, so trees whose canopy would cross a chunk
// boundary are simply clipped (a documented limitation consistent with
// generation being chunk-local and neighbor-free).
func plantTree(c *voxel.Chunk, lx, groundY, lz int) {
	trunkHeight := 4
	for dy := 1; dy <= trunkHeight; dy++ {
		y := groundY + dy
		if y >= voxel.WorldHeight {
			return
		}
		c.SetBlockRaw(lx, y, lz, registry.Log)
	}
	canopyCenterY := groundY + trunkHeight
	for dy := -1; dy <= 2; dy++ {
		y := canopyCenterY + dy
		if y < 0 || y >= voxel.WorldHeight {
			continue
		}
		radius := 2
		if dy == 2 {
			radius = 1
		}
		for dz := -radius; dz <= radius; dz++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx == 0 && dz == 0 && dy < 1 {
					continue // trunk occupies the center up to canopyCenterY
				}
				nx, nz := lx+dx, lz+dz
				if nx < 0 || nx >= voxel.ChunkSizeX || nz < 0 || nz >= voxel.ChunkSizeZ {
					continue
				}
				if c.Block(nx, y, nz) == 0 {
					c.SetBlockRaw(nx, y, nz, registry.Leaves)
				}
			}
		}
	}
}
