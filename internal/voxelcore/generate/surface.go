package generate

import (
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// layerSurface implements spec §4.2 step 2: for each column, label the
// topmost solid cell grass, the next three dirt, the rest stone
// (already stone from the density pass); below sea level an exposed
// grass surface becomes sand instead.
func layerSurface(c *voxel.Chunk, _ int64, cfg Config) {
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			top := topSolidY(c, lx, lz)
			if top < 0 {
				continue
			}
			surfaceID := registry.Grass
			if top <= cfg.SeaLevel {
				surfaceID = registry.Sand
			}
			c.SetBlockRaw(lx, top, lz, surfaceID)
			for d := 1; d <= 3 && top-d >= 0; d++ {
				c.SetBlockRaw(lx, top-d, lz, registry.Dirt)
			}
		}
	}
}

// fillWater implements spec §4.2 step 3: every non-solid cell at or
// below sea level becomes water.
func fillWater(c *voxel.Chunk, cfg Config, _ *registry.Registry) {
	for y := 0; y <= cfg.SeaLevel && y < voxel.WorldHeight; y++ {
		for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
			for lx := 0; lx < voxel.ChunkSizeX; lx++ {
				if c.Block(lx, y, lz) == 0 {
					c.SetBlockRaw(lx, y, lz, registry.Water)
				}
			}
		}
	}
}

func topSolidY(c *voxel.Chunk, lx, lz int) int {
	for y := voxel.WorldHeight - 1; y >= 0; y-- {
		if c.Block(lx, y, lz) != 0 {
			return y
		}
	}
	return -1
}
