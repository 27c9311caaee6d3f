// Package generate implements the deterministic procedural terrain
// generator (spec §4.2): a density-field pass, surface layering, water
// fill, and a seeded ore/tree decoration pass, each a pure function of
// (seed, chunk coordinate, config) with full and LOD-simplified
// variants.
package generate

import (
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Generator produces chunks from a seed and config. It holds no
// mutable state between calls — every call is a pure function of its
// arguments, which is what makes generate_full deterministic across
// runs (spec invariant 1).
type Generator struct {
	reg *registry.Registry
}

// New returns a Generator that resolves block ids against reg.
func New(reg *registry.Registry) *Generator {
	return &Generator{reg: reg}
}

// GenerateFull runs the full pipeline: density, surface layering, water
// fill, and ore/tree decoration.
func (g *Generator) GenerateFull(coord voxel.Coord, seed int64, cfg Config) *voxel.Chunk {
	c := voxel.New(coord)
	baseX, baseZ := int(coord.X)*voxel.ChunkSizeX, int(coord.Z)*voxel.ChunkSizeZ

	densityLattice(baseX, baseZ, seed, cfg, 4, 8, 4, func(lx, y, lz int) {
		c.SetBlockRaw(lx, y, lz, registry.Stone)
	})
	layerSurface(c, seed, cfg)
	fillWater(c, cfg, g.reg)
	decorate(c, baseX, baseZ, seed, cfg, g.reg)

	c.State = voxel.Loaded
	c.LightDirty = true
	return c
}

// GenerateSimplified runs the density/surface/water passes with fewer
// octaves and a coarser lattice, and skips decoration entirely — the
// variant used for chunks loaded at LOD2/LOD3 (spec §4.2).
func (g *Generator) GenerateSimplified(coord voxel.Coord, seed int64, cfg Config) *voxel.Chunk {
	c := voxel.New(coord)
	baseX, baseZ := int(coord.X)*voxel.ChunkSizeX, int(coord.Z)*voxel.ChunkSizeZ

	simplified := cfg
	if simplified.OctavesBase > 2 {
		simplified.OctavesBase = 2
	}
	if simplified.OctavesDetail > 1 {
		simplified.OctavesDetail = 1
	}
	if simplified.Octaves3D > 1 {
		simplified.Octaves3D = 1
	}

	densityLattice(baseX, baseZ, seed, simplified, 8, 16, 8, func(lx, y, lz int) {
		c.SetBlockRaw(lx, y, lz, registry.Stone)
	})
	layerSurface(c, seed, simplified)
	fillWater(c, simplified, g.reg)

	c.State = voxel.Loaded
	c.LightDirty = true
	return c
}
