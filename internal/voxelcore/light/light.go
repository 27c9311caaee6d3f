// Package light computes sky-light and colored block-light fields for
// a chunk: an initial column scan plus bounded 6-direction BFS
// propagation, incremental updates on block placement/removal, and
// cross-chunk edge seeding when a neighbor loads. Every BFS run is
// clamped to a single chunk's (x,z) extent (spec's bounded-cascade
// contract) — cross-chunk bleed only happens through
// PropagateEdgeLight.
package light

import (
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Propagator computes light fields against one block registry. It
// holds no per-chunk state, so the same instance can run concurrently
// across chunks that do not share a coordinate.
type Propagator struct {
	reg *registry.Registry
}

// New returns a Propagator resolving block ids against reg.
func New(reg *registry.Registry) *Propagator {
	return &Propagator{reg: reg}
}

func inChunkBounds(lx, y, lz int) bool {
	return lx >= 0 && lx < voxel.ChunkSizeX &&
		lz >= 0 && lz < voxel.ChunkSizeZ &&
		y >= 0 && y < voxel.WorldHeight
}

func blockLightReduction(id voxel.BlockID) float64 {
	switch id {
	case registry.Water:
		return 0.7
	case registry.Leaves:
		return 0.85
	default:
		return 1.0
	}
}

// SeedInitial runs the full light computation for a freshly generated
// chunk: sky column scan, bounded sky BFS, block-light emitter BFS,
// and a pull of light across the boundary from any cardinal neighbor
// already present in the store. Returns the set of chunk coordinates
// whose meshes must now be rebuilt.
func (p *Propagator) SeedInitial(c *voxel.Chunk, st *store.Store) []voxel.Coord {
	p.scanSkyColumns(c)
	p.bfsSky(c, p.allLitSkyCells(c))
	p.bfsBlockLight(c, p.seedBlockLightEmitters(c))

	dirty := newDirtySet()
	dirty.add(c.Coord)
	for _, d := range fourCardinal {
		nc := voxel.Coord{X: c.Coord.X + int32(d[0]), Z: c.Coord.Z + int32(d[2])}
		if neighbor := st.Get(nc); neighbor != nil {
			p.PropagateEdgeLight(neighbor, c)
			dirty.add(nc)
		}
	}

	c.LightDirty = false
	c.Dirty = true
	if c.State < voxel.Lit {
		c.State = voxel.Lit
	}
	return dirty.slice()
}

// scanSkyColumns implements spec §4.3's column pass: for each (x,z),
// scan top to bottom with a running level, zeroing at the first opaque
// cell and subtracting configured opacity everywhere else. This cannot
// stop early at the column's opaque-solid heightmap: a transparent
// block with nonzero opacity (leaves, most visibly — decorate.go's
// plantTree caps a trunk's own column with a leaf block sitting above
// the topmost log) can still attenuate light above that point, so
// every cell has to be visited.
func (p *Propagator) scanSkyColumns(c *voxel.Chunk) {
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			level := 15
			for y := voxel.WorldHeight - 1; y >= 0; y-- {
				id := c.Block(lx, y, lz)
				def := p.reg.Lookup(id)
				if def.Solid && !def.Transparent {
					level = 0
				} else {
					level -= int(p.reg.Opacity(id))
					if level < 0 {
						level = 0
					}
				}
				c.SetSkyLight(lx, y, lz, byte(level))
			}
		}
	}
}

// allLitSkyCells seeds a multi-source BFS from every cell the column
// pass left above zero. Horizontal relaxation during bfsSky then fills
// in the cases the column pass cannot see on its own — light leaking
// sideways under an overhang, out of a cave mouth, and so on.
//
// scanSkyColumns zeroes a column permanently once it crosses the first
// opaque-solid cell scanning top-down, so every cell at or below that
// column's heightmap is guaranteed already dark; the cached heightmap
// lets this skip straight past that range instead of walking the full
// column looking for a transition that cannot occur below it.
func (p *Propagator) allLitSkyCells(c *voxel.Chunk) *cellQueue {
	q := newCellQueue(voxel.ChunkVolume / 4)
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			floor := c.Heightmap(lx, lz, p.reg.IsSolid)
			for y := voxel.WorldHeight - 1; y > floor; y-- {
				if c.SkyLight(lx, y, lz) > 0 {
					q.push(cell{lx, y, lz})
				}
			}
		}
	}
	return q
}

func (p *Propagator) bfsSky(c *voxel.Chunk, q *cellQueue) {
	for !q.empty() {
		cu := q.pop()
		level := c.SkyLight(cu.lx, cu.y, cu.lz)
		if level == 0 {
			continue
		}
		for _, d := range sixDirections {
			nlx, ny, nlz := cu.lx+d[0], cu.y+d[1], cu.lz+d[2]
			if !inChunkBounds(nlx, ny, nlz) {
				continue
			}
			nbID := c.Block(nlx, ny, nlz)
			def := p.reg.Lookup(nbID)
			if def.Solid && !def.Transparent {
				continue
			}
			candidate := int(level) - 1 - int(p.reg.Opacity(nbID))
			if candidate < 0 {
				candidate = 0
			}
			if byte(candidate) > c.SkyLight(nlx, ny, nlz) {
				c.SetSkyLight(nlx, ny, nlz, byte(candidate))
				q.push(cell{nlx, ny, nlz})
			}
		}
	}
}

func (p *Propagator) seedBlockLightEmitters(c *voxel.Chunk) *cellQueue {
	q := newCellQueue(64)
	for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			for y := 0; y < voxel.WorldHeight; y++ {
				id := c.Block(lx, y, lz)
				def := p.reg.Lookup(id)
				if !def.Emits() {
					continue
				}
				c.SetBlockLightRGB(lx, y, lz, def.EmitR, def.EmitG, def.EmitB)
				q.push(cell{lx, y, lz})
			}
		}
	}
	return q
}

// bfsBlockLight propagates colored light 6-directionally with
// per-channel multiplicative falloff, stopping a branch once every
// channel drops below spec's 0.01 threshold (scaled to the 0-255
// storage range). At each destination the channel-wise max of the
// incoming and existing value wins, so overlapping colored sources
// blend rather than overwrite.
func (p *Propagator) bfsBlockLight(c *voxel.Chunk, q *cellQueue) {
	const falloff = 0.8
	const stopThreshold = 0.01 * 255

	for !q.empty() {
		cu := q.pop()
		r, g, b := c.BlockLightRGB(cu.lx, cu.y, cu.lz)
		if r == 0 && g == 0 && b == 0 {
			continue
		}
		for _, d := range sixDirections {
			nlx, ny, nlz := cu.lx+d[0], cu.y+d[1], cu.lz+d[2]
			if !inChunkBounds(nlx, ny, nlz) {
				continue
			}
			nbID := c.Block(nlx, ny, nlz)
			def := p.reg.Lookup(nbID)
			if def.Solid && !def.Transparent {
				continue
			}
			reduction := blockLightReduction(nbID)
			nr := float64(r) * falloff * reduction
			ng := float64(g) * falloff * reduction
			nb := float64(b) * falloff * reduction
			if nr < stopThreshold && ng < stopThreshold && nb < stopThreshold {
				continue
			}

			er, eg, eb := c.BlockLightRGB(nlx, ny, nlz)
			rr, gg, bb := er, eg, eb
			changed := false
			if byte(nr) > er {
				rr, changed = byte(nr), true
			}
			if byte(ng) > eg {
				gg, changed = byte(ng), true
			}
			if byte(nb) > eb {
				bb, changed = byte(nb), true
			}
			if changed {
				c.SetBlockLightRGB(nlx, ny, nlz, rr, gg, bb)
				q.push(cell{nlx, ny, nlz})
			}
		}
	}
}

// OnBlockPlaced implements spec §4.3's incremental update for placing
// a block: opaque blocks clear the column beneath them until the next
// opaque cell, transparent blocks recompute their own column level,
// and emitters (re)seed the block-light BFS. Both passes then reseed
// from the placed cell's six neighbors. The BFS stays within the
// chunk; a placement at the chunk boundary does not reach across into
// a neighbor (spec's documented locality contract).
func (p *Propagator) OnBlockPlaced(c *voxel.Chunk, lx, y, lz int) []voxel.Coord {
	id := c.Block(lx, y, lz)
	def := p.reg.Lookup(id)

	skyQueue := newCellQueue(32)
	if def.Solid && !def.Transparent {
		c.SetSkyLight(lx, y, lz, 0)
		for yy := y - 1; yy >= 0; yy-- {
			below := p.reg.Lookup(c.Block(lx, yy, lz))
			if below.Solid && !below.Transparent {
				break
			}
			c.SetSkyLight(lx, yy, lz, 0)
		}
	} else {
		above := byte(15)
		if y+1 < voxel.WorldHeight {
			above = c.SkyLight(lx, y+1, lz)
		}
		level := int(above) - int(p.reg.Opacity(id))
		if level < 0 {
			level = 0
		}
		c.SetSkyLight(lx, y, lz, byte(level))
	}
	skyQueue.push(cell{lx, y, lz})
	for _, d := range sixDirections {
		nlx, ny, nlz := lx+d[0], y+d[1], lz+d[2]
		if inChunkBounds(nlx, ny, nlz) {
			skyQueue.push(cell{nlx, ny, nlz})
		}
	}
	p.bfsSky(c, skyQueue)

	blockQueue := newCellQueue(8)
	if def.Emits() {
		c.SetBlockLightRGB(lx, y, lz, def.EmitR, def.EmitG, def.EmitB)
		blockQueue.push(cell{lx, y, lz})
	}
	if def.Solid && !def.Transparent {
		c.SetBlockLightRGB(lx, y, lz, 0, 0, 0)
	}
	for _, d := range sixDirections {
		nlx, ny, nlz := lx+d[0], y+d[1], lz+d[2]
		if inChunkBounds(nlx, ny, nlz) {
			blockQueue.push(cell{nlx, ny, nlz})
		}
	}
	p.bfsBlockLight(c, blockQueue)

	c.Dirty = true
	return []voxel.Coord{c.Coord}
}

// OnBlockRemoved implements spec §4.3's incremental update for
// removing a block: recompute the column from the top down and reseed
// both BFS passes from every transition boundary and from the removed
// cell's six neighbors.
func (p *Propagator) OnBlockRemoved(c *voxel.Chunk, lx, y, lz int) []voxel.Coord {
	skyQueue := newCellQueue(voxel.WorldHeight)
	level := 15
	for yy := voxel.WorldHeight - 1; yy >= 0; yy-- {
		id := c.Block(lx, yy, lz)
		def := p.reg.Lookup(id)
		before := c.SkyLight(lx, yy, lz)
		if def.Solid && !def.Transparent {
			level = 0
		} else {
			level -= int(p.reg.Opacity(id))
			if level < 0 {
				level = 0
			}
		}
		if byte(level) != before {
			c.SetSkyLight(lx, yy, lz, byte(level))
			skyQueue.push(cell{lx, yy, lz})
		}
	}
	for _, d := range sixDirections {
		nlx, ny, nlz := lx+d[0], y+d[1], lz+d[2]
		if inChunkBounds(nlx, ny, nlz) {
			skyQueue.push(cell{nlx, ny, nlz})
		}
	}
	p.bfsSky(c, skyQueue)

	blockQueue := newCellQueue(8)
	c.SetBlockLightRGB(lx, y, lz, 0, 0, 0)
	for _, d := range sixDirections {
		nlx, ny, nlz := lx+d[0], y+d[1], lz+d[2]
		if inChunkBounds(nlx, ny, nlz) {
			blockQueue.push(cell{nlx, ny, nlz})
		}
	}
	p.bfsBlockLight(c, blockQueue)

	c.Dirty = true
	return []voxel.Coord{c.Coord}
}

// PropagateEdgeLight scans the shared boundary slab between source and
// neighbor and seeds light into neighbor, bounded to neighbor's
// footprint. Called whenever a chunk first loads next to an
// already-lit neighbor (spec §4.3's cross-chunk bleed contract).
func (p *Propagator) PropagateEdgeLight(source, neighbor *voxel.Chunk) []voxel.Coord {
	dx := int(neighbor.Coord.X - source.Coord.X)
	dz := int(neighbor.Coord.Z - source.Coord.Z)

	skyQueue := newCellQueue(voxel.ChunkSizeX * voxel.WorldHeight)
	blockQueue := newCellQueue(voxel.ChunkSizeX * voxel.WorldHeight)

	edgeColumns(dx, dz, func(srcLx, srcLz, dstLx, dstLz int) {
		for y := 0; y < voxel.WorldHeight; y++ {
			srcSky := source.SkyLight(srcLx, y, srcLz)
			if srcSky == 0 {
				continue
			}
			dstID := neighbor.Block(dstLx, y, dstLz)
			def := p.reg.Lookup(dstID)
			if def.Solid && !def.Transparent {
				continue
			}
			candidate := int(srcSky) - 1 - int(p.reg.Opacity(dstID))
			if candidate < 0 {
				candidate = 0
			}
			if byte(candidate) > neighbor.SkyLight(dstLx, y, dstLz) {
				neighbor.SetSkyLight(dstLx, y, dstLz, byte(candidate))
				skyQueue.push(cell{dstLx, y, dstLz})
			}

			sr, sg, sb := source.BlockLightRGB(srcLx, y, srcLz)
			if sr == 0 && sg == 0 && sb == 0 {
				continue
			}
			reduction := blockLightReduction(dstID)
			nr := float64(sr) * 0.8 * reduction
			ng := float64(sg) * 0.8 * reduction
			nb := float64(sb) * 0.8 * reduction
			er, eg, eb := neighbor.BlockLightRGB(dstLx, y, dstLz)
			rr, gg, bb := er, eg, eb
			changed := false
			if byte(nr) > er {
				rr, changed = byte(nr), true
			}
			if byte(ng) > eg {
				gg, changed = byte(ng), true
			}
			if byte(nb) > eb {
				bb, changed = byte(nb), true
			}
			if changed {
				neighbor.SetBlockLightRGB(dstLx, y, dstLz, rr, gg, bb)
				blockQueue.push(cell{dstLx, y, dstLz})
			}
		}
	})

	p.bfsSky(neighbor, skyQueue)
	p.bfsBlockLight(neighbor, blockQueue)
	neighbor.Dirty = true
	return []voxel.Coord{neighbor.Coord}
}

// edgeColumns invokes fn once per column pair along the shared
// boundary between a chunk and a cardinal neighbor offset by (dx,dz)
// (exactly one of which must be ±1, the other 0).
func edgeColumns(dx, dz int, fn func(srcLx, srcLz, dstLx, dstLz int)) {
	switch {
	case dx == 1:
		for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
			fn(voxel.ChunkSizeX-1, lz, 0, lz)
		}
	case dx == -1:
		for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
			fn(0, lz, voxel.ChunkSizeX-1, lz)
		}
	case dz == 1:
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			fn(lx, voxel.ChunkSizeZ-1, lx, 0)
		}
	case dz == -1:
		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			fn(lx, 0, lx, voxel.ChunkSizeZ-1)
		}
	}
}

// dirtySet dedups chunk coordinates whose meshes need rebuilding.
type dirtySet struct {
	seen map[voxel.Coord]struct{}
}

func newDirtySet() *dirtySet {
	return &dirtySet{seen: make(map[voxel.Coord]struct{}, 4)}
}

func (d *dirtySet) add(c voxel.Coord) {
	d.seen[c] = struct{}{}
}

func (d *dirtySet) slice() []voxel.Coord {
	out := make([]voxel.Coord, 0, len(d.seen))
	for c := range d.seen {
		out = append(out, c)
	}
	return out
}
