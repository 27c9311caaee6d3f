package voxel

import "sync"

// BlockID indexes into the block registry. 0 is always air.
type BlockID = uint8

// Chunk is a 16x16x128 column of blocks plus its derived light and mesh
// state. A Chunk is owned by exactly one ChunkStore at a time; mesh
// jobs reach chunks only through a snapshot (see the snapshot
// package), whose chunk pointers are fetched under the store's lock.
//
// Field mutation rules (see spec §5): blocks/lights are only ever
// written during generation (before the chunk is inserted into the
// store), by the lighting package (observer thread), or by SetBlock
// (observer thread). Mesh workers read through a Snapshot and never
// call any mutating method here.
type Chunk struct {
	Coord Coord

	blocks [ChunkVolume]BlockID

	// High nibble: sky light 0-15. Low nibble: scalar block light 0-15,
	// kept for legacy gameplay queries that only want a single scalar.
	lightPacked [ChunkVolume]byte

	// Colored block light, one byte per channel per cell.
	blockLightR [ChunkVolume]byte
	blockLightG [ChunkVolume]byte
	blockLightB [ChunkVolume]byte

	hmMu         sync.Mutex
	heightmap    [columnCells]int32 // highest opaque solid y per column, -1 if empty
	heightmapOK  bool
	sectionFlags [NumSections]SectionFlag
	sectionsOK   bool

	CurrentLOD LOD
	MeshSlots  [NumLOD]MeshSlot

	Modified   bool
	Dirty      bool
	LightDirty bool
	State      Lifecycle
}

// New allocates a chunk at coord with all cells air and light dirty.
// Generation populates Blocks in place before the chunk is inserted
// into a ChunkStore.
func New(coord Coord) *Chunk {
	return &Chunk{
		Coord:      coord,
		LightDirty: true,
		State:      Pending,
	}
}

// Block returns the block id at local coordinates (lx, y, lz). Out of
// range coordinates resolve to air rather than panicking, per the
// out-of-bounds contract in spec §7.
func (c *Chunk) Block(lx, y, lz int) BlockID {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return 0
	}
	return c.blocks[blockIndex(lx, y, lz)]
}

// SetBlockRaw writes a block id without touching dirty/modified flags
// or light. Used only by the generator while building a fresh chunk
// that has not yet been published to any store.
func (c *Chunk) SetBlockRaw(lx, y, lz int, id BlockID) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return
	}
	c.blocks[blockIndex(lx, y, lz)] = id
}

// SetBlock writes a block id, returning whether the cell actually
// changed. On change it marks the chunk modified/dirty and invalidates
// the cached heightmap/section flags; light is NOT recomputed here —
// callers (stream.Manager) invoke the light package afterward.
func (c *Chunk) SetBlock(lx, y, lz int, id BlockID) bool {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return false
	}
	idx := blockIndex(lx, y, lz)
	if c.blocks[idx] == id {
		return false
	}
	c.blocks[idx] = id
	c.Modified = true
	c.Dirty = true
	c.invalidateCaches()
	return true
}

// SkyLight returns the 0-15 sky-light level at local coordinates.
// Above the world ceiling resolves to 15, below the floor to 0.
func (c *Chunk) SkyLight(lx, y, lz int) byte {
	if y >= WorldHeight {
		return 15
	}
	if y < 0 {
		return 0
	}
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ {
		return 0
	}
	return c.lightPacked[blockIndex(lx, y, lz)] >> 4
}

// SetSkyLight writes the sky-light nibble at local coordinates, leaving
// the block-light nibble untouched.
func (c *Chunk) SetSkyLight(lx, y, lz int, level byte) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return
	}
	idx := blockIndex(lx, y, lz)
	c.lightPacked[idx] = (level << 4) | (c.lightPacked[idx] & 0x0F)
}

// BlockLightScalar returns the legacy scalar block-light nibble.
func (c *Chunk) BlockLightScalar(lx, y, lz int) byte {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return 0
	}
	return c.lightPacked[blockIndex(lx, y, lz)] & 0x0F
}

// SetBlockLightScalar writes the legacy scalar block-light nibble.
func (c *Chunk) SetBlockLightScalar(lx, y, lz int, level byte) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return
	}
	idx := blockIndex(lx, y, lz)
	c.lightPacked[idx] = (c.lightPacked[idx] & 0xF0) | (level & 0x0F)
}

// BlockLightRGB returns the colored block-light intensity (0-255 per
// channel) at local coordinates.
func (c *Chunk) BlockLightRGB(lx, y, lz int) (r, g, b byte) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return 0, 0, 0
	}
	idx := blockIndex(lx, y, lz)
	return c.blockLightR[idx], c.blockLightG[idx], c.blockLightB[idx]
}

// SetBlockLightRGB writes the colored block-light intensity.
func (c *Chunk) SetBlockLightRGB(lx, y, lz int, r, g, b byte) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ || y < 0 || y >= WorldHeight {
		return
	}
	idx := blockIndex(lx, y, lz)
	c.blockLightR[idx] = r
	c.blockLightG[idx] = g
	c.blockLightB[idx] = b
}

// BlocksRaw exposes the chunk's flat block array by pointer, for bulk
// reads and for persist's decoder, which fills a freshly created chunk
// through it. Writes through it do not invalidate the heightmap or
// section-flag caches.
func (c *Chunk) BlocksRaw() *[ChunkVolume]BlockID { return &c.blocks }

// LightPackedRaw exposes the flat sky/block scalar light array.
func (c *Chunk) LightPackedRaw() *[ChunkVolume]byte { return &c.lightPacked }

// BlockLightRawRGB exposes the three colored block-light arrays.
func (c *Chunk) BlockLightRawRGB() (r, g, b *[ChunkVolume]byte) {
	return &c.blockLightR, &c.blockLightG, &c.blockLightB
}

func (c *Chunk) invalidateCaches() {
	c.hmMu.Lock()
	c.heightmapOK = false
	c.sectionsOK = false
	c.hmMu.Unlock()
}

// Heightmap returns the cached highest opaque-solid y for column
// (lx, lz), or -1 if the column has none. Computed lazily on first
// access after invalidation, guarded by a per-chunk mutex taken on
// every call so concurrent callers on the observer thread don't
// recompute redundantly. isSolid classifies a block id
// as opaque-solid the same way SectionFlags does — the caller
// supplies it (generally registry.IsSolid) because voxel has no
// dependency on the block registry.
func (c *Chunk) Heightmap(lx, lz int, isSolid func(BlockID) bool) int {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ {
		return -1
	}
	c.hmMu.Lock()
	defer c.hmMu.Unlock()
	if !c.heightmapOK {
		c.recomputeHeightmapLocked(isSolid)
	}
	return int(c.heightmap[columnIndex(lx, lz)])
}

func (c *Chunk) recomputeHeightmapLocked(isSolid func(BlockID) bool) {
	for lz := 0; lz < ChunkSizeZ; lz++ {
		for lx := 0; lx < ChunkSizeX; lx++ {
			top := int32(-1)
			for y := WorldHeight - 1; y >= 0; y-- {
				if isSolid(c.blocks[blockIndex(lx, y, lz)]) {
					top = int32(y)
					break
				}
			}
			c.heightmap[columnIndex(lx, lz)] = top
		}
	}
	c.heightmapOK = true
}

// SectionFlags returns the occupancy flag for section index sec (0-7),
// lazily computed like Heightmap. A section is EMPTY when every cell is
// air (id 0) and SOLID when isSolid holds for every cell; otherwise it
// is MIXED. The caller (generally the mesher/lighting via a registry
// lookup) supplies isSolid because voxel has no dependency on the
// block registry.
func (c *Chunk) SectionFlags(isSolid func(BlockID) bool) [NumSections]SectionFlag {
	c.hmMu.Lock()
	defer c.hmMu.Unlock()
	if !c.sectionsOK {
		c.recomputeSectionFlagsLocked(isSolid)
	}
	return c.sectionFlags
}

func (c *Chunk) recomputeSectionFlagsLocked(isSolid func(BlockID) bool) {
	for sec := 0; sec < NumSections; sec++ {
		baseY := sec * SectionHeight
		allAir, allSolid := true, true
		for y := baseY; y < baseY+SectionHeight; y++ {
			for lz := 0; lz < ChunkSizeZ; lz++ {
				for lx := 0; lx < ChunkSizeX; lx++ {
					id := c.blocks[blockIndex(lx, y, lz)]
					if id != 0 {
						allAir = false
					}
					if !isSolid(id) {
						allSolid = false
					}
				}
			}
		}
		switch {
		case allAir:
			c.sectionFlags[sec] = SectionEmpty
		case allSolid:
			c.sectionFlags[sec] = SectionSolid
		default:
			c.sectionFlags[sec] = SectionMixed
		}
	}
	c.sectionsOK = true
}
