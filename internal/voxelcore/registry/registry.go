// Package registry is the immutable, process-wide catalog of block
// kinds: numeric id, name, solid/transparent flags, per-face texture
// indices, light opacity/emission. It is built once at startup by
// NewDefault and never mutated afterward — there is no runtime
// registration API, per the design notes in spec §9.
package registry

import "github.com/dantero/voxelcore/internal/voxelcore/voxel"

// Face identifies one of the six cube faces a block can expose.
type Face int

const (
	FaceNorth Face = iota // -Z
	FaceSouth              // +Z
	FaceEast               // +X
	FaceWest               // -X
	FaceTop                // +Y
	FaceBottom              // -Y
)

// Def is one block kind's immutable catalog entry.
type Def struct {
	ID            voxel.BlockID
	Name          string
	Solid         bool
	Transparent   bool
	TextureLayer  [6]int // indexed by Face
	Opacity       byte   // 0-15, sky-light attenuation for non-opaque blocks
	EmitR         byte   // 0-255 colored block-light emission
	EmitG         byte
	EmitB         byte
	FluidFlowRed  byte // per-hop reduction, 0-100 (percent); not read by any package (light uses blockLightReduction)
}

// Emits reports whether this block kind emits colored light.
func (d *Def) Emits() bool {
	return d.EmitR != 0 || d.EmitG != 0 || d.EmitB != 0
}

// Registry is the queryable, read-only catalog. Out-of-range ids
// resolve to air rather than panicking, per spec §3's invariant that
// unknown ids never crash the core.
type Registry struct {
	defs []Def // indexed by id; always has at least the air entry at 0
	air  Def
}

// Lookup returns the definition for id, falling back to air if id is
// outside the registered range.
func (r *Registry) Lookup(id voxel.BlockID) *Def {
	if int(id) < len(r.defs) {
		return &r.defs[id]
	}
	return &r.air
}

// IsSolid reports whether id is an opaque, face-culling solid — the
// predicate voxel.Chunk.SectionFlags needs, and the predicate the
// mesher's face-culling step uses.
func (r *Registry) IsSolid(id voxel.BlockID) bool {
	d := r.Lookup(id)
	return d.Solid && !d.Transparent
}

// Opacity returns the sky-light attenuation a non-opaque block applies
// per the lighting propagator (spec §4.3): opaque blocks fully block
// (handled separately by the caller), everything else subtracts its
// configured opacity, clamped at the caller's discretion.
func (r *Registry) Opacity(id voxel.BlockID) byte {
	return r.Lookup(id).Opacity
}

// builder accumulates Defs before freezing them into a Registry.
type builder struct {
	defs []Def
}

func newBuilder() *builder {
	b := &builder{defs: make([]Def, 1, 32)}
	b.defs[0] = Def{ID: 0, Name: "air", Solid: false, Transparent: true}
	return b
}

func (b *builder) add(d Def) voxel.BlockID {
	id := voxel.BlockID(len(b.defs))
	d.ID = id
	b.defs = append(b.defs, d)
	return id
}

func (b *builder) build() *Registry {
	return &Registry{defs: b.defs, air: b.defs[0]}
}

// Well-known block ids, assigned in registration order by NewDefault.
// Tests and the generator reference these directly, mirroring the
// teacher's BlockType constants (internal/world/block.go in the
// teacher) but generalized to the richer per-face/opacity/emission
// catalog this spec requires.
var (
	Air         voxel.BlockID
	Stone       voxel.BlockID
	Dirt        voxel.BlockID
	Grass       voxel.BlockID
	Sand        voxel.BlockID
	Bedrock     voxel.BlockID
	Water       voxel.BlockID
	Leaves      voxel.BlockID
	Log         voxel.BlockID
	Torch       voxel.BlockID
	OreCoal     voxel.BlockID
	OreIron     voxel.BlockID
	OreGold     voxel.BlockID
	OreDiamond  voxel.BlockID
)

// allFaces returns a TextureLayer array with the same layer on all six faces.
func allFaces(layer int) [6]int {
	return [6]int{layer, layer, layer, layer, layer, layer}
}

// topSideBottom returns a TextureLayer array using distinct top/side/bottom layers.
func topSideBottom(top, side, bottom int) [6]int {
	return [6]int{side, side, side, side, top, bottom}
}

// NewDefault builds the standard block catalog used by the generator,
// lighting, and mesher in the absence of a data-driven override. Atlas
// layer indices follow simple registration order — the atlas package
// (render frontend, out of scope) is responsible for mapping a layer
// index to actual UV rectangles.
func NewDefault() *Registry {
	b := newBuilder()

	Air = 0
	Stone = b.add(Def{Name: "stone", Solid: true, TextureLayer: allFaces(0)})
	Dirt = b.add(Def{Name: "dirt", Solid: true, TextureLayer: allFaces(1)})
	Grass = b.add(Def{Name: "grass", Solid: true, TextureLayer: topSideBottom(2, 3, 1)})
	Sand = b.add(Def{Name: "sand", Solid: true, TextureLayer: allFaces(4)})
	Bedrock = b.add(Def{Name: "bedrock", Solid: true, TextureLayer: allFaces(5)})
	Water = b.add(Def{Name: "water", Solid: false, Transparent: true, Opacity: 3, TextureLayer: allFaces(6)})
	Leaves = b.add(Def{Name: "leaves", Solid: true, Transparent: true, Opacity: 1, TextureLayer: allFaces(7)})
	Log = b.add(Def{Name: "log", Solid: true, TextureLayer: topSideBottom(8, 9, 8)})
	Torch = b.add(Def{Name: "torch", Solid: false, Transparent: true, TextureLayer: allFaces(10),
		EmitR: 255, EmitG: 204, EmitB: 128})
	OreCoal = b.add(Def{Name: "ore_coal", Solid: true, TextureLayer: allFaces(11)})
	OreIron = b.add(Def{Name: "ore_iron", Solid: true, TextureLayer: allFaces(12)})
	OreGold = b.add(Def{Name: "ore_gold", Solid: true, TextureLayer: allFaces(13)})
	OreDiamond = b.add(Def{Name: "ore_diamond", Solid: true, TextureLayer: allFaces(14)})

	return b.build()
}
