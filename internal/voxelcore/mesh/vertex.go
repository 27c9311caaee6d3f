// Package mesh turns a neighborhood snapshot into CPU-side vertex and
// index buffers: face-culled full detail, section-early-exit LOD1, and
// downsampled LOD2/3, plus a section-partitioned variant. The mesher
// never touches the chunk store — it is pure over the snapshot it is
// handed, so many mesh jobs run concurrently without coordination.
package mesh

// VertexWidthFull is the canonical per-vertex float count this package
// produces: [x, y, z, u, v, sky_visibility, block_light_scalar,
// horizon_weight, indirect_r, indirect_g, indirect_b].
const VertexWidthFull = 11

// Legacy widths predating horizon/indirect fields, kept for
// RawMesh.ToLegacy callers on the GPU-upload boundary.
const (
	VertexWidthLegacy7 = 7 // no horizon_weight, no indirect_r/g/b
	VertexWidthLegacy8 = 8 // no indirect_r/g/b
)

// RawMesh is a CPU-side mesh blob: a flat vertex float buffer (stride
// VertexWidthFull) and a flat 32-bit index buffer, two triangles per
// emitted quad.
type RawMesh struct {
	Vertices []float32
	Indices  []uint32
}

// Empty reports whether the mesh has no geometry.
func (m RawMesh) Empty() bool {
	return len(m.Indices) == 0
}

// ToLegacy7 drops horizon_weight and indirect_r/g/b, producing the
// 7-float layout some older GPU-upload paths still expect.
func (m RawMesh) ToLegacy7() RawMesh {
	return m.narrow(VertexWidthLegacy7)
}

// ToLegacy8 drops indirect_r/g/b, producing the 8-float layout.
func (m RawMesh) ToLegacy8() RawMesh {
	return m.narrow(VertexWidthLegacy8)
}

func (m RawMesh) narrow(width int) RawMesh {
	if width >= VertexWidthFull {
		return m
	}
	count := len(m.Vertices) / VertexWidthFull
	out := make([]float32, 0, count*width)
	for i := 0; i < count; i++ {
		base := i * VertexWidthFull
		out = append(out, m.Vertices[base:base+width]...)
	}
	idx := make([]uint32, len(m.Indices))
	copy(idx, m.Indices)
	return RawMesh{Vertices: out, Indices: idx}
}

// FullMesh is the result of MeshFull: separate opaque and transparent
// passes, since transparent geometry only renders at LOD_0 and needs
// its own draw call (back-to-front sorting, blending).
type FullMesh struct {
	Opaque      RawMesh
	Transparent RawMesh
}

// RawSectionMesh is one 16-block-tall vertical slice of a chunk's
// full mesh, as produced by MeshSections.
type RawSectionMesh struct {
	SectionIndex int
	Opaque       RawMesh
	Transparent  RawMesh
}

// meshBuilder accumulates vertices/indices for one pass (opaque or
// transparent) of one mesh job.
type meshBuilder struct {
	vertices []float32
	indices  []uint32
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{}
}

// addQuad appends one face's four vertices (already in CCW winding)
// and the two triangles (0,1,2) and (0,2,3) spec §4.5 step 3 requires.
func (b *meshBuilder) addQuad(v [4][VertexWidthFull]float32) {
	base := uint32(len(b.vertices) / VertexWidthFull)
	for _, vertex := range v {
		b.vertices = append(b.vertices, vertex[:]...)
	}
	b.indices = append(b.indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
}

func (b *meshBuilder) build() RawMesh {
	return RawMesh{Vertices: b.vertices, Indices: b.indices}
}
