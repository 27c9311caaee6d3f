package voxel

// GPUMesh is the handle the observer/GL thread attaches to a mesh slot
// after uploading a mesh.RawMesh. The core never interprets these
// fields; they are opaque to everything except the upload package and
// the render frontend that eventually draws them.
type GPUMesh struct {
	VAO, VBO, EBO uint32
	IndexCount    int32
	// Width is the vertex stride (floats per vertex) the buffers were
	// uploaded with; the render frontend uses it to bind attributes.
	Width int
}

// MeshSlot holds the GPU mesh for one LOD level of a chunk, plus (for
// LOD0 only) the separate transparent-pass mesh.
type MeshSlot struct {
	Opaque      *GPUMesh
	Transparent *GPUMesh // only ever populated for LOD0
}

// Empty reports whether neither the opaque nor transparent mesh of
// this slot is populated.
func (s MeshSlot) Empty() bool {
	return s.Opaque == nil && s.Transparent == nil
}
