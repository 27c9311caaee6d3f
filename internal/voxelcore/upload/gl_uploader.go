// Package upload turns CPU-side mesh.RawMesh blobs into GPU handles.
// This is the only package in the module that touches the OpenGL API;
// everything upstream of it (generate, light, mesh, lod, stream) is
// pure CPU work that never imports gl, so it runs and tests without a
// graphics context.
package upload

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/dantero/voxelcore/internal/voxelcore/mesh"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// GLUploader implements stream.Uploader against a live OpenGL context.
// Every method must run on the thread that owns the context (the
// render thread), matching how the teacher's atlas and chunk-mesh
// renderers touch gl.* only from Render/Init/Dispose.
type GLUploader struct {
	// AttribLayout describes which vertex attributes to bind, in the
	// order mesh.RawMesh packs them. Zero value falls back to
	// DefaultAttribLayout (the full 11-float vertex).
	AttribLayout []VertexAttrib
}

// VertexAttrib is one glVertexAttribPointer binding: Size floats
// starting Offset floats into the vertex, at attribute index Index.
type VertexAttrib struct {
	Index  uint32
	Size   int32
	Offset int32
}

// DefaultAttribLayout matches mesh.VertexWidthFull's
// [x,y,z, u,v, sky_visibility, block_light_scalar, horizon_weight,
// indirect_r, indirect_g, indirect_b] packing.
func DefaultAttribLayout() []VertexAttrib {
	return []VertexAttrib{
		{Index: 0, Size: 3, Offset: 0}, // position
		{Index: 1, Size: 2, Offset: 3}, // uv
		{Index: 2, Size: 1, Offset: 5}, // sky_visibility
		{Index: 3, Size: 1, Offset: 6}, // block_light_scalar
		{Index: 4, Size: 1, Offset: 7}, // horizon_weight
		{Index: 5, Size: 3, Offset: 8}, // indirect_rgb
	}
}

// legacyAttribLayoutFor narrows DefaultAttribLayout to the first n
// attributes whose fields still fit inside a legacy-width vertex.
func legacyAttribLayoutFor(width int) []VertexAttrib {
	full := DefaultAttribLayout()
	out := make([]VertexAttrib, 0, len(full))
	for _, a := range full {
		if int(a.Offset)+int(a.Size) <= width {
			out = append(out, a)
		}
	}
	return out
}

func (u *GLUploader) layout() []VertexAttrib {
	if len(u.AttribLayout) > 0 {
		return u.AttribLayout
	}
	return DefaultAttribLayout()
}

// NewGLUploader returns an uploader bound to the default full-width
// vertex layout.
func NewGLUploader() *GLUploader {
	return &GLUploader{AttribLayout: DefaultAttribLayout()}
}

// Upload creates a VAO/VBO/EBO triple for m and returns a handle the
// stream scheduler attaches to a chunk's mesh slot. Mirrors the
// teacher's atlas setup: generate, bind, BufferData once, describe
// attributes, unbind.
func (u *GLUploader) Upload(m mesh.RawMesh) (*voxel.GPUMesh, error) {
	if m.Empty() {
		return nil, fmt.Errorf("upload: refusing to upload an empty mesh")
	}

	stride := vertexStride(m)
	if stride == 0 {
		return nil, fmt.Errorf("upload: could not infer vertex stride from %d floats / indices", len(m.Vertices))
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	strideBytes := int32(stride * 4)
	for _, attr := range u.layoutFor(stride) {
		gl.EnableVertexAttribArray(attr.Index)
		gl.VertexAttribPointer(attr.Index, attr.Size, gl.FLOAT, false, strideBytes, gl.PtrOffset(int(attr.Offset*4)))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return &voxel.GPUMesh{
		VAO:        vao,
		VBO:        vbo,
		EBO:        ebo,
		IndexCount: int32(len(m.Indices)),
		Width:      stride,
	}, nil
}

// layoutFor picks the attribute set matching the mesh's actual vertex
// stride, so a RawMesh narrowed via ToLegacy7/ToLegacy8 still binds
// only the attributes it has data for.
func (u *GLUploader) layoutFor(stride int) []VertexAttrib {
	if stride == mesh.VertexWidthFull {
		return u.layout()
	}
	return legacyAttribLayoutFor(stride)
}

// vertexStride infers the per-vertex float count from the one known
// constant (mesh.VertexWidthFull) and its two legacy narrowings,
// rather than trusting a caller-supplied width that could desync from
// the buffer's actual length.
func vertexStride(m mesh.RawMesh) int {
	for _, w := range []int{mesh.VertexWidthFull, mesh.VertexWidthLegacy8, mesh.VertexWidthLegacy7} {
		if w > 0 && len(m.Vertices)%w == 0 {
			// A stride only "fits" if it also accounts for every
			// vertex referenced by the index buffer.
			if maxIndexFits(m, w) {
				return w
			}
		}
	}
	return 0
}

func maxIndexFits(m mesh.RawMesh, stride int) bool {
	count := len(m.Vertices) / stride
	for _, idx := range m.Indices {
		if int(idx) >= count {
			return false
		}
	}
	return true
}

// Release tears down the GPU objects behind h. Safe to call with a
// handle this package never produced (e.g. a fakeUploader's stub) as
// long as its VAO/VBO/EBO are left at their zero value, since
// gl.DeleteVertexArrays/DeleteBuffers on 0 is a no-op.
func (u *GLUploader) Release(h *voxel.GPUMesh) {
	if h == nil {
		return
	}
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
	if h.VBO != 0 {
		gl.DeleteBuffers(1, &h.VBO)
	}
	if h.EBO != 0 {
		gl.DeleteBuffers(1, &h.EBO)
	}
}
