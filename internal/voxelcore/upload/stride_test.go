package upload

import (
	"testing"

	"github.com/dantero/voxelcore/internal/voxelcore/mesh"
)

func quad(width int) mesh.RawMesh {
	verts := make([]float32, 4*width)
	return mesh.RawMesh{
		Vertices: verts,
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestVertexStrideInfersFullWidth(t *testing.T) {
	m := quad(mesh.VertexWidthFull)
	if got := vertexStride(m); got != mesh.VertexWidthFull {
		t.Errorf("vertexStride = %d, want %d", got, mesh.VertexWidthFull)
	}
}

func TestVertexStrideInfersLegacy7(t *testing.T) {
	m := quad(mesh.VertexWidthFull).ToLegacy7()
	if got := vertexStride(m); got != mesh.VertexWidthLegacy7 {
		t.Errorf("vertexStride = %d, want %d", got, mesh.VertexWidthLegacy7)
	}
}

func TestVertexStrideInfersLegacy8(t *testing.T) {
	m := quad(mesh.VertexWidthFull).ToLegacy8()
	if got := vertexStride(m); got != mesh.VertexWidthLegacy8 {
		t.Errorf("vertexStride = %d, want %d", got, mesh.VertexWidthLegacy8)
	}
}

func TestVertexStrideRejectsOutOfRangeIndices(t *testing.T) {
	m := mesh.RawMesh{
		Vertices: make([]float32, mesh.VertexWidthFull), // only 1 vertex
		Indices:  []uint32{0, 1, 2, 0, 2, 3},             // references 4
	}
	if got := vertexStride(m); got != 0 {
		t.Errorf("vertexStride = %d, want 0 for a mesh whose indices overrun its vertex count", got)
	}
}

func TestLegacyAttribLayoutDropsFieldsBeyondWidth(t *testing.T) {
	layout := legacyAttribLayoutFor(mesh.VertexWidthLegacy7)
	for _, a := range layout {
		if int(a.Offset+a.Size) > mesh.VertexWidthLegacy7 {
			t.Errorf("attribute %d at offset %d size %d exceeds legacy7 width", a.Index, a.Offset, a.Size)
		}
	}
	if len(layout) == 0 {
		t.Fatal("expected at least the position attribute to survive narrowing")
	}
}

func TestDefaultAttribLayoutCoversFullVertex(t *testing.T) {
	layout := DefaultAttribLayout()
	covered := int32(0)
	for _, a := range layout {
		covered += a.Size
	}
	if covered != mesh.VertexWidthFull {
		t.Errorf("DefaultAttribLayout covers %d floats, want %d", covered, mesh.VertexWidthFull)
	}
}
