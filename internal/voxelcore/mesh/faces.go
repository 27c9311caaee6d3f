package mesh

import "github.com/dantero/voxelcore/internal/voxelcore/registry"

// faceGeom describes one cube face's outward normal, its two in-plane
// axes, and its four corners in CCW winding (viewed from outside the
// cube), expressed as (du,dv) in {0,1} along those axes.
type faceGeom struct {
	normal  [3]int
	axisU   [3]int
	axisV   [3]int
	corners [4][2]int // (du, dv), CCW from outside
}

var faceGeoms = map[registry.Face]faceGeom{
	registry.FaceTop: {
		normal: [3]int{0, 1, 0}, axisU: [3]int{1, 0, 0}, axisV: [3]int{0, 0, 1},
		corners: [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	},
	registry.FaceBottom: {
		normal: [3]int{0, -1, 0}, axisU: [3]int{1, 0, 0}, axisV: [3]int{0, 0, 1},
		corners: [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
	registry.FaceNorth: {
		normal: [3]int{0, 0, -1}, axisU: [3]int{1, 0, 0}, axisV: [3]int{0, 1, 0},
		corners: [4][2]int{{1, 0}, {0, 0}, {0, 1}, {1, 1}},
	},
	registry.FaceSouth: {
		normal: [3]int{0, 0, 1}, axisU: [3]int{1, 0, 0}, axisV: [3]int{0, 1, 0},
		corners: [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
	registry.FaceEast: {
		normal: [3]int{1, 0, 0}, axisU: [3]int{0, 0, 1}, axisV: [3]int{0, 1, 0},
		corners: [4][2]int{{1, 0}, {0, 0}, {0, 1}, {1, 1}},
	},
	registry.FaceWest: {
		normal: [3]int{-1, 0, 0}, axisU: [3]int{0, 0, 1}, axisV: [3]int{0, 1, 0},
		corners: [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
}

var allFaces = [6]registry.Face{
	registry.FaceTop, registry.FaceBottom,
	registry.FaceNorth, registry.FaceSouth,
	registry.FaceEast, registry.FaceWest,
}

// corner3D returns the vertex's (dx,dy,dz) offset from the cell's
// (lx,y,lz) minimum corner, given the face's du/dv and the side of
// the normal axis the face plane sits on.
func (g faceGeom) corner3D(du, dv int) [3]int {
	var out [3]int
	for i := 0; i < 3; i++ {
		n := 0
		if g.normal[i] > 0 {
			n = 1
		}
		out[i] = n + du*g.axisU[i] + dv*g.axisV[i]
	}
	return out
}
