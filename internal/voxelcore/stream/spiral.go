package stream

import "github.com/dantero/voxelcore/internal/voxelcore/voxel"

// walkSpiral visits chunk coordinates in expanding square rings around
// center, from r=0 out to maxRadius inclusive, stopping early if visit
// returns false. This is the same ring-walk the teacher's chunk
// streamer uses to enumerate columns outward from the player, adapted
// here to enumerate (x,z) chunk coordinates directly since this world
// has no vertical chunk stacking.
func walkSpiral(center voxel.Coord, maxRadius int, visit func(voxel.Coord) bool) {
	if !visit(center) {
		return
	}
	for r := 1; r <= maxRadius; r++ {
		x0, x1 := center.X-int32(r), center.X+int32(r)
		z0, z1 := center.Z-int32(r), center.Z+int32(r)

		for x := x0; x <= x1; x++ {
			if !visit(voxel.Coord{X: x, Z: z0}) {
				return
			}
		}
		for z := z0 + 1; z <= z1-1; z++ {
			if !visit(voxel.Coord{X: x1, Z: z}) {
				return
			}
		}
		for x := x1; x >= x0; x-- {
			if !visit(voxel.Coord{X: x, Z: z1}) {
				return
			}
		}
		for z := z1 - 1; z >= z0+1; z-- {
			if !visit(voxel.Coord{X: x0, Z: z}) {
				return
			}
		}
	}
}
