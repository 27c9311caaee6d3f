package mesh

import (
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/snapshot"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Mesher turns snapshots into raw mesh buffers against one block
// registry. It holds no per-job state — every method is pure over its
// snapshot argument (spec §4.5's concurrency contract).
type Mesher struct {
	reg *registry.Registry
}

// New returns a Mesher resolving block ids against reg.
func New(reg *registry.Registry) *Mesher {
	return &Mesher{reg: reg}
}

// shouldEmitFace implements spec §4.5 step 1's face-culling predicate.
func (m *Mesher) shouldEmitFace(centerID, neighborID voxel.BlockID) bool {
	if neighborID == 0 {
		return true
	}
	neighborDef := m.reg.Lookup(neighborID)
	if !neighborDef.Transparent {
		return false
	}
	centerDef := m.reg.Lookup(centerID)
	centerOpaque := centerDef.Solid && !centerDef.Transparent
	return neighborID != centerID || centerOpaque
}

// MeshFull implements spec §4.5's mesh_full: separate opaque and
// transparent passes over every non-air cell in the snapshot's center
// chunk. Returns an empty mesh, no error, if snap is nil (center chunk
// unloaded between submit and execute).
func (m *Mesher) MeshFull(snap *snapshot.Snapshot) FullMesh {
	if snap == nil {
		return FullMesh{}
	}
	opaque := newMeshBuilder()
	transparent := newMeshBuilder()

	for lx := 0; lx < voxel.ChunkSizeX; lx++ {
		for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
			for y := 0; y < voxel.WorldHeight; y++ {
				id := snap.GetBlock(lx, y, lz)
				if id == 0 {
					continue
				}
				def := m.reg.Lookup(id)
				dst := opaque
				if def.Transparent {
					dst = transparent
				}
				m.emitCellFaces(dst, snap, lx, y, lz, id, 1)
			}
		}
	}

	return FullMesh{Opaque: opaque.build(), Transparent: transparent.build()}
}

// emitCellFaces checks all 6 faces of the cell at (lx,y,lz) and
// appends a quad to dst for every face the culling predicate keeps.
// scale lets LOD2/3 callers mesh a downsampled grid where each cell
// spans `scale` world blocks.
func (m *Mesher) emitCellFaces(dst *meshBuilder, snap *snapshot.Snapshot, lx, y, lz int, id voxel.BlockID, scale int) {
	def := m.reg.Lookup(id)
	for _, face := range allFaces {
		geom := faceGeoms[face]
		nlx, ny, nlz := lx+geom.normal[0]*scale, y+geom.normal[1]*scale, lz+geom.normal[2]*scale
		neighborID := snap.GetBlock(nlx, ny, nlz)
		if !m.shouldEmitFace(id, neighborID) {
			continue
		}
		m.appendFace(dst, snap, lx, y, lz, nlx, ny, nlz, def.TextureLayer[int(face)], geom, scale)
	}
}

// appendFace builds the 4-vertex quad for one face, sampling light at
// the face-adjacent cell (falling back to the face cell itself when
// that neighbor is not air) and a simple per-corner ambient occlusion
// weight from the two edge-adjacent cells plus the diagonal.
func (m *Mesher) appendFace(dst *meshBuilder, snap *snapshot.Snapshot, lx, y, lz, nlx, ny, nlz int, layer int, geom faceGeom, scale int) {
	lightLX, lightY, lightLZ := lx, y, lz
	if snap.GetBlock(nlx, ny, nlz) == 0 {
		lightLX, lightY, lightLZ = nlx, ny, nlz
	}
	sky := snap.GetSkyVisibility(lightLX, lightY, lightLZ)
	scalar := snap.GetBlockLightScalar(lightLX, lightY, lightLZ)
	indirect := snap.GetBlockLightRGB(lightLX, lightY, lightLZ)

	m.appendFaceWithLight(dst, snap, lx, y, lz, nlx, ny, nlz, layer, geom, scale, sky, scalar, indirect)
}

// appendFaceWithLight is appendFace's geometry core, with light values
// supplied by the caller instead of sampled from a single cell — the
// downsampled LOD2/3 path averages light across an aggregated cell and
// feeds the result in here.
func (m *Mesher) appendFaceWithLight(dst *meshBuilder, snap *snapshot.Snapshot, lx, y, lz, nlx, ny, nlz int, layer int, geom faceGeom, scale int, sky, scalar float32, indirect [3]float32) {
	var quad [4][VertexWidthFull]float32
	for i, c := range geom.corners {
		off := geom.corner3D(c[0], c[1])
		px := float32(lx + off[0]*scale)
		py := float32(y + off[1]*scale)
		pz := float32(lz + off[2]*scale)
		u, v := atlasUV(layer, float32(c[0]), float32(c[1]))
		horizon := m.cornerAO(snap, nlx, ny, nlz, geom, c[0], c[1])

		quad[i] = [VertexWidthFull]float32{
			px, py, pz,
			u, v,
			sky, scalar, horizon,
			indirect[0], indirect[1], indirect[2],
		}
	}
	dst.addQuad(quad)
}

// cornerAO samples the two edge-adjacent cells and the diagonal corner
// cell around a vertex (all offset from the face-adjacent cell,
// faceAdjX/Y/Z) and returns the classic voxel ambient-occlusion weight
// in [0,1]: 0 when both edges are solid, otherwise (3-occluded)/3.
func (m *Mesher) cornerAO(snap *snapshot.Snapshot, faceAdjX, faceAdjY, faceAdjZ int, geom faceGeom, du, dv int) float32 {
	signU, signV := -1, -1
	if du == 1 {
		signU = 1
	}
	if dv == 1 {
		signV = 1
	}

	side1X := faceAdjX + signU*geom.axisU[0]
	side1Y := faceAdjY + signU*geom.axisU[1]
	side1Z := faceAdjZ + signU*geom.axisU[2]

	side2X := faceAdjX + signV*geom.axisV[0]
	side2Y := faceAdjY + signV*geom.axisV[1]
	side2Z := faceAdjZ + signV*geom.axisV[2]

	cornerX := faceAdjX + signU*geom.axisU[0] + signV*geom.axisV[0]
	cornerY := faceAdjY + signU*geom.axisU[1] + signV*geom.axisV[1]
	cornerZ := faceAdjZ + signU*geom.axisU[2] + signV*geom.axisV[2]

	side1 := m.isOccluding(snap.GetBlock(side1X, side1Y, side1Z))
	side2 := m.isOccluding(snap.GetBlock(side2X, side2Y, side2Z))
	corner := m.isOccluding(snap.GetBlock(cornerX, cornerY, cornerZ))

	if side1 && side2 {
		return 0
	}
	occluded := 0
	if side1 {
		occluded++
	}
	if side2 {
		occluded++
	}
	if corner {
		occluded++
	}
	return float32(3-occluded) / 3
}

func (m *Mesher) isOccluding(id voxel.BlockID) bool {
	if id == 0 {
		return false
	}
	def := m.reg.Lookup(id)
	return def.Solid && !def.Transparent
}
