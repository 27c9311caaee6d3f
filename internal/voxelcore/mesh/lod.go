package mesh

import (
	"github.com/dantero/voxelcore/internal/voxelcore/snapshot"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// MeshLOD implements spec §4.5's mesh_lod: LOD_0 returns the full mesh
// (opaque and transparent merged into one buffer, since transparent
// geometry is only rendered at LOD_0 anyway); every coarser level
// returns opaque geometry only.
func (m *Mesher) MeshLOD(snap *snapshot.Snapshot, level voxel.LOD) RawMesh {
	if snap == nil {
		return RawMesh{}
	}
	switch level {
	case voxel.LOD0:
		full := m.MeshFull(snap)
		return mergeRawMesh(full.Opaque, full.Transparent)
	case voxel.LOD1:
		return m.meshLOD1(snap).build()
	default:
		factor := downsampleFactor(level)
		return m.meshDownsampled(snap, factor).build()
	}
}

func downsampleFactor(level voxel.LOD) int {
	switch level {
	case voxel.LOD2:
		return 2
	case voxel.LOD3:
		return 4
	default:
		return 1
	}
}

// meshLOD1 implements spec §4.5's LOD_1 variant: skip EMPTY sections
// entirely, emit only the 6 scaled boundary faces of a SOLID section,
// and fall back to the full per-cell algorithm (opaque only) within a
// MIXED section.
func (m *Mesher) meshLOD1(snap *snapshot.Snapshot) *meshBuilder {
	dst := newMeshBuilder()
	center := snap.CenterChunk()
	flags := center.SectionFlags(m.reg.IsSolid)

	for sec := 0; sec < voxel.NumSections; sec++ {
		switch flags[sec] {
		case voxel.SectionEmpty:
			continue
		case voxel.SectionSolid:
			m.emitSectionBoundaryFaces(dst, snap, sec)
		default:
			baseY := sec * voxel.SectionHeight
			for lx := 0; lx < voxel.ChunkSizeX; lx++ {
				for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
					for y := baseY; y < baseY+voxel.SectionHeight; y++ {
						id := snap.GetBlock(lx, y, lz)
						if id == 0 {
							continue
						}
						if m.reg.Lookup(id).Transparent {
							continue
						}
						m.emitCellFaces(dst, snap, lx, y, lz, id, 1)
					}
				}
			}
		}
	}
	return dst
}

// emitSectionBoundaryFaces emits one section-sized quad per exposed
// side of a SOLID section, using the section's first cell as the
// representative block id for texturing.
func (m *Mesher) emitSectionBoundaryFaces(dst *meshBuilder, snap *snapshot.Snapshot, sec int) {
	baseY := sec * voxel.SectionHeight
	repID := snap.GetBlock(0, baseY, 0)
	if repID == 0 {
		return
	}
	def := m.reg.Lookup(repID)

	for _, face := range allFaces {
		geom := faceGeoms[face]
		nlx := geom.normal[0] * voxel.SectionHeight
		ny := baseY + geom.normal[1]*voxel.SectionHeight
		nlz := geom.normal[2] * voxel.SectionHeight
		neighborID := snap.GetBlock(nlx, ny, nlz)
		if !m.shouldEmitFace(repID, neighborID) {
			continue
		}
		m.appendFace(dst, snap, 0, baseY, 0, nlx, ny, nlz, def.TextureLayer[int(face)], geom, voxel.SectionHeight)
	}
}

// meshDownsampled implements spec §4.5's LOD_2/3 variant: aggregate
// the block grid by `factor`, pick the modal (most frequent) non-air
// block id per aggregated cell, average light across it, and
// face-cull against neighboring aggregated cells exactly as the full
// algorithm does against single blocks.
func (m *Mesher) meshDownsampled(snap *snapshot.Snapshot, factor int) *meshBuilder {
	dst := newMeshBuilder()
	coarseX := voxel.ChunkSizeX / factor
	coarseZ := voxel.ChunkSizeZ / factor
	coarseY := voxel.WorldHeight / factor

	for cx := 0; cx < coarseX; cx++ {
		for cz := 0; cz < coarseZ; cz++ {
			for cy := 0; cy < coarseY; cy++ {
				lx, y, lz := cx*factor, cy*factor, cz*factor
				id := modalBlock(snap, lx, y, lz, factor)
				if id == 0 {
					continue
				}
				def := m.reg.Lookup(id)
				if def.Transparent {
					continue
				}
				sky, scalar, indirect := averageLight(snap, lx, y, lz, factor)

				for _, face := range allFaces {
					geom := faceGeoms[face]
					nlx, ny, nlz := lx+geom.normal[0]*factor, y+geom.normal[1]*factor, lz+geom.normal[2]*factor
					neighborID := modalBlock(snap, nlx, ny, nlz, factor)
					if !m.shouldEmitFace(id, neighborID) {
						continue
					}
					m.appendFaceWithLight(dst, snap, lx, y, lz, nlx, ny, nlz, def.TextureLayer[int(face)], geom, factor, sky, scalar, indirect)
				}
			}
		}
	}
	return dst
}

// modalBlock returns the most frequent non-air block id within the
// factor^3 cell starting at (lx,y,lz); 0 (air) if the aggregate is
// empty. Ties break toward the first id seen, which keeps the result
// deterministic.
func modalBlock(snap *snapshot.Snapshot, lx, y, lz, factor int) voxel.BlockID {
	counts := make(map[voxel.BlockID]int, 4)
	order := make([]voxel.BlockID, 0, 4)
	for dx := 0; dx < factor; dx++ {
		for dz := 0; dz < factor; dz++ {
			for dy := 0; dy < factor; dy++ {
				id := snap.GetBlock(lx+dx, y+dy, lz+dz)
				if id == 0 {
					continue
				}
				if _, ok := counts[id]; !ok {
					order = append(order, id)
				}
				counts[id]++
			}
		}
	}
	var best voxel.BlockID
	bestCount := 0
	for _, id := range order {
		if counts[id] > bestCount {
			best, bestCount = id, counts[id]
		}
	}
	return best
}

// averageLight returns the mean sky/scalar/indirect light across the
// factor^3 cell starting at (lx,y,lz).
func averageLight(snap *snapshot.Snapshot, lx, y, lz, factor int) (float32, float32, [3]float32) {
	var sky, scalar float32
	var indirect [3]float32
	n := float32(factor * factor * factor)

	for dx := 0; dx < factor; dx++ {
		for dz := 0; dz < factor; dz++ {
			for dy := 0; dy < factor; dy++ {
				sky += snap.GetSkyVisibility(lx+dx, y+dy, lz+dz)
				scalar += snap.GetBlockLightScalar(lx+dx, y+dy, lz+dz)
				rgb := snap.GetBlockLightRGB(lx+dx, y+dy, lz+dz)
				indirect[0] += rgb[0]
				indirect[1] += rgb[1]
				indirect[2] += rgb[2]
			}
		}
	}
	return sky / n, scalar / n, [3]float32{indirect[0] / n, indirect[1] / n, indirect[2] / n}
}

// mergeRawMesh concatenates b after a, rebasing b's indices past a's
// vertex count.
func mergeRawMesh(a, b RawMesh) RawMesh {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	vertexCount := uint32(len(a.Vertices) / VertexWidthFull)
	verts := make([]float32, 0, len(a.Vertices)+len(b.Vertices))
	verts = append(verts, a.Vertices...)
	verts = append(verts, b.Vertices...)

	indices := make([]uint32, 0, len(a.Indices)+len(b.Indices))
	indices = append(indices, a.Indices...)
	for _, idx := range b.Indices {
		indices = append(indices, idx+vertexCount)
	}
	return RawMesh{Vertices: verts, Indices: indices}
}
