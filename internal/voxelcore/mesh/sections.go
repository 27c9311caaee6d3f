package mesh

import (
	"github.com/dantero/voxelcore/internal/voxelcore/snapshot"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// MeshSections implements spec §4.5's mesh_sections: the same
// full-detail algorithm as MeshFull, but partitioned by section index
// (y/16) so a vertically sparse chunk can upload only its non-empty
// sections as separate GPU buffers.
func (m *Mesher) MeshSections(snap *snapshot.Snapshot) [voxel.NumSections]RawSectionMesh {
	var out [voxel.NumSections]RawSectionMesh
	if snap == nil {
		for sec := range out {
			out[sec].SectionIndex = sec
		}
		return out
	}

	for sec := 0; sec < voxel.NumSections; sec++ {
		opaque := newMeshBuilder()
		transparent := newMeshBuilder()
		baseY := sec * voxel.SectionHeight

		for lx := 0; lx < voxel.ChunkSizeX; lx++ {
			for lz := 0; lz < voxel.ChunkSizeZ; lz++ {
				for y := baseY; y < baseY+voxel.SectionHeight; y++ {
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

		out[sec] = RawSectionMesh{SectionIndex: sec, Opaque: opaque.build(), Transparent: transparent.build()}
	}
	return out
}
