package persist

import (
	"fmt"

	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// chunkBlobSize is the byte length EncodeChunk produces: the blocks
// array followed by the packed sky/scalar light array, each
// voxel.ChunkVolume bytes (spec §6's persistence format). Colored
// block light, the heightmap, and section flags are not persisted —
// they're cheap to rederive and keeping them out of the format avoids
// a second wire revision the day indirect lighting changes.
const chunkBlobSize = 2 * voxel.ChunkVolume

// EncodeChunk serializes a chunk's block and sky/scalar-light arrays
// as two concatenated raw byte runs.
func EncodeChunk(c *voxel.Chunk) []byte {
	out := make([]byte, 0, chunkBlobSize)
	out = append(out, c.BlocksRaw()[:]...)
	out = append(out, c.LightPackedRaw()[:]...)
	return out
}

// DecodeChunk reconstructs a chunk at coord from bytes produced by
// EncodeChunk. The chunk comes back with LightDirty set: colored block
// light and cross-chunk edge bleed were never persisted, so the
// streaming scheduler runs it through the same seeding path as a
// freshly generated chunk before meshing it.
func DecodeChunk(coord voxel.Coord, data []byte) (*voxel.Chunk, error) {
	if len(data) != chunkBlobSize {
		return nil, fmt.Errorf("persist: chunk %v has %d bytes, want %d", coord, len(data), chunkBlobSize)
	}
	c := voxel.New(coord)
	copy(c.BlocksRaw()[:], data[:voxel.ChunkVolume])
	copy(c.LightPackedRaw()[:], data[voxel.ChunkVolume:])
	c.State = voxel.Loaded
	c.LightDirty = true
	return c, nil
}
