package mesh

// atlasColumns is the number of texture tiles per atlas row. The atlas
// image itself belongs to the render frontend (out of scope); this
// package only needs a deterministic mapping from a registry texture
// layer index to a UV rectangle, which is all mesh_full's algorithm
// depends on.
const atlasColumns = 16

// atlasUV maps a texture layer index and a local 0..1 face coordinate
// to the UV rectangle of that layer's tile within a single-row-wrapped
// square atlas.
func atlasUV(layer int, localU, localV float32) (float32, float32) {
	col := float32(layer % atlasColumns)
	row := float32(layer / atlasColumns)
	tile := float32(1) / atlasColumns
	return (col + localU) * tile, (row + localV) * tile
}
