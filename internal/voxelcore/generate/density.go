package generate

// densityAt evaluates
// D = 16*f_base(x,z) + 6*f_detail(x,z) + 16*A*f_3d(x,y,z) - B*(y - SeaLevel)
// at a single world coordinate, per spec §4.2 step 1. f_base/f_detail
// are low/high frequency 2D octave noises; f_3d is a 3D octave noise
// used to carve caves/overhangs; A/B are the config's cave amplitude
// and vertical attenuation.
func densityAt(worldX, worldY, worldZ int, seed int64, cfg Config) float64 {
	x, y, z := float64(worldX), float64(worldY), float64(worldZ)

	base := signed(octaveNoise2D(x*cfg.BaseScale, z*cfg.BaseScale, seed, cfg.OctavesBase, cfg.Persistence, cfg.Lacunarity))
	detail := signed(octaveNoise2D(x*cfg.DetailScale, z*cfg.DetailScale, seed+7919, cfg.OctavesDetail, cfg.Persistence, cfg.Lacunarity))
	cave := signed(octaveNoise3D(x*cfg.CaveScale, y*cfg.CaveScale, z*cfg.CaveScale, seed+104729, cfg.Octaves3D, cfg.Persistence, cfg.Lacunarity))

	return base*16 + detail*6 + cfg.CaveAmplitude*cave*16 - cfg.VerticalAttenuation*(y-float64(cfg.SeaLevel))
}

// densityLattice samples densityAt on a coarse lattice covering the
// chunk and trilinearly interpolates it to block resolution, writing
// "solid" (density > 0) cells directly into the chunk via setSolid.
// The lattice spacing (xStep, yStep, zStep) is spec §4.2's 4x8x4 grid
// for the full generator; the simplified generator calls this with a
// coarser grid as part of its "shallower" contract.
func densityLattice(baseX, baseZ int, seed int64, cfg Config, xStep, yStep, zStep int, setSolid func(lx, y, lz int)) {
	numX := voxelColumnSamples(xStep)
	numZ := voxelColumnSamples(zStep)
	numY := (128 + yStep - 1) / yStep + 1

	idx := func(ix, iy, iz int) int { return (ix*numY+iy)*numZ + iz }
	samples := make([]float64, numX*numY*numZ)
	for ix := 0; ix < numX; ix++ {
		wx := baseX + ix*xStep
		for iz := 0; iz < numZ; iz++ {
			wz := baseZ + iz*zStep
			for iy := 0; iy < numY; iy++ {
				wy := iy * yStep
				if wy >= 128 {
					wy = 127
				}
				samples[idx(ix, iy, iz)] = densityAt(wx, wy, wz, seed, cfg)
			}
		}
	}

	for cx := 0; cx < numX-1; cx++ {
		for cz := 0; cz < numZ-1; cz++ {
			for cy := 0; cy < numY-1; cy++ {
				d000 := samples[idx(cx, cy, cz)]
				d100 := samples[idx(cx+1, cy, cz)]
				d010 := samples[idx(cx, cy+1, cz)]
				d110 := samples[idx(cx+1, cy+1, cz)]
				d001 := samples[idx(cx, cy, cz+1)]
				d101 := samples[idx(cx+1, cy, cz+1)]
				d011 := samples[idx(cx, cy+1, cz+1)]
				d111 := samples[idx(cx+1, cy+1, cz+1)]

				startX, startY, startZ := cx*xStep, cy*yStep, cz*zStep
				limitY := startY + yStep
				if limitY > 128 {
					limitY = 128
				}
				limitX := startX + xStep
				if limitX > 16 {
					limitX = 16
				}
				limitZ := startZ + zStep
				if limitZ > 16 {
					limitZ = 16
				}

				for lx := startX; lx < limitX; lx++ {
					tx := float64(lx-startX) / float64(xStep)
					d00 := lerp(d000, d100, tx)
					d01 := lerp(d001, d101, tx)
					d10 := lerp(d010, d110, tx)
					d11 := lerp(d011, d111, tx)
					for lz := startZ; lz < limitZ; lz++ {
						tz := float64(lz-startZ) / float64(zStep)
						d0 := lerp(d00, d01, tz)
						d1 := lerp(d10, d11, tz)
						for ly := startY; ly < limitY; ly++ {
							ty := float64(ly-startY) / float64(yStep)
							if lerp(d0, d1, ty) > 0 {
								setSolid(lx, ly, lz)
							}
						}
					}
				}
			}
		}
	}
}

func voxelColumnSamples(step int) int {
	return 16/step + 1
}
