package generate

import "math"

// Deterministic integer-hashed value noise, 2D and 3D, with octave
// summation. No global RNG state: every lattice value is a pure
// function of its integer coordinates and the seed, so generation is
// reproducible across runs and independent of call order (spec §4.2's
// determinism contract).

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0xD6E8FEB86659FD93 + uint64(y)*0xA24BAED4963EE407 + uint64(z)*0x9FB21C651E98DF25
	v += uint64(seed) * 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return v
}

func lattice3(x, y, z, seed int64) float64 {
	h := hash3(x, y, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	return valueNoise3D(x, 0, z, seed)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)
	xi, yi, zi := int64(x0), int64(y0), int64(z0)

	c000 := lattice3(xi, yi, zi, seed)
	c100 := lattice3(xi+1, yi, zi, seed)
	c010 := lattice3(xi, yi+1, zi, seed)
	c110 := lattice3(xi+1, yi+1, zi, seed)
	c001 := lattice3(xi, yi, zi+1, seed)
	c101 := lattice3(xi+1, yi, zi+1, seed)
	c011 := lattice3(xi, yi+1, zi+1, seed)
	c111 := lattice3(xi+1, yi+1, zi+1, seed)

	x00 := lerp(c000, c100, fx)
	x10 := lerp(c010, c110, fx)
	x01 := lerp(c001, c101, fx)
	x11 := lerp(c011, c111, fx)

	y0i := lerp(x00, x10, fy)
	y1i := lerp(x01, x11, fy)

	return lerp(y0i, y1i, fz) // [0,1]
}

// octaveNoise2D/3D sum multiple octaves of value noise into [0,1],
// each octave seeded distinctly so octaves never correlate.
func octaveNoise2D(x, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	return octaveNoise3D(x, 0, z, seed, octaves, persistence, lacunarity)
}

func octaveNoise3D(x, y, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude, frequency, sum, norm := 1.0, 1.0, 0.0, 0.0
	for i := 0; i < octaves; i++ {
		v := valueNoise3D(x*frequency, y*frequency, z*frequency, seed+int64(i)*131)
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// signed remaps an octaveNoise result from [0,1] to [-1,1].
func signed(v float64) float64 { return v*2 - 1 }
