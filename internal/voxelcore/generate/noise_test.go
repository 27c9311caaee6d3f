package generate

import "testing"

func TestLattice3Deterministic(t *testing.T) {
	a := lattice3(5, 10, -3, 99)
	b := lattice3(5, 10, -3, 99)
	if a != b {
		t.Errorf("lattice3 not deterministic: %v != %v", a, b)
	}
}

func TestLattice3Bounded(t *testing.T) {
	for x := int64(-5); x < 5; x++ {
		for z := int64(-5); z < 5; z++ {
			v := lattice3(x, 0, z, 1)
			if v < 0 || v > 1 {
				t.Fatalf("lattice3(%d,0,%d) = %v out of [0,1]", x, z, v)
			}
		}
	}
}

func TestOctaveNoise2DBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		v := octaveNoise2D(float64(i)*0.37, float64(i)*1.7, 7, 4, 0.5, 2.0)
		if v < 0 || v > 1 {
			t.Fatalf("octaveNoise2D out of [0,1]: %v", v)
		}
	}
}

func TestOctaveNoise3DBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		v := octaveNoise3D(float64(i)*0.11, float64(i)*0.53, float64(i)*0.9, 3, 3, 0.5, 2.0)
		if v < 0 || v > 1 {
			t.Fatalf("octaveNoise3D out of [0,1]: %v", v)
		}
	}
}

func TestSignedRemapsRange(t *testing.T) {
	if v := signed(0); v != -1 {
		t.Errorf("signed(0) = %v, want -1", v)
	}
	if v := signed(1); v != 1 {
		t.Errorf("signed(1) = %v, want 1", v)
	}
	if v := signed(0.5); v != 0 {
		t.Errorf("signed(0.5) = %v, want 0", v)
	}
}

func TestValueNoise3DContinuousAtLatticePoints(t *testing.T) {
	// At integer coordinates the fade polynomial is exactly 0 or 1, so
	// valueNoise3D must reproduce the raw lattice value exactly.
	got := valueNoise3D(2, 3, 4, 42)
	want := lattice3(2, 3, 4, 42)
	if got != want {
		t.Errorf("valueNoise3D at lattice point = %v, want %v", got, want)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := octaveNoise2D(12.5, 8.25, 1, 4, 0.5, 2.0)
	b := octaveNoise2D(12.5, 8.25, 2, 4, 0.5, 2.0)
	if a == b {
		t.Error("expected different seeds to produce different noise values")
	}
}
