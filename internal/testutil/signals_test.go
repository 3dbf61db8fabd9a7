package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(10, 256, 1.0, 64)
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	c := DeterministicNoise(43, 1.0, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestLaplaceNoiseIsSuperGaussian(t *testing.T) {
	x := LaplaceNoise(1, 1, 20000)
	var m2, m4 float64
	for _, v := range x {
		m2 += v * v
		m4 += v * v * v * v
	}
	m2 /= float64(len(x))
	m4 /= float64(len(x))
	if kurt := m4/(m2*m2) - 3; kurt < 1.5 {
		t.Fatalf("excess kurtosis = %v, want > 1.5", kurt)
	}
}

func TestSpikes(t *testing.T) {
	s := Spikes(20, 2, 3, 0, 10, 19)
	if s[10] != 3 || s[0] != 3 || s[19] != 3 {
		t.Fatalf("peaks = %v %v %v, want 3", s[0], s[10], s[19])
	}
	if s[12] != 1 || s[5] != 0 {
		t.Fatalf("s[12] = %v, s[5] = %v", s[12], s[5])
	}
}
