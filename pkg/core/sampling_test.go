package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D out of range: %f", v)
		}
		r := RandomRange(sampler, -2, 3)
		if r < -2 || r >= 3 {
			t.Fatalf("RandomRange out of range: %f", r)
		}
	}
}

func TestRandomSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)

	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("Samplers with equal seeds diverged at draw %d", i)
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v lies outside the unit sphere", p)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(42)

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit length, got %f", v.Length())
		}
		mean = mean.Add(v)
	}

	// Uniform directions average out near the origin
	mean = mean.Multiply(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Unit vectors look biased, mean = %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in z=0, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v lies outside the unit disk", p)
		}
	}
}
