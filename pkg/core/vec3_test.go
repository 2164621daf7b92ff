package core

import (
	"math"
	"testing"
)

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected bool
	}{
		{"zero vector", NewVec3(0, 0, 0), true},
		{"tiny positive", NewVec3(1e-9, 1e-9, 1e-9), true},
		{"tiny negative", NewVec3(-1e-9, -1e-9, 1e-9), true},
		{"one large positive component", NewVec3(1e-9, 0.5, 0), false},
		// Negative components must be compared by magnitude
		{"large negative components", NewVec3(-1, -2, -3), false},
		{"mixed large negative", NewVec3(-0.5, 1e-9, 1e-9), false},
		{"unit vector", NewVec3(0, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.vector, got, tt.expected)
			}
		})
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Add(b); !got.Equals(NewVec3(5, -3, 9)) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Subtract(b); !got.Equals(NewVec3(-3, 7, -3)) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.Multiply(2); !got.Equals(NewVec3(2, 4, 6)) {
		t.Errorf("Multiply: got %v", got)
	}
	if got := a.MultiplyVec(b); !got.Equals(NewVec3(4, -10, 18)) {
		t.Errorf("MultiplyVec: got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: expected 12, got %f", got)
	}
	if got := a.Negate(); !got.Equals(NewVec3(-1, -2, -3)) {
		t.Errorf("Negate: got %v", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	if got := x.Cross(y); !got.Equals(NewVec3(0, 0, 1)) {
		t.Errorf("x cross y should be z, got %v", got)
	}
	if got := y.Cross(x); !got.Equals(NewVec3(0, 0, -1)) {
		t.Errorf("y cross x should be -z, got %v", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Y-0.8) > 1e-12 {
		t.Errorf("Expected (0.6, 0.8, 0), got %v", v)
	}

	zero := NewVec3(0, 0, 0).Normalize()
	if !zero.Equals(NewVec3(0, 0, 0)) {
		t.Errorf("Zero vector should normalize to zero, got %v", zero)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestVec3_ClampAndSqrt(t *testing.T) {
	c := NewVec3(-0.5, 0.25, 2).Clamp(0, 0.999)
	if !c.Equals(NewVec3(0, 0.25, 0.999)) {
		t.Errorf("Clamp: got %v", c)
	}

	s := NewVec3(0.25, 1, -1).Sqrt()
	if !s.Equals(NewVec3(0.5, 1, 0)) {
		t.Errorf("Sqrt: got %v", s)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))
	if got := ray.At(0.5); !got.Equals(NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
	if got := ray.At(0); !got.Equals(ray.Origin) {
		t.Errorf("At(0) should be the origin, got %v", got)
	}
}
