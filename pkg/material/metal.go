package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Color // Metal color
	Fuzz   float64    // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz is clamped to [0, 1].
func NewMetal(albedo core.Color, fuzz float64) (*Metal, error) {
	if !validAlbedo(albedo) {
		return nil, fmt.Errorf("metal albedo %v: %w", albedo, ErrInvalidMaterial)
	}
	if math.IsNaN(fuzz) {
		return nil, fmt.Errorf("metal fuzz is NaN: %w", ErrInvalidMaterial)
	}
	return &Metal{Albedo: albedo, Fuzz: max(0, min(1, fuzz))}, nil
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Perturb the mirror direction; a perfect mirror draws no samples
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Rays perturbed below the surface are absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, true
}
