package material

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidMaterial is returned when a material is constructed with parameters
// that would propagate NaN or infinity through shading
var ErrInvalidMaterial = errors.New("invalid material")

// Material interface for objects that can scatter rays.
// Implementations are immutable and shared by every hit on the surfaces using them.
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false if the
	// incoming ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Unit normal, always facing against the incoming ray
	T         float64     // Parameter t along the ray
	FrontFace bool        // Whether ray hit the front face
	Material  Material    // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// validAlbedo rejects colors that are negative or non-finite
func validAlbedo(albedo core.Color) bool {
	return albedo.IsFinite() && albedo.X >= 0 && albedo.Y >= 0 && albedo.Z >= 0
}
