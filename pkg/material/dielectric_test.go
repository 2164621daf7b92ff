package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestNewDielectric_Validation(t *testing.T) {
	tests := []struct {
		name    string
		ior     float64
		wantErr bool
	}{
		{"glass", 1.5, false},
		{"air", 1.0, false},
		{"hollow shell inverse", 1.0 / 1.5, false},
		{"zero", 0, true},
		{"negative", -1.5, true},
		{"NaN", math.NaN(), true},
		{"infinite", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDielectric(tt.ior)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewDielectric(%v) error = %v, wantErr %t", tt.ior, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidMaterial) {
				t.Errorf("Expected ErrInvalidMaterial, got %v", err)
			}
		})
	}
}

func TestDielectric_NormalIncidenceMatchedIndex(t *testing.T) {
	glass, err := NewDielectric(1.0)
	if err != nil {
		t.Fatal(err)
	}

	incoming := core.NewVec3(0, 0, -1)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	// Reflectance is zero here, so any sample refracts
	sampler := NewTestSampler([]float64{0.5}, nil)
	scatter, didScatter := glass.Scatter(core.NewRay(core.NewVec3(0, 0, 1), incoming), hit, sampler)
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}
	if !vecClose(scatter.Scattered.Direction, incoming, 1e-12) {
		t.Errorf("Expected unbent direction %v, got %v", incoming, scatter.Scattered.Direction)
	}
}

func TestDielectric_AlwaysWhiteAttenuation(t *testing.T) {
	glass, err := NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	for i := 0; i < 100; i++ {
		scatter, didScatter := glass.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Dielectric should always scatter")
		}
		if !scatter.Attenuation.Equals(core.NewColor(1, 1, 1)) {
			t.Fatalf("Expected white attenuation, got %v", scatter.Attenuation)
		}
	}
}

func TestDielectric_FresnelChoice(t *testing.T) {
	glass, err := NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}

	direction := core.NewVec3(1, -1, 0).Normalize() // 45 degrees
	ray := core.NewRay(core.NewVec3(-1, 1, 0), direction)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	cosTheta := direction.Negate().Dot(hit.Normal)
	r := Reflectance(cosTheta, 1.0/1.5)

	tests := []struct {
		name        string
		sample      float64
		wantReflect bool
	}{
		{"sample below reflectance reflects", 0, true},
		{"sample just below reflectance reflects", r * 0.99, true},
		{"sample above reflectance refracts", 0.99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scatter, _ := glass.Scatter(ray, hit, NewTestSampler([]float64{tt.sample}, nil))

			var expected core.Vec3
			if tt.wantReflect {
				expected = Reflect(direction, hit.Normal)
			} else {
				expected = Refract(direction, hit.Normal, 1.0/1.5)
			}
			if !vecClose(scatter.Scattered.Direction, expected, 1e-12) {
				t.Errorf("Expected direction %v, got %v", expected, scatter.Scattered.Direction)
			}
		})
	}
}

func TestDielectric_Refraction_SnellsLaw(t *testing.T) {
	glass, err := NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}

	direction := core.NewVec3(1, -1, 0).Normalize()
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	scatter, _ := glass.Scatter(core.NewRay(core.NewVec3(-1, 1, 0), direction), hit, NewTestSampler([]float64{0.999}, nil))
	refracted := scatter.Scattered.Direction.Normalize()

	// n1 sin θ1 = n2 sin θ2
	sinIncident := math.Sqrt(1 - math.Pow(direction.Dot(hit.Normal), 2))
	sinRefracted := math.Sqrt(1 - math.Pow(refracted.Dot(hit.Normal), 2))
	if math.Abs(1.0*sinIncident-1.5*sinRefracted) > 1e-9 {
		t.Errorf("Snell's law violated: sinI=%f sinR=%f", sinIncident, sinRefracted)
	}
	if refracted.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", refracted)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass, err := NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}

	// Shallow ray leaving glass into air
	direction := core.NewVec3(1, -0.1, 0).Normalize()
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: false,
	}

	cosTheta := direction.Negate().Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatal("Test setup should produce total internal reflection")
	}

	// TIR must not consume a Fresnel sample
	scatter, didScatter := glass.Scatter(core.NewRay(core.NewVec3(0, 0, 0), direction), hit, NewTestSampler(nil, nil))
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}

	expected := Reflect(direction, hit.Normal)
	if !vecClose(scatter.Scattered.Direction, expected, 1e-12) {
		t.Errorf("Expected reflection %v, got %v", expected, scatter.Scattered.Direction)
	}
	if scatter.Scattered.Direction.Y <= 0 {
		t.Error("Totally reflected ray should stay on the normal side")
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence from air into glass gives r0 = 0.04
	if r := Reflectance(1.0, 1.0/1.5); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Expected 0.04 at normal incidence, got %f", r)
	}
	// Grazing incidence reflects everything
	if r := Reflectance(0.0, 1.0/1.5); math.Abs(r-1.0) > 1e-12 {
		t.Errorf("Expected 1.0 at grazing incidence, got %f", r)
	}
	// Matched indices never reflect head-on
	if r := Reflectance(1.0, 1.0); r != 0 {
		t.Errorf("Expected 0 for matched indices, got %f", r)
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if !got.Equals(core.NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}
