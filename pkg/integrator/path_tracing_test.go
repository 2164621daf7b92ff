package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// constantMaterial always scatters straight back along the normal
type constantMaterial struct {
	attenuation core.Color
	absorb      bool
}

func (m *constantMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	if m.absorb {
		return material.ScatterResult{}, false
	}
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, hit.Normal),
		Attenuation: m.attenuation,
	}, true
}

func mustSphere(t *testing.T, center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	t.Helper()
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		t.Fatal(err)
	}
	return sphere
}

func colorsClose(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

// createTestWorld creates a lambertian sphere resting on a large ground sphere
func createTestWorld(t *testing.T) *geometry.HittableList {
	t.Helper()
	ground, err := material.NewLambertian(core.NewColor(0.8, 0.8, 0.0))
	if err != nil {
		t.Fatal(err)
	}
	center, err := material.NewLambertian(core.NewColor(0.7, 0.3, 0.3))
	if err != nil {
		t.Fatal(err)
	}
	return geometry.NewHittableList(
		mustSphere(t, core.NewVec3(0, -100.5, -1), 100, ground),
		mustSphere(t, core.NewVec3(0, 0, -1), 0.5, center),
	)
}

func TestPathTracing_DepthZeroIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	sampler := core.NewSeededSampler(42)

	worlds := map[string]geometry.Shape{
		"empty":     geometry.NewHittableList(),
		"populated": createTestWorld(t),
	}
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
	}

	for name, world := range worlds {
		for _, ray := range rays {
			result := integrator.Trace(ray, world, sampler, 0)
			if result.Color != (core.Color{}) {
				t.Errorf("%s: expected black for depth 0, got %v", name, result.Color)
			}
			if result.Termination != TerminatedDepth {
				t.Errorf("%s: expected depth termination, got %v", name, result.Termination)
			}
		}
	}
}

func TestBackground_Gradient(t *testing.T) {
	background := DefaultBackground()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"horizontal", core.NewVec3(1, 0, 0), core.NewColor(0.75, 0.85, 1.0)},
		{"horizontal non-unit", core.NewVec3(0, 0, -7), core.NewColor(0.75, 0.85, 1.0)},
		{"straight up", core.NewVec3(0, 3, 0), core.NewColor(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewColor(1.0, 1.0, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := background.Color(core.NewRay(core.NewVec3(0, 0, 0), tt.direction))
			if !colorsClose(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracing_MissReturnsBackground(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	result := integrator.Trace(ray, geometry.NewHittableList(), core.NewSeededSampler(1), 50)
	if !colorsClose(result.Color, core.NewColor(0.75, 0.85, 1.0), 1e-12) {
		t.Errorf("Expected background (0.75,0.85,1), got %v", result.Color)
	}
	if result.Termination != TerminatedMiss || result.Bounces != 0 {
		t.Errorf("Expected immediate miss, got %+v", result)
	}
}

func TestPathTracing_AbsorptionIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	world := geometry.NewHittableList(mustSphere(t, core.NewVec3(0, 0, -1), 0.5, &constantMaterial{absorb: true}))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	result := integrator.Trace(ray, world, core.NewSeededSampler(1), 10)
	if result.Color != (core.Color{}) {
		t.Errorf("Expected black for absorbed path, got %v", result.Color)
	}
	if result.Termination != TerminatedAbsorbed {
		t.Errorf("Expected absorbed termination, got %v", result.Termination)
	}
}

func TestPathTracing_SingleBounceAttenuates(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	attenuation := core.NewColor(0.5, 0.25, 1.0)
	world := geometry.NewHittableList(mustSphere(t, core.NewVec3(0, 0, -1), 0.5, &constantMaterial{attenuation: attenuation}))

	// Hits the top of the sphere, scatters straight up into the sky
	ray := core.NewRay(core.NewVec3(0, 2, -1), core.NewVec3(0, -1, 0))
	result := integrator.Trace(ray, world, core.NewSeededSampler(1), 5)

	expected := attenuation.MultiplyVec(core.NewColor(0.5, 0.7, 1.0))
	if !colorsClose(result.Color, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, result.Color)
	}
	if result.Bounces != 1 || result.Termination != TerminatedMiss {
		t.Errorf("Expected one bounce then a miss, got %+v", result)
	}
}

func TestPathTracing_DepthExhaustion(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	mirror := &constantMaterial{attenuation: core.NewColor(1, 1, 1)}

	// Inside a sphere every normal-directed scatter hits the wall again
	world := geometry.NewHittableList(mustSphere(t, core.NewVec3(0, 0, 0), 1, mirror))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, depth := range []int{1, 7, 10000} {
		result := integrator.Trace(ray, world, core.NewSeededSampler(1), depth)
		if result.Color != (core.Color{}) {
			t.Errorf("depth %d: expected black, got %v", depth, result.Color)
		}
		if result.Termination != TerminatedDepth || result.Bounces != depth {
			t.Errorf("depth %d: expected %d bounces ending at the depth limit, got %+v", depth, depth, result)
		}
	}
}

func TestPathTracing_EnergyNonCreation(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	sampler := core.NewSeededSampler(7)

	diffuse, err := material.NewLambertian(core.NewColor(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	metal, err := material.NewMetal(core.NewColor(1, 0.9, 0.8), 0.3)
	if err != nil {
		t.Fatal(err)
	}
	world := geometry.NewHittableList(
		mustSphere(t, core.NewVec3(0, -100.5, -1), 100, diffuse),
		mustSphere(t, core.NewVec3(0, 0, -1), 0.5, metal),
		mustSphere(t, core.NewVec3(-1, 0, -1), 0.5, diffuse),
	)

	// Brightest background component on each channel
	limit := core.NewColor(1.0, 1.0, 1.0)

	for i := 0; i < 2000; i++ {
		dir := core.NewVec3(core.RandomRange(sampler, -1, 1), core.RandomRange(sampler, -1, 1), -1)
		color := integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 1), dir), world, sampler, 50)
		if color.X > limit.X+1e-12 || color.Y > limit.Y+1e-12 || color.Z > limit.Z+1e-12 {
			t.Fatalf("Path %d created energy: %v", i, color)
		}
		if color.X < 0 || color.Y < 0 || color.Z < 0 {
			t.Fatalf("Path %d produced negative radiance: %v", i, color)
		}
	}
}

// recursiveRayColor is the textbook recursive estimator the loop replaces
func recursiveRayColor(pt *PathTracingIntegrator, ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color {
	if depth <= 0 {
		return core.Color{}
	}
	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.Background().Color(ray)
	}
	scatter, ok := hit.Material.Scatter(ray, *hit, sampler)
	if !ok {
		return core.Color{}
	}
	return scatter.Attenuation.MultiplyVec(recursiveRayColor(pt, scatter.Scattered, world, sampler, depth-1))
}

func TestPathTracing_MatchesRecursiveEstimator(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultBackground())
	world := createTestWorld(t)

	glass, err := material.NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}
	world.Add(mustSphere(t, core.NewVec3(1, 0, -1), 0.5, glass))
	world.Add(mustSphere(t, core.NewVec3(1, 0, -1), -0.45, glass))

	iterative := core.NewSeededSampler(99)
	recursive := core.NewSeededSampler(99)
	directions := core.NewSeededSampler(5)

	for i := 0; i < 500; i++ {
		dir := core.NewVec3(core.RandomRange(directions, -1, 1.5), core.RandomRange(directions, -0.6, 0.6), -1)
		ray := core.NewRay(core.NewVec3(0, 0, 1), dir)

		got := integrator.RayColor(ray, world, iterative, 20)
		want := recursiveRayColor(integrator, ray, world, recursive, 20)
		if !colorsClose(got, want, 1e-12) {
			t.Fatalf("Ray %d: loop gave %v, recursion gave %v", i, got, want)
		}
	}
}

func TestTermination_String(t *testing.T) {
	if TerminatedMiss.String() != "miss" || TerminatedAbsorbed.String() != "absorbed" || TerminatedDepth.String() != "depth" {
		t.Error("Unexpected termination names")
	}
}
