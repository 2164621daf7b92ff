package renderer

import (
	"sync/atomic"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// testLogger discards all output
type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {}

// mockIntegrator returns a fixed color and counts calls; safe for concurrent workers
type mockIntegrator struct {
	returnColor core.Color
	calls       atomic.Int64
}

func (m *mockIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color {
	m.calls.Add(1)
	return m.returnColor
}

// mockScene is a minimal Scene for renderer tests
type mockScene struct {
	camera     *Camera
	world      *geometry.HittableList
	background integrator.Background
	config     SamplingConfig
}

func (m *mockScene) GetCamera() *Camera                   { return m.camera }
func (m *mockScene) GetWorld() geometry.Shape             { return m.world }
func (m *mockScene) GetBackground() integrator.Background { return m.background }
func (m *mockScene) GetSamplingConfig() SamplingConfig    { return m.config }

// createMockScene builds a diffuse sphere in front of a square camera
func createMockScene(t *testing.T, width, height int) *mockScene {
	t.Helper()

	camera, err := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: float64(width) / float64(height),
		VFov:        90,
	})
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	lambertian, err := material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	if err != nil {
		t.Fatalf("NewLambertian: %v", err)
	}
	sphere, err := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}

	return &mockScene{
		camera:     camera,
		world:      geometry.NewHittableList(sphere),
		background: integrator.DefaultBackground(),
		config: SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: 4,
			MaxDepth:        10,
			Seed:            7,
		},
	}
}
