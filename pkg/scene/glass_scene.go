package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewGlassScene lines up glass spheres of increasing index of refraction in
// front of a striped backdrop
func NewGlassScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center: core.NewVec3(0, 1, 4),
		LookAt: core.NewVec3(0, 0.4, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   35.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           480,
		Height:          270,
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}

	background := integrator.Background{
		Top:    core.NewColor(0.6, 0.75, 1.0),
		Bottom: core.NewColor(1.0, 0.95, 0.9),
	}

	s, err := NewScene(cameraConfig, samplingConfig, background)
	if err != nil {
		return nil, err
	}

	b := &sceneBuilder{scene: s}
	b.sphere(core.NewVec3(0, -1000, 0), 1000, b.lambertian(core.NewColor(0.5, 0.5, 0.5)))

	// Colored stripes behind the row make refraction visible
	stripes := []core.Color{
		core.NewColor(0.8, 0.1, 0.1),
		core.NewColor(0.1, 0.7, 0.1),
		core.NewColor(0.1, 0.2, 0.8),
		core.NewColor(0.8, 0.7, 0.1),
	}
	for i, c := range stripes {
		x := -2.25 + 1.5*float64(i)
		b.sphere(core.NewVec3(x, 0.6, -4), 0.6, b.lambertian(c))
	}

	for i, ior := range []float64{1.0, 1.33, 1.5, 2.4} {
		x := -1.8 + 1.2*float64(i)
		b.sphere(core.NewVec3(x, 0.5, -1), 0.5, b.dielectric(ior))
	}

	// A mirror off to the side shows the row from behind
	b.sphere(core.NewVec3(3.2, 1.0, -2.5), 1.0, b.metal(core.NewColor(0.9, 0.9, 0.9), 0.02))

	if b.err != nil {
		return nil, b.err
	}
	return s, nil
}
