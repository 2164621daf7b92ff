package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewDefaultScene creates three spheres (diffuse, hollow glass, metal) resting on a
// large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center: core.NewVec3(-2, 2, 1),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   20.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}

	s, err := NewScene(cameraConfig, samplingConfig, integrator.DefaultBackground())
	if err != nil {
		return nil, err
	}

	b := &sceneBuilder{scene: s}
	ground := b.lambertian(core.NewColor(0.8, 0.8, 0.0))
	center := b.lambertian(core.NewColor(0.1, 0.2, 0.5))
	glass := b.dielectric(1.5)
	gold := b.metal(core.NewColor(0.8, 0.6, 0.2), 0.0)

	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	b.sphere(core.NewVec3(0, 0, -1), 0.5, center)
	b.sphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	// Negative radius flips the normals: a thin hollow glass shell
	b.sphere(core.NewVec3(-1, 0, -1), -0.45, glass)
	b.sphere(core.NewVec3(1, 0, -1), 0.5, gold)

	if b.err != nil {
		return nil, b.err
	}
	return s, nil
}
