package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewRandomScene scatters small random spheres around three large ones. The
// layout depends only on seed.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           600,
		Height:          400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            seed,
	}

	s, err := NewScene(cameraConfig, samplingConfig, integrator.DefaultBackground())
	if err != nil {
		return nil, err
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	b := &sceneBuilder{scene: s}

	b.sphere(core.NewVec3(0, -1000, 0), 1000, b.lambertian(core.NewColor(0.5, 0.5, 0.5)))

	glass := b.dielectric(1.5)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -7; a < 7; a++ {
		for bb := -7; bb < 7; bb++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(bb)+0.9*sampler.Get1D())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3Range(sampler, 0, 1).MultiplyVec(core.RandomVec3Range(sampler, 0, 1))
				b.sphere(center, 0.2, b.lambertian(albedo))
			case chooseMat < 0.95:
				albedo := core.RandomVec3Range(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				b.sphere(center, 0.2, b.metal(albedo, fuzz))
			default:
				b.sphere(center, 0.2, glass)
			}
		}
	}

	b.sphere(core.NewVec3(0, 1, 0), 1.0, glass)
	b.sphere(core.NewVec3(-4, 1, 0), 1.0, b.lambertian(core.NewColor(0.4, 0.2, 0.1)))
	b.sphere(core.NewVec3(4, 1, 0), 1.0, b.metal(core.NewColor(0.7, 0.6, 0.5), 0.0))

	if b.err != nil {
		return nil, b.err
	}
	return s, nil
}
