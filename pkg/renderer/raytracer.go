package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// ErrInvalidConfig is returned for sampling configurations that cannot render
var ErrInvalidConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width              int     // Image width in pixels
	Height             int     // Image height in pixels
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth
	Seed               int64   // Base seed for all random streams
	AdaptiveMinSamples float64 // Fraction of samples taken before adaptive stopping is considered
	AdaptiveThreshold  float64 // Relative luminance error to stop at; 0 disables adaptive sampling
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports whether the configuration can render an image
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d: %w", c.SamplesPerPixel, ErrInvalidConfig)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidConfig)
	}
	if c.AdaptiveThreshold < 0 || c.AdaptiveMinSamples < 0 || c.AdaptiveMinSamples > 1 {
		return fmt.Errorf("adaptive settings (min %v, threshold %v): %w",
			c.AdaptiveMinSamples, c.AdaptiveThreshold, ErrInvalidConfig)
	}
	return nil
}

// MergeSamplingConfig applies the non-zero fields of override on top of base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.AdaptiveMinSamples != 0 {
		result.AdaptiveMinSamples = override.AdaptiveMinSamples
	}
	if override.AdaptiveThreshold != 0 {
		result.AdaptiveThreshold = override.AdaptiveThreshold
	}
	return result
}

// Scene is everything the renderer needs to know about what it draws
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
	GetBackground() integrator.Background
	GetSamplingConfig() SamplingConfig
}

// Raytracer is the serial reference renderer: one random stream, pixels in
// scanline order.
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	config     SamplingConfig
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene, integ integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integ,
		config:     scene.GetSamplingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// RenderPass renders every pixel with SamplesPerPixel samples. With an
// AdaptiveThreshold set, a pixel stops early once it has converged, the same
// way the tile renderer does.
func (rt *Raytracer) RenderPass() (*Framebuffer, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, err
	}

	fb := NewFramebuffer(rt.config.Width, rt.config.Height)
	sampler := core.NewSeededSampler(rt.config.Seed)
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	for y := 0; y < rt.config.Height; y++ {
		for x := 0; x < rt.config.Width; x++ {
			ps := &fb.Pixels[y][x]
			for ps.SampleCount < rt.config.SamplesPerPixel && !shouldStopSampling(ps, rt.config.SamplesPerPixel, rt.config) {
				ps.AddSample(samplePixel(camera, rt.integrator, world, x, y, rt.config, sampler))
			}
		}
	}
	return fb, nil
}

// samplePixel traces one jittered camera ray through pixel (x, y), where
// y counts rows from the top of the image
func samplePixel(camera *Camera, integ integrator.Integrator, world geometry.Shape, x, y int, config SamplingConfig, sampler core.Sampler) core.Color {
	ray := camera.GetPixelRay(x, y, config.Width, config.Height, sampler.Get2D(), sampler)
	return integ.RayColor(ray, world, sampler, config.MaxDepth)
}
