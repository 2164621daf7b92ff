package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integ integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integ,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples,
// stopping early on converged pixels when adaptive sampling is enabled
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, fb *Framebuffer, sampler core.Sampler, targetSamples int) RenderStats {
	camera := tr.scene.GetCamera()
	world := tr.scene.GetWorld()
	config := tr.scene.GetSamplingConfig()
	config.Width, config.Height = fb.Width, fb.Height

	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &fb.Pixels[y][x]
			initial := ps.SampleCount
			for ps.SampleCount < targetSamples && !shouldStopSampling(ps, targetSamples, config) {
				ps.AddSample(samplePixel(camera, tr.integrator, world, x, y, config, sampler))
			}
			stats.addPixel(ps.SampleCount - initial)
		}
	}

	stats.finalize()
	return stats
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func shouldStopSampling(ps *PixelStats, maxSamples int, config SamplingConfig) bool {
	if config.AdaptiveThreshold <= 0 {
		return false
	}

	minSamples := max(1, int(float64(maxSamples)*config.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	return ps.RelativeError() < config.AdaptiveThreshold
}
