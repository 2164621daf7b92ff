package renderer

import (
	"image"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// Summary formats the statistics for humans, grouping large numbers by locale
func (s RenderStats) Summary(tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%d pixels, %d samples (avg %.1f, min %d, max %d of %d per pixel)",
		s.TotalPixels, s.TotalSamples, s.AverageSamples, s.MinSamples, s.MaxSamplesUsed, s.MaxSamples)
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Color // RGB sum of all samples
	LuminanceAccum   float64    // Luminance accumulator for convergence
	LuminanceSqAccum float64    // Luminance squared for variance
	SampleCount      int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Color{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// RelativeError returns the coefficient of variation of the sampled luminance
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount == 0 {
		return math.Inf(1)
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)
	if mean <= 1e-8 {
		if variance < 1e-6 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Sqrt(variance) / mean
}

// newRenderStats starts a stats accumulator for the given pixel count
func newRenderStats(pixelCount, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  maxSamples,
		MinSamples:  math.MaxInt,
	}
}

func (s *RenderStats) addPixel(samples int) {
	s.TotalSamples += samples
	s.MinSamples = min(s.MinSamples, samples)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samples)
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
	if s.MinSamples == math.MaxInt {
		s.MinSamples = 0
	}
}

// CalculateAverageLuminance returns the mean luminance of an
// 8-bit image, treating channel values as already display-encoded
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewColor(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += c.Luminance()
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
