package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer holds per-pixel sample accumulators. Row 0 is the top of the image.
type Framebuffer struct {
	Width  int
	Height int
	Pixels [][]PixelStats // indexed [y][x]
}

// NewFramebuffer allocates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return &Framebuffer{Width: width, Height: height, Pixels: pixels}
}

// Clone returns a deep copy that is safe to read while rendering continues
func (fb *Framebuffer) Clone() *Framebuffer {
	clone := NewFramebuffer(fb.Width, fb.Height)
	for y := range fb.Pixels {
		copy(clone.Pixels[y], fb.Pixels[y])
	}
	return clone
}

// Color returns the mean linear color of pixel (x, y)
func (fb *Framebuffer) Color(x, y int) core.Color {
	return fb.Pixels[y][x].GetColor()
}

// Stats computes sample statistics over the whole framebuffer
func (fb *Framebuffer) Stats(maxSamples int) RenderStats {
	stats := newRenderStats(fb.Width*fb.Height, maxSamples)
	for y := range fb.Pixels {
		for x := range fb.Pixels[y] {
			stats.addPixel(fb.Pixels[y][x].SampleCount)
		}
	}
	stats.finalize()
	return stats
}

// Image gamma-encodes the framebuffer into an RGBA image
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.SubImage(image.Rect(0, 0, fb.Width, fb.Height))
}

// SubImage gamma-encodes the pixels inside bounds. The returned image is
// positioned at the origin.
func (fb *Framebuffer) SubImage(bounds image.Rectangle) *image.RGBA {
	bounds = bounds.Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ToRGBA(fb.Color(x, y)))
		}
	}
	return img
}
