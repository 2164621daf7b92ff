package output

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize resamples img to width x height with a Catmull-Rom filter
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(1, width), max(1, height)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Scale resizes img by factor, keeping the aspect ratio
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	return Resize(img, int(float64(b.Dx())*factor+0.5), int(float64(b.Dy())*factor+0.5))
}
