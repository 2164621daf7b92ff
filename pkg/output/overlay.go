package output

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// DrawTileGrid strokes the outline of every tile over img and returns the
// composited image. img itself is not modified.
func DrawTileGrid(img image.Image, tiles []image.Rectangle) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	origin := img.Bounds().Min
	dc.SetRGBA(1, 0.2, 0.2, 0.8)
	dc.SetLineWidth(1)
	for _, tile := range tiles {
		r := tile.Sub(origin)
		dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx())-1, float64(r.Dy())-1)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("draw tile grid: %w", err)
	}

	return dc.Image(), nil
}
