package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// WritePPM writes the framebuffer as a plain-text (P3) PPM image. Pixels are
// averaged over their samples, gamma encoded and written top row first.
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := renderer.GammaEncode(fb.Color(x, y))
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return fmt.Errorf("write ppm pixel (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}
