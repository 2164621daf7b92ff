package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// GammaEncode converts a linear color to 8-bit channels using gamma 2:
// sqrt, clamp to [0, 0.999], scale by 256 and truncate.
func GammaEncode(c core.Color) (r, g, b uint8) {
	return encodeChannel(c.X), encodeChannel(c.Y), encodeChannel(c.Z)
}

func encodeChannel(v float64) uint8 {
	// NaN fails both comparisons below and must not reach the conversion
	if !(v > 0) {
		return 0
	}
	v = min(max(math.Sqrt(v), 0), 0.999)
	return uint8(256 * v)
}

// ToRGBA gamma-encodes a linear color into an opaque color.RGBA
func ToRGBA(c core.Color) color.RGBA {
	r, g, b := GammaEncode(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
