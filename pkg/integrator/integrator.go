package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance carried back along ray, following at most
	// depth bounces through world
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color
}

// Background is the vertical gradient returned for rays that escape the scene
type Background struct {
	Top    core.Color // color straight up
	Bottom core.Color // color straight down
}

// DefaultBackground returns the white to sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewColor(0.5, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color for the ray's direction
func (b Background) Color(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
