package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidGeometry is returned when a shape is constructed with degenerate
// or non-finite parameters
var ErrInvalidGeometry = errors.New("invalid geometry")

// Shape interface for objects that can be hit by rays.
// Hit returns the nearest intersection with t in [tMin, tMax], or false on a miss.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
