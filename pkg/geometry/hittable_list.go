package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HittableList aggregates shapes and is itself a Shape.
// Intersection is a linear scan; insertion order only affects how quickly
// candidates are pruned, never which hit is returned.
type HittableList struct {
	objects []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(objects ...Shape) *HittableList {
	return &HittableList{objects: append([]Shape(nil), objects...)}
}

// Add appends a shape to the list
func (l *HittableList) Add(object Shape) {
	l.objects = append(l.objects, object)
}

// Clear removes all shapes
func (l *HittableList) Clear() {
	l.objects = nil
}

// Len returns the number of shapes directly held by the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the shapes held by the list
func (l *HittableList) Objects() []Shape {
	return l.objects
}

// Hit returns the closest intersection over every shape in the list
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
