package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ShadowAcneEpsilon is the minimum hit distance; it keeps scattered rays from
// re-hitting the surface they start on
const ShadowAcneEpsilon = 0.001

// Termination describes why a traced path stopped
type Termination int

const (
	// TerminatedMiss means the path escaped and picked up the background
	TerminatedMiss Termination = iota
	// TerminatedAbsorbed means a material absorbed the path
	TerminatedAbsorbed
	// TerminatedDepth means the bounce budget ran out
	TerminatedDepth
)

func (t Termination) String() string {
	switch t {
	case TerminatedMiss:
		return "miss"
	case TerminatedAbsorbed:
		return "absorbed"
	case TerminatedDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// PathResult is the outcome of tracing one camera path
type PathResult struct {
	Color       core.Color
	Bounces     int // number of successful scatters
	Termination Termination
}

// PathTracingIntegrator implements unidirectional path tracing with an explicit
// bounce loop, so stack usage does not grow with the depth limit
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{background: background}
}

// Background returns the gradient used for escaping rays
func (pt *PathTracingIntegrator) Background() Background {
	return pt.background
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color {
	return pt.Trace(ray, world, sampler, depth).Color
}

// Trace follows one path and reports how it ended
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) PathResult {
	throughput := core.NewColor(1, 1, 1)
	bounces := 0

	for ; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return PathResult{
				Color:       throughput.MultiplyVec(pt.background.Color(ray)),
				Bounces:     bounces,
				Termination: TerminatedMiss,
			}
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return PathResult{Bounces: bounces, Termination: TerminatedAbsorbed}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
		bounces++
	}

	// Unresolved indirect light contributes nothing
	return PathResult{Bounces: bounces, Termination: TerminatedDepth}
}
