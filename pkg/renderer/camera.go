package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned for camera configurations with no usable view basis
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig describes a positionable thin-lens camera
type CameraConfig struct {
	Center        core.Point3 // Camera position (look-from)
	LookAt        core.Point3 // Point the camera looks at
	Up            core.Vec3   // View-up vector
	AspectRatio   float64     // Width / height
	VFov          float64     // Vertical field of view in degrees
	Aperture      float64     // Lens diameter; 0 disables depth of field
	FocusDistance float64     // Distance to the plane in focus; 0 = distance to LookAt
}

// MergeCameraConfig applies the non-zero fields of override on top of base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("vertical fov %v must be in (0, 180): %w", config.VFov, ErrInvalidCamera)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("aspect ratio %v: %w", config.AspectRatio, ErrInvalidCamera)
	}
	if config.Aperture < 0 {
		return nil, fmt.Errorf("aperture %v is negative: %w", config.Aperture, ErrInvalidCamera)
	}

	view := config.Center.Subtract(config.LookAt)
	if view.NearZero() || !view.IsFinite() {
		return nil, fmt.Errorf("camera at %v looks at itself: %w", config.Center, ErrInvalidCamera)
	}

	theta := config.VFov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points backwards, u right, v up
	w := view.Normalize()
	uCross := config.Up.Cross(w)
	if uCross.NearZero() {
		return nil, fmt.Errorf("up vector %v is parallel to the view direction: %w", config.Up, ErrInvalidCamera)
	}
	u := uCross.Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = view.Length()
	}

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}, nil
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// (0,0) is the lower-left corner of the viewport.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// GetPixelRay generates a ray through pixel (x, y) of a width×height image,
// offset inside the pixel by jitter. Row 0 is the top of the image.
//
// Pixel coordinates are divided by width-1 and height-1, so zero jitter puts
// the first and last pixels exactly on the viewport edges. A positive jitter
// on the last column or row gives s or t slightly above 1 and the ray
// continues the viewport plane past its edge.
func (c *Camera) GetPixelRay(x, y, width, height int, jitter core.Vec2, sampler core.Sampler) core.Ray {
	s := (float64(x) + jitter.X) / float64(max(1, width-1))
	t := (float64(height-1-y) + jitter.Y) / float64(max(1, height-1))
	return c.GetRay(s, t, sampler)
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
