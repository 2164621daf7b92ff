package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	World          *geometry.HittableList
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
}

var _ renderer.Scene = (*Scene)(nil)

// NewScene creates an empty scene. The camera aspect ratio follows the
// sampling config's image size.
func NewScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig, background integrator.Background) (*Scene, error) {
	s := &Scene{
		World:          geometry.NewHittableList(),
		Background:     background,
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}
	if err := s.rebuildCamera(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) GetCamera() *renderer.Camera                { return s.Camera }
func (s *Scene) GetWorld() geometry.Shape                   { return s.World }
func (s *Scene) GetBackground() integrator.Background       { return s.Background }
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig { return s.SamplingConfig }

// Add appends shapes to the world
func (s *Scene) Add(shapes ...geometry.Shape) {
	for _, shape := range shapes {
		s.World.Add(shape)
	}
}

// AddSphere creates a sphere and adds it to the world
func (s *Scene) AddSphere(center core.Point3, radius float64, mat material.Material) error {
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.World.Add(sphere)
	return nil
}

// GetPrimitiveCount returns the number of top-level objects in the world
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// ApplyOverrides merges non-zero sampling and camera fields into the scene and
// rebuilds the camera. A new width without a new height keeps the aspect ratio.
func (s *Scene) ApplyOverrides(sampling renderer.SamplingConfig, camera renderer.CameraConfig) error {
	merged := renderer.MergeSamplingConfig(s.SamplingConfig, sampling)
	if sampling.Width != 0 && sampling.Height == 0 && s.SamplingConfig.Width > 0 {
		merged.Height = max(1, sampling.Width*s.SamplingConfig.Height/s.SamplingConfig.Width)
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	previous := s.SamplingConfig
	previousCamera := s.CameraConfig
	s.SamplingConfig = merged
	s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, camera)
	if err := s.rebuildCamera(); err != nil {
		s.SamplingConfig, s.CameraConfig = previous, previousCamera
		return err
	}
	return nil
}

func (s *Scene) rebuildCamera() error {
	if s.SamplingConfig.Height <= 0 {
		return fmt.Errorf("image height %d: %w", s.SamplingConfig.Height, renderer.ErrInvalidConfig)
	}
	s.CameraConfig.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return err
	}
	s.Camera = camera
	return nil
}

// sceneBuilder collects the first construction error so scene code can stay linear
type sceneBuilder struct {
	scene *Scene
	err   error
}

func (b *sceneBuilder) lambertian(albedo core.Color) material.Material {
	if b.err != nil {
		return nil
	}
	m, err := material.NewLambertian(albedo)
	b.err = err
	return m
}

func (b *sceneBuilder) metal(albedo core.Color, fuzz float64) material.Material {
	if b.err != nil {
		return nil
	}
	m, err := material.NewMetal(albedo, fuzz)
	b.err = err
	return m
}

func (b *sceneBuilder) dielectric(ior float64) material.Material {
	if b.err != nil {
		return nil
	}
	m, err := material.NewDielectric(ior)
	b.err = err
	return m
}

func (b *sceneBuilder) sphere(center core.Point3, radius float64, mat material.Material) {
	if b.err != nil {
		return
	}
	b.err = b.scene.AddSphere(center, radius, mat)
}
