package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidSceneFile is returned for scene files that parse but describe an unusable scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// vec3 is a JSON [x, y, z] triple
type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// SceneFile is the JSON scene description
type SceneFile struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Variant     string `json:"variant,omitempty"`

	Camera     CameraDesc              `json:"camera"`
	Sampling   SamplingDesc            `json:"sampling"`
	Background *BackgroundDesc         `json:"background,omitempty"`
	Materials  map[string]MaterialDesc `json:"materials"`
	Spheres    []SphereDesc            `json:"spheres"`
}

// CameraDesc describes the camera; zero fields take defaults
type CameraDesc struct {
	LookFrom      vec3    `json:"lookFrom"`
	LookAt        vec3    `json:"lookAt"`
	Up            *vec3   `json:"up,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingDesc overrides the default sampling configuration
type SamplingDesc struct {
	Width              int     `json:"width,omitempty"`
	Height             int     `json:"height,omitempty"`
	SamplesPerPixel    int     `json:"samplesPerPixel,omitempty"`
	MaxDepth           int     `json:"maxDepth,omitempty"`
	Seed               int64   `json:"seed,omitempty"`
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples,omitempty"`
	AdaptiveThreshold  float64 `json:"adaptiveThreshold,omitempty"`
}

// BackgroundDesc is the sky gradient
type BackgroundDesc struct {
	Top    vec3 `json:"top"`
	Bottom vec3 `json:"bottom"`
}

// MaterialDesc is one named material. Type selects which fields apply.
type MaterialDesc struct {
	Type   string  `json:"type"` // lambertian, metal or dielectric
	Albedo vec3    `json:"albedo,omitempty"`
	Fuzz   float64 `json:"fuzz,omitempty"`
	IOR    float64 `json:"ior,omitempty"`
}

// SphereDesc places a sphere using a named material
type SphereDesc struct {
	Center   vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// defaultVFov is used when a scene file omits the field of view
const defaultVFov = 40.0

// LoadScene reads and builds a JSON scene file
func LoadScene(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes a JSON scene description and builds the scene
func ParseScene(r io.Reader) (*scene.Scene, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var sf SceneFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w: %w", ErrInvalidSceneFile, err)
	}
	// exactly one document; trailing whitespace is fine
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("decode scene: %w: unexpected data after scene object", ErrInvalidSceneFile)
	}
	return sf.Build()
}

// Build turns the description into a scene
func (sf *SceneFile) Build() (*scene.Scene, error) {
	sampling := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
		Width:              sf.Sampling.Width,
		Height:             sf.Sampling.Height,
		SamplesPerPixel:    sf.Sampling.SamplesPerPixel,
		MaxDepth:           sf.Sampling.MaxDepth,
		Seed:               sf.Sampling.Seed,
		AdaptiveMinSamples: sf.Sampling.AdaptiveMinSamples,
		AdaptiveThreshold:  sf.Sampling.AdaptiveThreshold,
	})
	if err := sampling.Validate(); err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}

	up := core.NewVec3(0, 1, 0)
	if sf.Camera.Up != nil {
		up = sf.Camera.Up.toVec3()
	}
	vfov := sf.Camera.VFov
	if vfov == 0 {
		vfov = defaultVFov
	}
	cameraConfig := renderer.CameraConfig{
		Center:        sf.Camera.LookFrom.toVec3(),
		LookAt:        sf.Camera.LookAt.toVec3(),
		Up:            up,
		VFov:          vfov,
		Aperture:      sf.Camera.Aperture,
		FocusDistance: sf.Camera.FocusDistance,
	}

	background := integrator.DefaultBackground()
	if sf.Background != nil {
		background = integrator.Background{Top: sf.Background.Top.toVec3(), Bottom: sf.Background.Bottom.toVec3()}
	}

	s, err := scene.NewScene(cameraConfig, sampling, background)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	materials, err := sf.buildMaterials()
	if err != nil {
		return nil, err
	}

	for i, sphere := range sf.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: material %q not defined: %w", i, sphere.Material, ErrInvalidSceneFile)
		}
		if err := s.AddSphere(sphere.Center.toVec3(), sphere.Radius, mat); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}

	return s, nil
}

func (sf *SceneFile) buildMaterials() (map[string]material.Material, error) {
	// Sorted so the first reported error does not depend on map order
	names := make([]string, 0, len(sf.Materials))
	for name := range sf.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(names))
	for _, name := range names {
		mat, err := sf.Materials[name].build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}
	return materials, nil
}

func (m MaterialDesc) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.toVec3())
	case "metal":
		return material.NewMetal(m.Albedo.toVec3(), m.Fuzz)
	case "dielectric":
		return material.NewDielectric(m.IOR)
	}
	return nil, fmt.Errorf("unknown material type %q: %w", m.Type, ErrInvalidSceneFile)
}
