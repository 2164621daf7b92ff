package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// DefaultGridSize is the sphere grid size used by the "grid" scene
const DefaultGridSize = 10

type builtin struct {
	info  SceneInfo
	build func(seed int64, camera renderer.CameraConfig) (*Scene, error)
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{Name: "Default Scene", Description: "Diffuse, hollow glass and metal spheres on a ground sphere"},
		build: func(_ int64, camera renderer.CameraConfig) (*Scene, error) {
			return NewDefaultScene(camera)
		},
	},
	"random": {
		info: SceneInfo{Name: "Random Spheres", Description: "Field of random small spheres around three large ones"},
		build: func(seed int64, camera renderer.CameraConfig) (*Scene, error) {
			return NewRandomScene(seed, camera)
		},
	},
	"glass": {
		info: SceneInfo{Name: "Glass Study", Description: "Glass spheres of increasing index of refraction"},
		build: func(_ int64, camera renderer.CameraConfig) (*Scene, error) {
			return NewGlassScene(camera)
		},
	},
	"grid": {
		info: SceneInfo{Name: "Sphere Grid", Description: "Grid of rainbow-colored metal spheres"},
		build: func(_ int64, camera renderer.CameraConfig) (*Scene, error) {
			return NewSphereGridScene(DefaultGridSize, camera)
		},
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named built-in scene. seed only affects procedurally
// generated scenes; camera fields that are non-zero override the scene's camera.
func New(name string, seed int64, camera renderer.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, Names(), ErrUnknownScene)
	}
	s, err := b.build(seed, camera)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", name, err)
	}
	return s, nil
}
