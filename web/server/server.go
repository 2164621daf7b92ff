package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request parameter limits shared by the render, inspect and scene-config endpoints
const (
	minImageSize     = 16
	maxImageSize     = 2000
	maxSamplesLimit  = 10000
	maxPassesLimit   = 100
	maxDepthLimit    = 500
	defaultScene     = "default"
	fileScenePrefix  = "file:"
	defaultTileSize  = 64
	largeRenderLimit = 800 * 600
)

// Server serves the progressive preview UI and its JSON/SSE API
type Server struct {
	port      int
	sceneDir  string
	staticDir string
	logger    *slog.Logger
}

// NewServer creates a new web server. sceneDir holds JSON scene files and
// staticDir the browser assets; a nil logger uses slog.Default.
func NewServer(port int, sceneDir, staticDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		port:      port,
		sceneDir:  sceneDir,
		staticDir: staticDir,
		logger:    logger.With("component", "web"),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene              string  `json:"scene"`              // Built-in scene name or "file:<name>"
	Width              int     `json:"width"`              // Image width
	Height             int     `json:"height"`             // Image height
	MaxSamples         int     `json:"maxSamples"`         // Maximum samples per pixel
	MaxPasses          int     `json:"maxPasses"`          // Maximum number of passes
	MaxDepth           int     `json:"maxDepth"`           // Maximum bounces per path
	Seed               int64   `json:"seed"`               // Render seed (0 = scene default)
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"` // Fraction of samples before adaptive stopping
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`  // Relative error threshold; 0 disables
	TileUpdates        bool    `json:"tileUpdates"`        // Stream per-tile previews
}

// Handler returns the HTTP routes served by s
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", "http://localhost"+addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files found in sceneDir
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		s.logger.Error("list scenes", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams fills the scene selection and image size of req
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return err
	}
	// 0 keeps the scene's aspect ratio
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return err
	}
	if req.Seed, err = parseInt64Param(query, "seed", 0); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, 1, maxSamplesLimit); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, 1, maxPassesLimit); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, maxDepthLimit); err != nil {
		return nil, err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(query, "adaptiveMinSamples", 0, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(query, "adaptiveThreshold", 0, 0.001, 0.5); err != nil {
		return nil, err
	}
	req.TileUpdates = query.Get("tiles") != "false"

	pixels := req.Width * req.Height
	if req.Height == 0 {
		// height follows the scene aspect; assume square
		pixels = req.Width * req.Width
	}
	if pixels > largeRenderLimit && req.MaxSamples > 100 {
		s.logger.Warn("large image with high sample count may render slowly",
			"width", req.Width, "maxSamples", req.MaxSamples)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene and applies the request's overrides.
// Names prefixed with "file:" are loaded from the scene directory.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	var sceneObj *scene.Scene
	if name, ok := strings.CutPrefix(req.Scene, fileScenePrefix); ok {
		path, err := loaders.ResolveSceneFile(s.sceneDir, name)
		if err != nil {
			return nil, err
		}
		if sceneObj, err = loaders.LoadScene(path); err != nil {
			return nil, err
		}
	} else {
		var err error
		if sceneObj, err = scene.New(req.Scene, req.Seed, renderer.CameraConfig{}); err != nil {
			return nil, err
		}
	}

	if err := sceneObj.ApplyOverrides(renderer.SamplingConfig{
		Width:              req.Width,
		Height:             req.Height,
		SamplesPerPixel:    req.MaxSamples,
		MaxDepth:           req.MaxDepth,
		Seed:               req.Seed,
		AdaptiveMinSamples: req.AdaptiveMinSamples,
		AdaptiveThreshold:  req.AdaptiveThreshold,
	}, renderer.CameraConfig{}); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	sceneObj, err := s.createScene(&RenderRequest{Scene: sceneName})
	if err != nil {
		writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetSamplingConfig()
	camera := sceneObj.GetCamera().Config()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":              config.Width,
			"height":             config.Height,
			"samplesPerPixel":    config.SamplesPerPixel,
			"maxDepth":           config.MaxDepth,
			"seed":               config.Seed,
			"adaptiveMinSamples": config.AdaptiveMinSamples,
			"adaptiveThreshold":  config.AdaptiveThreshold,
			"vfov":               camera.VFov,
			"aperture":           camera.Aperture,
		},
		"primitiveCount": sceneObj.GetPrimitiveCount(),
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":             map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples":         map[string]int{"min": 1, "max": maxSamplesLimit},
			"maxPasses":          map[string]int{"min": 1, "max": maxPassesLimit},
			"maxDepth":           map[string]int{"min": 1, "max": maxDepthLimit},
			"adaptiveMinSamples": map[string]float64{"min": 0.01, "max": 1.0},
			"adaptiveThreshold":  map[string]float64{"min": 0.001, "max": 0.5},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// errorStatus maps scene construction errors to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene),
		errors.Is(err, loaders.ErrInvalidSceneFile),
		errors.Is(err, material.ErrInvalidMaterial),
		errors.Is(err, geometry.ErrInvalidGeometry),
		errors.Is(err, renderer.ErrInvalidConfig),
		errors.Is(err, renderer.ErrInvalidCamera):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
