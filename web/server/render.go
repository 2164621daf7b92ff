package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	X           int    `json:"x"` // Pixel offset of the tile
	Y           int    `json:"y"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate is sent when a pass finishes
type PassUpdate struct {
	Event          string  `json:"event"`
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ElapsedMs      int64   `json:"elapsedMs"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG of the whole frame
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsComplete     bool    `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// All writes to w go through one goroutine; it is drained before returning.
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	stopConsole := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, stopConsole, consoleChan, sseEventChan)
	}()
	// flushes buffered console lines so they precede the final event
	finishConsole := func() {
		close(stopConsole)
		<-consoleDone
	}

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		finishConsole()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	renderOptions := renderer.RenderOptions{TileUpdates: req.TileUpdates}
	passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderOptions)

	err = s.handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline, startTime)
	finishConsole()
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan, s.logger)
	return consoleChan, webLogger
}

// writeSSEEvents writes events until the channel is closed or the client goes away
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	clientGone := false
	for event := range sseEventChan {
		if clientGone {
			// keep draining so senders never block
			continue
		}
		if ctx.Err() != nil {
			clientGone = true
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			clientGone = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console lines as SSE events. When stop is
// closed it forwards whatever is still buffered and returns.
func (s *Server) streamConsoleMessages(ctx context.Context, stop <-chan struct{}, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	forward := func(msg ConsoleMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			s.logger.Error("marshal console message", "error", err)
			return
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}

	for {
		select {
		case msg := <-consoleChan:
			forward(msg)
		case <-stop:
			for {
				select {
				case msg := <-consoleChan:
					forward(msg)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	logger.Printf("Scene %q: %dx%d, %d objects\n", req.Scene,
		sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height, sceneObj.GetPrimitiveCount())

	config := renderer.ProgressiveConfig{
		TileSize:           defaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}

	integ := integrator.NewPathTracingIntegrator(sceneObj.GetBackground())
	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, config, integ, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
	}, nil
}

// handleRenderingEvents forwards pass and tile results until rendering ends
// and returns the renderer's error, or ctx's if the client went away
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	pipeline *RenderingPipeline, startTime time.Time) error {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, pipeline, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return <-errChan
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, passResult renderer.PassResult, pipeline *RenderingPipeline, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}

	imageData, err := imageToBase64PNG(passResult.Frame.Image())
	if err != nil {
		s.logger.Error("encode pass image", "pass", passResult.PassNumber, "error", err)
		return
	}

	stats := passResult.Stats
	update := PassUpdate{
		Event:          "passComplete",
		PassNumber:     passResult.PassNumber,
		TotalPasses:    pipeline.Raytracer.Config().MaxPasses,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		Width:          passResult.Frame.Width,
		Height:         passResult.Frame.Height,
		ImageData:      imageData,
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MaxSamples:     stats.MaxSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
		IsComplete:     passResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Error("marshal pass update", "error", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	if ctx.Err() != nil {
		return
	}

	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		s.logger.Error("encode tile image", "tileX", tileResult.TileX, "tileY", tileResult.TileY, "error", err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		X:           tileResult.Bounds.Min.X,
		Y:           tileResult.Bounds.Min.Y,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Error("marshal tile update", "error", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.EncodeImage(&buf, img, output.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
