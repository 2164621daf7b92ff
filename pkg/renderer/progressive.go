package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel (0 = scene's SamplesPerPixel)
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene       Scene
	config      ProgressiveConfig
	sampling    SamplingConfig
	tiles       []*Tile
	currentPass int
	framebuffer *Framebuffer // Shared accumulation buffer (global image coordinates)
	workerPool  *WorkerPool
	logger      core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer for the scene's
// image size. Call Close (or drain RenderProgressive) to release its workers.
func NewProgressiveRaytracer(scene Scene, config ProgressiveConfig, integ integrator.Integrator, logger core.Logger) (*ProgressiveRaytracer, error) {
	sampling := scene.GetSamplingConfig()
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if config.MaxSamplesPerPixel <= 0 {
		config.MaxSamplesPerPixel = sampling.SamplesPerPixel
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	config.MaxPasses = max(1, config.MaxPasses)
	config.InitialSamples = min(max(1, config.InitialSamples), config.MaxSamplesPerPixel)
	if logger == nil {
		logger = core.NopLogger{}
	}

	tiles := NewTileGrid(sampling.Width, sampling.Height, config.TileSize, sampling.Seed)

	return &ProgressiveRaytracer{
		scene:       scene,
		config:      config,
		sampling:    sampling,
		tiles:       tiles,
		framebuffer: NewFramebuffer(sampling.Width, sampling.Height),
		workerPool:  NewWorkerPool(scene, integ, config.NumWorkers, len(tiles)),
		logger:      logger,
	}, nil
}

// Config returns the effective progressive configuration
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// Close stops the worker pool
func (pr *ProgressiveRaytracer) Close() {
	pr.workerPool.Stop()
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return min(pr.config.InitialSamples+(passNumber-1)*samplesPerPass, pr.config.MaxSamplesPerPixel)
}

// RenderPass renders a single progressive pass using parallel processing.
// The returned framebuffer is a snapshot owned by the caller.
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*Framebuffer, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			Framebuffer:   pr.framebuffer,
		})
	}

	// Barrier: every tile of this pass must finish before the image is assembled
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, errors.New("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				Bounds:      tile.Bounds,
				TileImage:   pr.framebuffer.SubImage(tile.Bounds),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	frame := pr.framebuffer.Clone()
	return frame, frame.Stats(targetSamples), nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Framebuffer
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	Bounds     image.Rectangle // Pixel bounds of the tile
	TileImage  *image.RGBA     // Image data for just this tile
	PassNumber int             // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive runs all passes in a goroutine and reports through channels.
// The pass and error channels are closed when rendering ends; cancellation is
// checked between passes and reported as ctx.Err() on the error channel.
// If options.TileUpdates is false the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; tile previews are best effort
					}
				}
			}

			frame, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- fmt.Errorf("pass %d: %w", pass, err)
				return
			}

			passTime := time.Since(startTime)
			pr.logger.Printf("Pass %d completed in %v (%.1f samples/pixel)\n",
				pass, passTime, stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Frame:      frame,
				Stats:      stats,
				Duration:   passTime,
				IsLast:     isLast,
			}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-specific random stream
}

// NewTile creates a new tile with a random stream derived from its ID and the render seed
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(tileSeed(id, seed)),
	}
}

// tileSeed keeps seeds distinct per tile; +42 avoids seed 0 for the first tile
func tileSeed(id int, seed int64) int64 {
	return seed*1_000_003 + int64(id) + 42
}

// NewTileGrid creates a grid of tiles covering the entire image. A
// non-positive tileSize uses the default tile size.
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultProgressiveConfig().TileSize
	}
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
