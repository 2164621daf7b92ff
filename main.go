package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"golang.org/x/text/language"
)

// Config holds the parsed command line
type Config struct {
	Scene    string
	Width    int
	Samples  int
	Depth    int
	Passes   int
	Workers  int
	Seed     int64
	Out      string
	Format   string
	Scale    float64
	Tiles    bool
	TileSize int
	Verbose  bool
	Help     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (Config, *flag.FlagSet, error) {
	var cfg Config
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Scene, "scene", "default", "Built-in scene name or path to a .json scene file")
	fs.IntVar(&cfg.Width, "width", 0, "Image width in pixels (0 = scene default; height keeps the aspect ratio)")
	fs.IntVar(&cfg.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", 0, "Maximum bounces per path (0 = scene default)")
	fs.IntVar(&cfg.Passes, "passes", 1, "Progressive passes; 0 renders with the serial reference renderer")
	fs.IntVar(&cfg.Workers, "workers", 0, "Parallel workers (0 = CPU count)")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Random seed (0 = scene default)")
	fs.StringVar(&cfg.Out, "out", "", "Output file, or - for stdout (default output/<scene>/render_<timestamp>.<format>)")
	fs.StringVar(&cfg.Format, "format", "", "Output format: ppm, png, jpeg, bmp or tiff (default from -out, else ppm)")
	fs.Float64Var(&cfg.Scale, "scale", 1.0, "Resample the final image by this factor")
	fs.BoolVar(&cfg.Tiles, "tiles", false, "Overlay the tile grid on the output image")
	fs.IntVar(&cfg.TileSize, "tile-size", 64, "Tile size in pixels")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&cfg.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return cfg, fs, err
	}
	if cfg.Scale <= 0 {
		return cfg, fs, fmt.Errorf("scale must be positive, got %v", cfg.Scale)
	}
	if cfg.TileSize <= 0 {
		return cfg, fs, fmt.Errorf("tile size must be positive, got %d", cfg.TileSize)
	}
	return cfg, fs, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w, "  <file>.json - JSON scene file")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if cfg.Help {
		printHelp(stdout, fs)
		return nil
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	s, err := createScene(cfg.Scene, cfg.Seed)
	if err != nil {
		return err
	}
	if err := s.ApplyOverrides(renderer.SamplingConfig{
		Width:           cfg.Width,
		SamplesPerPixel: cfg.Samples,
		MaxDepth:        cfg.Depth,
		Seed:            cfg.Seed,
	}, renderer.CameraConfig{}); err != nil {
		return err
	}

	format, outPath, err := resolveOutput(cfg)
	if err != nil {
		return err
	}

	sampling := s.GetSamplingConfig()
	logger.Info("rendering",
		"scene", cfg.Scene,
		"width", sampling.Width,
		"height", sampling.Height,
		"spp", sampling.SamplesPerPixel,
		"depth", sampling.MaxDepth,
		"objects", s.GetPrimitiveCount())

	startTime := time.Now()
	fb, stats, err := render(ctx, s, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("render completed",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"stats", stats.Summary(language.English))

	if outPath == stdoutPath {
		return encodeOutput(stdout, format, fb, cfg, logger)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := writeOutput(outPath, format, fb, cfg, logger); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", outPath)
	return nil
}

// render runs either the serial reference renderer or the progressive renderer
func render(ctx context.Context, s *scene.Scene, cfg Config, logger *slog.Logger) (*renderer.Framebuffer, renderer.RenderStats, error) {
	integ := integrator.NewPathTracingIntegrator(s.GetBackground())
	sampling := s.GetSamplingConfig()

	if cfg.Passes <= 0 {
		fb, err := renderer.NewRaytracer(s, integ).RenderPass()
		if err != nil {
			return nil, renderer.RenderStats{}, err
		}
		return fb, fb.Stats(sampling.SamplesPerPixel), nil
	}

	config := renderer.ProgressiveConfig{
		TileSize:           cfg.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sampling.SamplesPerPixel,
		MaxPasses:          cfg.Passes,
		NumWorkers:         cfg.Workers,
	}
	pr, err := renderer.NewProgressiveRaytracer(s, config, integ, renderer.NewDefaultLogger(logger))
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last *renderer.PassResult
	for pass := range passChan {
		logger.Debug("pass finished",
			"pass", pass.PassNumber,
			"avg_samples", pass.Stats.AverageSamples,
			"luminance", renderer.CalculateAverageLuminance(pass.Frame.Image()))
		last = &pass
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last == nil {
		return nil, renderer.RenderStats{}, errors.New("renderer produced no passes")
	}
	return last.Frame, last.Stats, nil
}

// stdoutPath as the -out value streams the image to stdout
const stdoutPath = "-"

// resolveOutput decides the output format and path from -format and -out.
// Without either the render is written as PPM.
func resolveOutput(cfg Config) (output.Format, string, error) {
	var format output.Format
	var err error

	switch {
	case cfg.Format != "":
		format, err = output.ParseFormat(cfg.Format)
	case cfg.Out != "" && cfg.Out != stdoutPath:
		format, err = output.FormatFromPath(cfg.Out)
	default:
		format = output.FormatPPM
	}
	if err != nil {
		return "", "", err
	}

	outPath := cfg.Out
	if outPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outPath = filepath.Join(createOutputDir(cfg.Scene), fmt.Sprintf("render_%s.%s", timestamp, format))
	}
	return format, outPath, nil
}

// writeOutput encodes fb into the file at path. A partially written file is
// removed on failure.
func writeOutput(path string, format output.Format, fb *renderer.Framebuffer, cfg Config, logger *slog.Logger) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	err = encodeOutput(file, format, fb, cfg, logger)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func encodeOutput(w io.Writer, format output.Format, fb *renderer.Framebuffer, cfg Config, logger *slog.Logger) error {
	if format == output.FormatPPM {
		if cfg.Tiles || cfg.Scale != 1 {
			logger.Warn("ppm output ignores -tiles and -scale")
		}
		return output.WritePPM(w, fb)
	}

	var img image.Image = fb.Image()
	if cfg.Tiles {
		var bounds []image.Rectangle
		for _, tile := range renderer.NewTileGrid(fb.Width, fb.Height, cfg.TileSize, 0) {
			bounds = append(bounds, tile.Bounds)
		}
		var err error
		if img, err = output.DrawTileGrid(img, bounds); err != nil {
			return err
		}
	}
	if cfg.Scale != 1 {
		img = output.Scale(img, cfg.Scale)
	}
	return output.EncodeImage(w, img, format)
}

// createScene builds a built-in scene by name, or loads a .json scene file
func createScene(sceneType string, seed int64) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name cannot be empty: %w", scene.ErrUnknownScene)
	}
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		return loaders.LoadScene(sceneType)
	}
	return scene.New(sceneType, seed, renderer.CameraConfig{})
}

// createOutputDir returns output/<scene> where scene is the built-in name or
// the scene file's base name
func createOutputDir(sceneType string) string {
	base := filepath.Base(sceneType)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}
