package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	sceneDir := flag.String("scenes", "scenes", "Directory of JSON scene files")
	staticDir := flag.String("static", "static", "Directory of browser assets")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	webServer := server.NewServer(*port, *sceneDir, *staticDir, logger)

	logger.Info("path tracer web server", "url", "http://localhost:"+strconv.Itoa(*port))

	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
