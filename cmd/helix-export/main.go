// Package main is the headless STL exporter. It builds the demo design
// and writes it through the raw instance pathway without opening a
// window or touching the GPU.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/strandlab/helixview/internal/config"
	"github.com/strandlab/helixview/internal/design"
	"github.com/strandlab/helixview/internal/engine/export"
	"github.com/strandlab/helixview/internal/logger"
	"github.com/strandlab/helixview/pkg/stl"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records := design.DoubleHelix(design.DefaultParams())
	logger.Info("design built", zap.Int("instances", len(records)))

	start := time.Now()
	triangles, err := export.Instances(ctx, records, export.References())
	if err != nil {
		logger.Error("triangulation failed", zap.Error(err))
		os.Exit(1)
	}

	path := cfg.Export.OutputPath
	if err := stl.WriteFile(path, triangles); err != nil {
		logger.Error("write failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("design exported",
		zap.String("path", path),
		zap.Int("triangles", len(triangles)),
		zap.Int("bytes", stl.Size(len(triangles))),
		zap.Duration("elapsed", time.Since(start)),
	)
}
