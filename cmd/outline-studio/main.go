// Outline Studio - an ImGui front end for tuning silhouette outlines.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
)

func main() {
	runtime.LockOSThread()

	fontPath := flag.String("font", "", "TTF font for the control panel")
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

	logger.Info("=== Outline Studio ===")

	app, err := NewApp(cfg, *fontPath)
	if err != nil {
		logger.Error("failed to create studio", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}
