package config

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagVariant    = flag.String("variant", "", "Visibility variant: band or collapse")
	flagShape      = flag.String("shape", "", "Startup shape: torus, sphere or box")
	flagModel      = flag.String("model", "", "Model file to load (glTF, GLB or binary STL)")
	flagMinAngle   = flag.String("min-angle", "", "Minimum threshold angle in degrees")
	flagMaxAngle   = flag.String("max-angle", "", "Maximum threshold angle in degrees")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagVariant != "" {
		cfg.Outline.Variant = *flagVariant
	}
	if *flagShape != "" {
		cfg.Mesh.Shape = *flagShape
	}
	if *flagModel != "" {
		cfg.Mesh.Model = *flagModel
	}
	if *flagMinAngle != "" {
		v, err := parseAngle("min-angle", *flagMinAngle)
		if err != nil {
			return err
		}
		cfg.Outline.MinAngle = v
	}
	if *flagMaxAngle != "" {
		v, err := parseAngle("max-angle", *flagMaxAngle)
		if err != nil {
			return err
		}
		cfg.Outline.MaxAngle = v
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	return nil
}

func parseAngle(name, s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("-%s: %w", name, err)
	}
	return float32(v), nil
}
