// Package config handles viewer and tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// Shape names accepted by MeshConfig.Shape.
const (
	ShapeTorus  = "torus"
	ShapeSphere = "sphere"
	ShapeBox    = "box"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Outline  OutlineConfig  `yaml:"outline"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	ClearColor    string `yaml:"clear_color"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// OutlineConfig holds the classification band and line material.
type OutlineConfig struct {
	Variant     string  `yaml:"variant"`   // "band" or "collapse"
	MinAngle    float32 `yaml:"min_angle"` // degrees
	MaxAngle    float32 `yaml:"max_angle"` // degrees
	Color       string  `yaml:"color"`
	Opacity     float32 `yaml:"opacity"`
	LineWidth   float32 `yaml:"line_width"`
	ShowMesh    bool    `yaml:"show_mesh"`
	ShowOutline bool    `yaml:"show_outline"`
	MeshColor   string  `yaml:"mesh_color"`
}

// MeshConfig selects the geometry shown at startup.
type MeshConfig struct {
	Shape  string       `yaml:"shape"`
	Model  string       `yaml:"model"` // glTF/GLB/STL path, overrides Shape
	Scale  float32      `yaml:"scale"`
	Torus  TorusConfig  `yaml:"torus"`
	Sphere SphereConfig `yaml:"sphere"`
	Box    BoxConfig    `yaml:"box"`
}

// TorusConfig mirrors geometry.TorusOptions.
type TorusConfig struct {
	Radius          float32 `yaml:"radius"`
	Tube            float32 `yaml:"tube"`
	RadialSegments  int     `yaml:"radial_segments"`
	TubularSegments int     `yaml:"tubular_segments"`
}

// SphereConfig holds sphere parameters.
type SphereConfig struct {
	Radius         float32 `yaml:"radius"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
}

// BoxConfig holds box dimensions.
type BoxConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Depth  float32 `yaml:"depth"`
}

// CameraConfig holds the perspective projection and initial orbit.
// Angles are in degrees.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"`
	Pitch    float32 `yaml:"pitch"`
	Yaw      float32 `yaml:"yaw"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ClearColor:    "#444444",
			ScreenshotDir: "screenshots",
		},
		Outline: OutlineConfig{
			Variant:     string(visibility.VariantCollapse),
			MinAngle:    0,
			MaxAngle:    90,
			Color:       "#ffffff",
			Opacity:     1,
			LineWidth:   3,
			ShowMesh:    true,
			ShowOutline: true,
			MeshColor:   "#00ff00",
		},
		Mesh: MeshConfig{
			Shape: ShapeTorus,
			Scale: 1,
			Torus: TorusConfig{
				Radius:          3,
				Tube:            1,
				RadialSegments:  12,
				TubularSegments: 48,
			},
			Sphere: SphereConfig{
				Radius:         5,
				WidthSegments:  10,
				HeightSegments: 10,
			},
			Box: BoxConfig{Width: 5, Height: 5, Depth: 5},
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     1,
			Far:      1000,
			Distance: 28.72,
			Pitch:    10,
			Yaw:      45,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would otherwise fail later in the render loop.
// Angle thresholds are not range checked.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Graphics.Width, c.Graphics.Height)
	}
	if _, err := visibility.ParseHex(c.Graphics.ClearColor); err != nil {
		return fmt.Errorf("%w: graphics.clear_color: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Outline.Params(); err != nil {
		return err
	}
	if _, err := visibility.ParseHex(c.Outline.MeshColor); err != nil {
		return fmt.Errorf("%w: outline.mesh_color: %v", ErrInvalidConfig, err)
	}
	if c.Mesh.Model == "" {
		switch c.Mesh.Shape {
		case ShapeTorus, ShapeSphere, ShapeBox:
		default:
			return fmt.Errorf("%w: unknown shape %q", ErrInvalidConfig, c.Mesh.Shape)
		}
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip range %v..%v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	return nil
}

// ParsedVariant returns the configured visibility variant.
func (o OutlineConfig) ParsedVariant() (visibility.Variant, error) {
	v, err := visibility.ParseVariant(o.Variant)
	if err != nil {
		return "", fmt.Errorf("%w: outline.variant: %v", ErrInvalidConfig, err)
	}
	return v, nil
}

// Params converts the outline section to classification parameters.
func (o OutlineConfig) Params() (visibility.Params, error) {
	if _, err := o.ParsedVariant(); err != nil {
		return visibility.Params{}, err
	}
	color, err := visibility.ParseHex(o.Color)
	if err != nil {
		return visibility.Params{}, fmt.Errorf("%w: outline.color: %v", ErrInvalidConfig, err)
	}
	return visibility.Params{
		MinAngle: o.MinAngle,
		MaxAngle: o.MaxAngle,
		Color:    color,
		Opacity:  o.Opacity,
	}, nil
}
