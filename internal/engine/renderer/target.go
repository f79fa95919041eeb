package renderer

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/internal/engine/framebuffer"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
)

// TargetConfig contains offscreen target options.
type TargetConfig struct {
	Width   int32
	Height  int32
	Samples int32
}

// DefaultTargetConfig returns a 1280x720 target with 4x MSAA.
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		Width:   1280,
		Height:  720,
		Samples: 4,
	}
}

// Target renders a scene into an offscreen framebuffer whose color
// texture can be shown by the UI or read back for screenshots.
type Target struct {
	config      TargetConfig
	framebuffer *framebuffer.Framebuffer
	renderer    *Renderer
}

// NewTarget creates a renderer and its framebuffer.
// Must be called with a current OpenGL context.
func NewTarget(cfg TargetConfig) (*Target, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}

	fb, err := framebuffer.New(cfg.Width, cfg.Height, cfg.Samples)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	return &Target{config: cfg, framebuffer: fb, renderer: r}, nil
}

// Render draws sc into the framebuffer and returns the color texture.
func (t *Target) Render(sc *scene.Scene, cam *camera.OrbitCamera, state controls.State) uint32 {
	restore := t.framebuffer.BindWithViewport()
	defer restore()

	width, height := t.framebuffer.Size()
	t.renderer.Render(sc, cam, state, int(width), int(height))
	return t.framebuffer.ColorTexture()
}

// Resize updates the target dimensions.
func (t *Target) Resize(width, height int32) {
	if width == t.config.Width && height == t.config.Height {
		return
	}
	t.config.Width = width
	t.config.Height = height
	t.framebuffer.Resize(width, height)
}

// Size returns the target dimensions in pixels.
func (t *Target) Size() (width, height int32) {
	return t.framebuffer.Size()
}

// ColorTexture returns the rendered color texture.
func (t *Target) ColorTexture() uint32 {
	return t.framebuffer.ColorTexture()
}

// ReadPixels returns the last rendered frame as bottom-up RGBA rows.
func (t *Target) ReadPixels() ([]byte, int, int) {
	width, height := t.framebuffer.Size()
	return t.framebuffer.ReadPixels(), int(width), int(height)
}

// Destroy releases all resources.
func (t *Target) Destroy() {
	if t.renderer != nil {
		t.renderer.Close()
	}
	if t.framebuffer != nil {
		t.framebuffer.Destroy()
	}
}
