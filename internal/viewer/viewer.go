// Package viewer implements the keyboard-driven outline viewer window.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/input"
	"github.com/aalavandhaann/mesh-outline/internal/engine/renderer"
	"github.com/aalavandhaann/mesh-outline/internal/engine/screenshot"
	"github.com/aalavandhaann/mesh-outline/internal/engine/window"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/session"
)

// AppName is shown at the start of the window title.
const AppName = "Mesh Outline"

// Samples is the MSAA sample count requested for the window.
const Samples = 4

// keyActions maps keys to control actions.
var keyActions = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_V:            controls.ActionToggleVariant,
	sdl.SCANCODE_LEFTBRACKET:  controls.ActionMinAngleDown,
	sdl.SCANCODE_RIGHTBRACKET: controls.ActionMinAngleUp,
	sdl.SCANCODE_MINUS:        controls.ActionMaxAngleDown,
	sdl.SCANCODE_EQUALS:       controls.ActionMaxAngleUp,
	sdl.SCANCODE_M:            controls.ActionToggleMesh,
	sdl.SCANCODE_O:            controls.ActionToggleOutline,
	sdl.SCANCODE_1:            controls.ActionShapeTorus,
	sdl.SCANCODE_2:            controls.ActionShapeSphere,
	sdl.SCANCODE_3:            controls.ActionShapeBox,
	sdl.SCANCODE_COMMA:        controls.ActionLineWidthDown,
	sdl.SCANCODE_PERIOD:       controls.ActionLineWidthUp,
	sdl.SCANCODE_F12:          controls.ActionScreenshot,
	sdl.SCANCODE_ESCAPE:       controls.ActionQuit,
}

// repeatable lists the actions that follow key auto-repeat.
var repeatable = map[controls.Action]bool{
	controls.ActionMinAngleDown:  true,
	controls.ActionMinAngleUp:    true,
	controls.ActionMaxAngleDown:  true,
	controls.ActionMaxAngleUp:    true,
	controls.ActionLineWidthDown: true,
	controls.ActionLineWidthUp:   true,
}

// ActionForKey returns the action bound to a key press.
func ActionForKey(key sdl.Scancode, repeat bool) controls.Action {
	a, ok := keyActions[key]
	if !ok {
		return controls.ActionNone
	}
	if repeat && !repeatable[a] {
		return controls.ActionNone
	}
	return a
}

// Viewer is the main viewer instance.
type Viewer struct {
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *session.Session
	capture  *screenshot.Capture
	title    string
	log      *zap.Logger
}

// New creates the window, renderer and session.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		capture: screenshot.New(cfg.Graphics.ScreenshotDir, "outline"),
		log:     logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("variant", cfg.Outline.Variant),
	)

	var err error
	v.session, err = session.New(cfg)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      AppName,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    Samples,
	})
	if err != nil {
		v.session.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New()
	if err != nil {
		v.window.Close()
		v.session.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()

	v.log.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}

		screenshotRequested := false
		for _, event := range v.input.Events() {
			if event.Type != input.EventKeyDown {
				continue
			}
			switch v.session.Apply(ActionForKey(event.Key, event.Repeat)) {
			case controls.EffectScreenshot:
				screenshotRequested = true
			case controls.EffectQuit:
				v.running = false
			}
		}

		dx, dy := v.input.Drag()
		if dx != 0 || dy != 0 {
			v.session.Camera.HandleDrag(dx, dy)
		}
		if wheel := v.input.Wheel(); wheel != 0 {
			v.session.Camera.HandleZoom(wheel)
		}

		v.session.Update()
		if err := v.session.Err(); err != nil {
			v.log.Debug("last load failed", zap.Error(err))
		}
		v.updateTitle()

		width, height := v.window.DrawableSize()
		v.renderer.Render(v.session.Scene, v.session.Camera, v.session.State, width, height)

		// Read back before the swap leaves the back buffer undefined.
		if screenshotRequested {
			v.screenshot(width, height)
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) updateTitle() {
	title := v.session.Title(AppName)
	if title != v.title {
		v.window.SetTitle(title)
		v.title = title
	}
}

func (v *Viewer) screenshot(width, height int) {
	pixels := renderer.ReadBackBuffer(width, height)
	filename, err := v.capture.FromPixels(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", filename))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.session != nil {
		v.session.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
