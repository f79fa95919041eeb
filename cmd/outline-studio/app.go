package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/renderer"
	"github.com/aalavandhaann/mesh-outline/internal/engine/screenshot"
	"github.com/aalavandhaann/mesh-outline/internal/engine/ui"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/session"
)

const (
	appName = "Outline Studio"

	panelWidth      = float32(300)
	statusBarHeight = float32(30)

	// How long a status message stays visible
	statusTimeout = 3 * time.Second

	// How often the CPU visibility estimate is refreshed
	estimateInterval = 250 * time.Millisecond
)

// App is the studio application state.
type App struct {
	cfg     *config.Config
	backend *ui.Backend
	session *session.Session
	target  *renderer.Target
	capture *screenshot.Capture

	// Paths picked in the file dialog, consumed on the render thread
	pendingModel chan string

	screenshotRequested bool
	lastMousePos        imgui.Vec2

	status      string
	statusTime  time.Time
	reportedErr error

	visible, total int
	estimateTime   time.Time

	title string
	log   *zap.Logger
}

// NewApp creates the window, the offscreen scene target and the session.
func NewApp(cfg *config.Config, fontPath string) (*App, error) {
	app := &App{
		cfg:          cfg,
		capture:      screenshot.New(cfg.Graphics.ScreenshotDir, "studio"),
		pendingModel: make(chan string, 1),
		log:          logger.Named("studio"),
	}

	var err error
	app.backend, err = ui.NewBackend(ui.Config{
		Title:    appName,
		Width:    cfg.Graphics.Width,
		Height:   cfg.Graphics.Height,
		FontPath: fontPath,
	})
	if err != nil {
		return nil, err
	}

	targetCfg := renderer.DefaultTargetConfig()
	targetCfg.Width = int32(cfg.Graphics.Width)
	targetCfg.Height = int32(cfg.Graphics.Height)
	app.target, err = renderer.NewTarget(targetCfg)
	if err != nil {
		return nil, fmt.Errorf("creating scene target: %w", err)
	}

	app.session, err = session.New(cfg)
	if err != nil {
		app.target.Destroy()
		return nil, err
	}

	return app, nil
}

// Run starts the main application loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// Close releases GL resources and stops background loads.
func (app *App) Close() {
	if app.session != nil {
		app.session.Close()
	}
	if app.target != nil {
		app.target.Destroy()
	}
}

// render draws one frame. Called by the backend with an ImGui frame open.
func (app *App) render() {
	select {
	case path := <-app.pendingModel:
		app.session.LoadModel(path)
	default:
	}

	if app.session.Update() {
		app.estimateTime = time.Time{}
	}
	if err := app.session.Err(); err != nil && err != app.reportedErr {
		app.reportedErr = err
		app.setStatus(fmt.Sprintf("Load failed: %v", err))
	}

	app.handleKeys()
	app.handleMouse()

	x, y, w, h := ui.Viewport()
	width, height := ui.FramebufferSize()
	if width > 0 && height > 0 {
		app.target.Resize(width, height)
	}
	texture := app.target.Render(app.session.Scene, app.session.Camera, app.session.State)

	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	ui.DrawSceneTexture(x, y, w, h, texture)
	app.updateEstimate(w / max(h, 1))

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse
	imgui.SetNextWindowPos(imgui.NewVec2(x+w-panelWidth, y))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, h-statusBarHeight))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("Controls", nil, flags) {
		app.renderControls()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y+h-statusBarHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(w, statusBarHeight))
	if imgui.BeginV("##StatusBar", nil, flags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		app.renderStatusBar()
	}
	imgui.End()

	if title := app.session.Title(appName); title != app.title {
		app.backend.SetWindowTitle(title)
		app.title = title
	}
}

// handleKeys applies the viewer shortcuts unless a widget has focus.
func (app *App) handleKeys() {
	if imgui.CurrentIO().WantCaptureKeyboard() {
		return
	}
	for key, action := range keyActions {
		if !ui.IsKeyPressed(key) {
			continue
		}
		if app.session.Apply(action) == controls.EffectScreenshot {
			app.screenshotRequested = true
		}
	}
}

// handleMouse orbits and zooms the camera from input outside the panels.
func (app *App) handleMouse() {
	io := imgui.CurrentIO()
	mousePos := imgui.MousePos()
	defer func() { app.lastMousePos = mousePos }()

	if io.WantCaptureMouse() {
		return
	}
	if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		app.session.Camera.HandleDrag(mousePos.X-app.lastMousePos.X, mousePos.Y-app.lastMousePos.Y)
	}
	if wheel := io.MouseWheel(); wheel != 0 {
		app.session.Camera.HandleZoom(wheel)
	}
}

// updateEstimate refreshes the CPU visibility count at a fixed interval.
func (app *App) updateEstimate(aspect float32) {
	if time.Since(app.estimateTime) < estimateInterval {
		return
	}
	app.estimateTime = time.Now()

	visible, total, err := app.session.Visible(aspect)
	if err != nil {
		app.log.Debug("visibility estimate failed", zap.Error(err))
		return
	}
	app.visible, app.total = visible, total
}

// openModelDialog shows a native file dialog to select a mesh file.
func (app *App) openModelDialog() {
	// The dialog blocks, so it runs off the render thread; the path is
	// handed back through pendingModel.
	go func() {
		filename, err := dialog.File().
			Filter("Meshes", "glb", "gltf", "stl").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}

		select {
		case app.pendingModel <- filename:
		default:
			app.log.Debug("dropping model selection, previous one still pending")
		}
	}()
}

// captureScreenshot saves the scene target without the UI.
func (app *App) captureScreenshot() {
	pixels, width, height := app.target.ReadPixels()
	filename, err := app.capture.FromPixels(pixels, width, height)
	if err != nil {
		app.log.Error("screenshot failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}
	app.log.Info("screenshot saved", zap.String("file", filename))
	app.setStatus(fmt.Sprintf("Saved: %s", filename))
}

// saveSettings writes the current state to the user config file.
func (app *App) saveSettings() {
	app.session.State.Store(app.cfg)
	app.cfg.Mesh.Model = app.session.Source().Path
	if err := app.cfg.Save(); err != nil {
		app.log.Error("saving settings failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Save failed: %v", err))
		return
	}
	app.setStatus("Settings saved")
}

func (app *App) setStatus(msg string) {
	app.status = msg
	app.statusTime = time.Now()
}
