// Package session holds the state one interactive window works on: the
// outline settings, the scene, the orbit camera and the background mesh
// loader. It has no GL or windowing dependencies.
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/assets"
	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/orbit"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
)

// Session is the model behind the viewer and the studio.
// It must only be used from the render thread.
type Session struct {
	State  controls.State
	Scene  *scene.Scene
	Camera *camera.OrbitCamera

	source  assets.Source
	manager *assets.Manager
	loader  *assets.Loader
	cancel  context.CancelFunc
	loading bool

	// fit the camera to the next loaded node
	fitNext bool

	lastErr error
	log     *zap.Logger
}

// New creates a session from a validated config and starts loading the
// configured mesh.
func New(cfg *config.Config) (*Session, error) {
	state, err := controls.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	manager := assets.NewManager(nil)
	s := &Session{
		State:   state,
		Scene:   scene.New(),
		Camera:  camera.FromConfig(cfg.Camera),
		source:  assets.SourceFromConfig(cfg.Mesh),
		manager: manager,
		loader:  assets.NewLoader(manager, 4),
		log:     logger.Named("session"),
	}
	s.load(s.source)
	return s, nil
}

// Source returns the mesh source of the current or pending load.
func (s *Session) Source() assets.Source {
	return s.source
}

// LoadShape replaces the mesh with a procedural shape.
func (s *Session) LoadShape(shape string) {
	s.State.Shape = shape
	s.load(s.source.WithShape(shape))
}

// LoadModel replaces the mesh with the model file at path and frames it.
func (s *Session) LoadModel(path string) {
	s.load(s.source.WithPath(path))
}

// load starts loading src, superseding any load still in flight.
func (s *Session) load(src assets.Source) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.source = src
	s.loading = true
	s.fitNext = src.Path != ""

	s.log.Info("loading mesh", zap.String("name", src.Name()))
	s.loader.Load(ctx, src)
}

// Loading reports whether a load is in flight.
func (s *Session) Loading() bool {
	return s.loading
}

// Err returns the error of the most recent failed load, or nil.
func (s *Session) Err() error {
	return s.lastErr
}

// Update installs finished loads. It returns true if the scene changed.
func (s *Session) Update() bool {
	changed := false
	for {
		res, ok := s.loader.Poll()
		if !ok {
			return changed
		}
		if res.Source.Name() != s.source.Name() {
			// superseded before it was cancelled
			continue
		}
		s.loading = false
		if res.Err != nil {
			s.lastErr = res.Err
			continue
		}
		s.lastErr = nil

		s.Scene.Clear()
		if err := s.Scene.Add(res.Node); err != nil {
			s.lastErr = err
			continue
		}
		if s.fitNext {
			lo, hi := res.Node.Bounds()
			s.Camera.FitToBounds(lo, hi)
		}
		s.log.Info("mesh ready",
			zap.String("name", res.Node.Name),
			zap.Int("triangles", res.Node.Stats.Triangles),
			zap.Int("segments", res.Node.Stats.Segments))
		changed = true
	}
}

// Apply performs a control action and handles mesh reloads. Screenshot
// and quit effects are returned for the window to handle.
func (s *Session) Apply(a controls.Action) controls.Effect {
	effect := s.State.Apply(a)
	if effect == controls.EffectReloadMesh {
		s.load(s.source.WithShape(s.State.Shape))
		return controls.EffectNone
	}
	return effect
}

// Title returns the window title for app.
func (s *Session) Title(app string) string {
	title := s.State.Title(app)
	if s.source.Path != "" {
		title = fmt.Sprintf("%s | %s", title, s.source.Name())
	}
	if s.loading {
		title += " (loading)"
	}
	return title
}

// Visible classifies the scene for the current camera on the CPU and
// returns how many outline elements the active variant keeps, and out of
// how many. Counts are segments for collapse and mesh vertices for band.
func (s *Session) Visible(aspect float32) (visible, total int, err error) {
	path := orbit.Path{Camera: *s.Camera, Steps: 1, Aspect: aspect}
	policy := s.State.Policy()
	for _, node := range s.Scene.Nodes() {
		samples, err := orbit.Sweep(context.Background(), node, policy, s.State.Params, path, orbit.Options{Workers: 1})
		if err != nil {
			return 0, 0, err
		}
		visible += samples[0].Visible
		total += samples[0].Total
	}
	return visible, total, nil
}

// Close cancels pending loads and waits for the loader goroutines.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.loader.Wait()
	s.manager.Close()
}
