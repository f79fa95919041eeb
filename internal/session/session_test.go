package session

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// waitLoaded polls Update until the pending load has been handled.
func waitLoaded(t *testing.T, s *Session) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for s.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for mesh load")
		}
		s.Update()
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSessionLoadsConfiguredShape(t *testing.T) {
	s := newSession(t)
	if !s.Loading() {
		t.Fatal("Loading() = false right after New")
	}
	if !strings.HasSuffix(s.Title("viewer"), "(loading)") {
		t.Errorf("Title() = %q, want loading suffix", s.Title("viewer"))
	}

	waitLoaded(t, s)
	if s.Err() != nil {
		t.Fatalf("Err() = %v", s.Err())
	}
	if s.Scene.Len() != 1 || s.Scene.Find("torus") == nil {
		t.Fatalf("scene = %d nodes, want the torus", s.Scene.Len())
	}

	// Shapes keep the configured camera.
	pos := s.Camera.Position()
	if pos.X < 19 || pos.X > 21 || pos.Y < 4 || pos.Y > 6 {
		t.Errorf("camera position = %+v, want about (20, 5, 20)", pos)
	}
}

func TestSessionApplyReloadsShape(t *testing.T) {
	s := newSession(t)
	waitLoaded(t, s)

	if effect := s.Apply(controls.ActionShapeBox); effect != controls.EffectNone {
		t.Errorf("Apply(ShapeBox) effect = %v, want none", effect)
	}
	if !s.Loading() {
		t.Fatal("Loading() = false after shape change")
	}
	waitLoaded(t, s)

	if s.Scene.Len() != 1 || s.Scene.Find("box") == nil {
		t.Fatalf("scene after shape change has %d nodes, want only the box", s.Scene.Len())
	}
	if got := s.Scene.Totals().Segments; got != 36 {
		t.Errorf("box segments = %d, want 36", got)
	}

	if effect := s.Apply(controls.ActionScreenshot); effect != controls.EffectScreenshot {
		t.Errorf("Apply(Screenshot) effect = %v", effect)
	}
}

func TestSessionSupersededLoad(t *testing.T) {
	s := newSession(t)
	s.LoadShape(config.ShapeSphere)
	s.LoadShape(config.ShapeBox)
	waitLoaded(t, s)

	if s.Scene.Find("box") == nil || s.Scene.Len() != 1 {
		t.Errorf("scene does not hold only the last requested shape")
	}
	if s.State.Shape != config.ShapeBox {
		t.Errorf("State.Shape = %q, want box", s.State.Shape)
	}
}

func TestSessionLoadModelError(t *testing.T) {
	s := newSession(t)
	waitLoaded(t, s)

	s.LoadModel(filepath.Join(t.TempDir(), "missing.glb"))
	waitLoaded(t, s)

	if s.Err() == nil {
		t.Fatal("Err() = nil after loading a missing model")
	}
	// The previous mesh stays on screen.
	if s.Scene.Find("torus") == nil {
		t.Error("failed load removed the previous mesh")
	}
	if !strings.Contains(s.Title("viewer"), "missing.glb") {
		t.Errorf("Title() = %q, want the model name", s.Title("viewer"))
	}
}

func TestSessionVisible(t *testing.T) {
	s := newSession(t)
	waitLoaded(t, s)

	for _, v := range []visibility.Variant{visibility.VariantCollapse, visibility.VariantBand} {
		s.State.Variant = v
		visible, total, err := s.Visible(16.0 / 9.0)
		if err != nil {
			t.Fatalf("%s: Visible() error = %v", v, err)
		}
		if visible <= 0 || visible >= total {
			t.Errorf("%s: visible = %d of %d, want a strict subset", v, visible, total)
		}
	}
}
