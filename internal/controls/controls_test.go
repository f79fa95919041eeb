package controls

import (
	"errors"
	"testing"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

func defaultState(t *testing.T) State {
	t.Helper()
	s, err := FromConfig(config.Default())
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	return s
}

func TestFromConfig(t *testing.T) {
	s := defaultState(t)

	if s.Variant != visibility.VariantCollapse {
		t.Errorf("Variant = %q, want collapse", s.Variant)
	}
	if s.Params.MinAngle != 0 || s.Params.MaxAngle != 90 {
		t.Errorf("band = %v..%v, want 0..90", s.Params.MinAngle, s.Params.MaxAngle)
	}
	if s.LineWidth != 3 || !s.ShowMesh || !s.ShowOutline {
		t.Errorf("display = %+v", s)
	}
	if s.MeshColor.Hex() != "#00ff00" || s.ClearColor.Hex() != "#444444" {
		t.Errorf("colors = %s / %s", s.MeshColor.Hex(), s.ClearColor.Hex())
	}
	if s.Shape != config.ShapeTorus {
		t.Errorf("Shape = %q, want torus", s.Shape)
	}
}

func TestFromConfigInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Outline.MeshColor = "green"
	if _, err := FromConfig(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("FromConfig() error = %v, want ErrInvalidConfig", err)
	}

	cfg = config.Default()
	cfg.Outline.Variant = "glow"
	if _, err := FromConfig(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("FromConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*State)
		action Action
		effect Effect
		verify func(t *testing.T, s State)
	}{
		{
			name:   "toggle variant",
			action: ActionToggleVariant,
			verify: func(t *testing.T, s State) {
				if s.Variant != visibility.VariantBand {
					t.Errorf("Variant = %q, want band", s.Variant)
				}
			},
		},
		{
			name:   "min angle clamps at zero",
			action: ActionMinAngleDown,
			verify: func(t *testing.T, s State) {
				if s.Params.MinAngle != 0 {
					t.Errorf("MinAngle = %v, want 0", s.Params.MinAngle)
				}
			},
		},
		{
			name:   "min angle up",
			action: ActionMinAngleUp,
			verify: func(t *testing.T, s State) {
				if s.Params.MinAngle != 1 {
					t.Errorf("MinAngle = %v, want 1", s.Params.MinAngle)
				}
			},
		},
		{
			name:   "max angle clamps at 180",
			setup:  func(s *State) { s.Params.MaxAngle = 179.5 },
			action: ActionMaxAngleUp,
			verify: func(t *testing.T, s State) {
				if s.Params.MaxAngle != 180 {
					t.Errorf("MaxAngle = %v, want 180", s.Params.MaxAngle)
				}
			},
		},
		{
			name:   "max angle down",
			action: ActionMaxAngleDown,
			verify: func(t *testing.T, s State) {
				if s.Params.MaxAngle != 89 {
					t.Errorf("MaxAngle = %v, want 89", s.Params.MaxAngle)
				}
			},
		},
		{
			name:   "toggle mesh",
			action: ActionToggleMesh,
			verify: func(t *testing.T, s State) {
				if s.ShowMesh {
					t.Error("ShowMesh should be off")
				}
			},
		},
		{
			name:   "toggle outline",
			action: ActionToggleOutline,
			verify: func(t *testing.T, s State) {
				if s.ShowOutline {
					t.Error("ShowOutline should be off")
				}
			},
		},
		{
			name:   "switch shape",
			action: ActionShapeBox,
			effect: EffectReloadMesh,
			verify: func(t *testing.T, s State) {
				if s.Shape != config.ShapeBox {
					t.Errorf("Shape = %q, want box", s.Shape)
				}
			},
		},
		{
			name:   "same shape is a no-op",
			action: ActionShapeTorus,
			effect: EffectNone,
		},
		{
			name:   "line width clamps",
			setup:  func(s *State) { s.LineWidth = 4.8 },
			action: ActionLineWidthUp,
			verify: func(t *testing.T, s State) {
				if s.LineWidth != MaxLineWidth {
					t.Errorf("LineWidth = %v, want %v", s.LineWidth, MaxLineWidth)
				}
			},
		},
		{
			name:   "line width down",
			action: ActionLineWidthDown,
			verify: func(t *testing.T, s State) {
				if s.LineWidth != 2.5 {
					t.Errorf("LineWidth = %v, want 2.5", s.LineWidth)
				}
			},
		},
		{name: "screenshot", action: ActionScreenshot, effect: EffectScreenshot},
		{name: "quit", action: ActionQuit, effect: EffectQuit},
		{name: "none", action: ActionNone, effect: EffectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultState(t)
			if tt.setup != nil {
				tt.setup(&s)
			}
			if got := s.Apply(tt.action); got != tt.effect {
				t.Errorf("Apply() effect = %v, want %v", got, tt.effect)
			}
			if tt.verify != nil {
				tt.verify(t, s)
			}
		})
	}
}

func TestToggleVariantTwice(t *testing.T) {
	s := defaultState(t)
	s.Apply(ActionToggleVariant)
	s.Apply(ActionToggleVariant)
	if s.Variant != visibility.VariantCollapse {
		t.Errorf("Variant = %q, want collapse", s.Variant)
	}
	if s.Policy().Variant() != visibility.VariantCollapse {
		t.Error("Policy() does not match Variant")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := defaultState(t)
	s.Apply(ActionToggleVariant)
	s.Apply(ActionMinAngleUp)
	s.Apply(ActionShapeSphere)
	s.Params.Color = visibility.MustParseHex("#ff8800")

	cfg := config.Default()
	s.Store(cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("stored config invalid: %v", err)
	}

	back, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}

func TestTitle(t *testing.T) {
	s := defaultState(t)
	want := "outline | collapse 0°-90° | torus"
	if got := s.Title("outline"); got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
}
