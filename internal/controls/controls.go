// Package controls holds the interactive outline settings shared by the
// viewer and the studio, and the actions that change them.
package controls

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// Step sizes and limits of the keyboard actions.
const (
	AngleStep     = 1
	LineWidthStep = 0.5
	MinLineWidth  = 1
	MaxLineWidth  = 5
	MaxAngle      = 180
)

// Action is one user command.
type Action int

const (
	ActionNone Action = iota
	ActionToggleVariant
	ActionMinAngleDown
	ActionMinAngleUp
	ActionMaxAngleDown
	ActionMaxAngleUp
	ActionToggleMesh
	ActionToggleOutline
	ActionShapeTorus
	ActionShapeSphere
	ActionShapeBox
	ActionLineWidthDown
	ActionLineWidthUp
	ActionScreenshot
	ActionQuit
)

// Effect tells the caller what to do after an action beyond redrawing.
type Effect int

const (
	EffectNone Effect = iota
	EffectReloadMesh
	EffectScreenshot
	EffectQuit
)

// State is the current outline and display configuration.
type State struct {
	Variant     visibility.Variant
	Params      visibility.Params
	LineWidth   float32
	ShowMesh    bool
	ShowOutline bool
	MeshColor   visibility.RGB
	ClearColor  visibility.RGB
	Shape       string
}

// FromConfig builds the initial state from a validated config.
func FromConfig(cfg *config.Config) (State, error) {
	variant, err := cfg.Outline.ParsedVariant()
	if err != nil {
		return State{}, err
	}
	params, err := cfg.Outline.Params()
	if err != nil {
		return State{}, err
	}
	meshColor, err := visibility.ParseHex(cfg.Outline.MeshColor)
	if err != nil {
		return State{}, fmt.Errorf("%w: outline.mesh_color: %v", config.ErrInvalidConfig, err)
	}
	clearColor, err := visibility.ParseHex(cfg.Graphics.ClearColor)
	if err != nil {
		return State{}, fmt.Errorf("%w: graphics.clear_color: %v", config.ErrInvalidConfig, err)
	}

	return State{
		Variant:     variant,
		Params:      params,
		LineWidth:   cfg.Outline.LineWidth,
		ShowMesh:    cfg.Outline.ShowMesh,
		ShowOutline: cfg.Outline.ShowOutline,
		MeshColor:   meshColor,
		ClearColor:  clearColor,
		Shape:       cfg.Mesh.Shape,
	}, nil
}

// Store writes the state back into cfg so it can be saved.
func (s State) Store(cfg *config.Config) {
	cfg.Outline.Variant = string(s.Variant)
	cfg.Outline.MinAngle = s.Params.MinAngle
	cfg.Outline.MaxAngle = s.Params.MaxAngle
	cfg.Outline.Color = s.Params.Color.Hex()
	cfg.Outline.Opacity = s.Params.Opacity
	cfg.Outline.LineWidth = s.LineWidth
	cfg.Outline.ShowMesh = s.ShowMesh
	cfg.Outline.ShowOutline = s.ShowOutline
	cfg.Outline.MeshColor = s.MeshColor.Hex()
	cfg.Graphics.ClearColor = s.ClearColor.Hex()
	cfg.Mesh.Shape = s.Shape
}

// Policy returns the visibility policy of the current variant.
func (s State) Policy() visibility.Policy {
	p, err := visibility.New(s.Variant)
	if err != nil {
		// Variant is only ever set from ParseVariant or the toggle.
		panic(err)
	}
	return p
}

// Apply performs a and reports the follow-up the caller must handle.
// Angles are kept within [0, 180] and line width within [1, 5]; the
// thresholds themselves may cross, which yields an empty band.
func (s *State) Apply(a Action) Effect {
	switch a {
	case ActionToggleVariant:
		if s.Variant == visibility.VariantBand {
			s.Variant = visibility.VariantCollapse
		} else {
			s.Variant = visibility.VariantBand
		}
	case ActionMinAngleDown:
		s.Params.MinAngle = clampAngle(s.Params.MinAngle - AngleStep)
	case ActionMinAngleUp:
		s.Params.MinAngle = clampAngle(s.Params.MinAngle + AngleStep)
	case ActionMaxAngleDown:
		s.Params.MaxAngle = clampAngle(s.Params.MaxAngle - AngleStep)
	case ActionMaxAngleUp:
		s.Params.MaxAngle = clampAngle(s.Params.MaxAngle + AngleStep)
	case ActionToggleMesh:
		s.ShowMesh = !s.ShowMesh
	case ActionToggleOutline:
		s.ShowOutline = !s.ShowOutline
	case ActionShapeTorus:
		return s.setShape(config.ShapeTorus)
	case ActionShapeSphere:
		return s.setShape(config.ShapeSphere)
	case ActionShapeBox:
		return s.setShape(config.ShapeBox)
	case ActionLineWidthDown:
		s.LineWidth = max(s.LineWidth-LineWidthStep, MinLineWidth)
	case ActionLineWidthUp:
		s.LineWidth = min(s.LineWidth+LineWidthStep, MaxLineWidth)
	case ActionScreenshot:
		return EffectScreenshot
	case ActionQuit:
		return EffectQuit
	}
	return EffectNone
}

func (s *State) setShape(shape string) Effect {
	if s.Shape == shape {
		return EffectNone
	}
	s.Shape = shape
	return EffectReloadMesh
}

// Title summarises the state for a window title.
func (s State) Title(app string) string {
	return fmt.Sprintf("%s | %s %.0f°-%.0f° | %s", app, s.Variant, s.Params.MinAngle, s.Params.MaxAngle, s.Shape)
}

func clampAngle(deg float32) float32 {
	return min(max(deg, 0), MaxAngle)
}
