package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// keyActions are the viewer shortcuts. Esc is left to ImGui.
var keyActions = map[imgui.Key]controls.Action{
	imgui.KeyV:            controls.ActionToggleVariant,
	imgui.KeyLeftBracket:  controls.ActionMinAngleDown,
	imgui.KeyRightBracket: controls.ActionMinAngleUp,
	imgui.KeyMinus:        controls.ActionMaxAngleDown,
	imgui.KeyEqual:        controls.ActionMaxAngleUp,
	imgui.KeyM:            controls.ActionToggleMesh,
	imgui.KeyO:            controls.ActionToggleOutline,
	imgui.Key1:            controls.ActionShapeTorus,
	imgui.Key2:            controls.ActionShapeSphere,
	imgui.Key3:            controls.ActionShapeBox,
	imgui.KeyComma:        controls.ActionLineWidthDown,
	imgui.KeyPeriod:       controls.ActionLineWidthUp,
	imgui.KeyF12:          controls.ActionScreenshot,
}

var (
	variants = []visibility.Variant{visibility.VariantBand, visibility.VariantCollapse}
	shapes   = []string{config.ShapeTorus, config.ShapeSphere, config.ShapeBox}
)

var variantLabels = map[visibility.Variant]string{
	visibility.VariantBand:     "Band discard",
	visibility.VariantCollapse: "Projected collapse",
}

// renderControls draws the settings panel.
func (app *App) renderControls() {
	state := &app.session.State

	imgui.Text("Display")
	imgui.Checkbox("Mesh", &state.ShowMesh)
	imgui.SameLine()
	imgui.Checkbox("Outline", &state.ShowOutline)

	meshColor := state.MeshColor.Array()
	if imgui.ColorEdit3("Mesh color", &meshColor) {
		state.MeshColor = visibility.RGB{R: meshColor[0], G: meshColor[1], B: meshColor[2]}
	}
	outlineColor := state.Params.Color.Array()
	if imgui.ColorEdit3("Outline color", &outlineColor) {
		state.Params.Color = visibility.RGB{R: outlineColor[0], G: outlineColor[1], B: outlineColor[2]}
	}

	imgui.Spacing()
	imgui.Separator()
	imgui.Text("Outline")

	if imgui.BeginCombo("Variant", variantLabels[state.Variant]) {
		for _, v := range variants {
			if imgui.SelectableBoolV(variantLabels[v], v == state.Variant, 0, imgui.NewVec2(0, 0)) {
				state.Variant = v
			}
		}
		imgui.EndCombo()
	}

	imgui.SliderFloatV("Min angle", &state.Params.MinAngle, 0, controls.MaxAngle, "%.1f°", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Max angle", &state.Params.MaxAngle, 0, controls.MaxAngle, "%.1f°", imgui.SliderFlagsNone)
	if state.Params.MinAngle > state.Params.MaxAngle {
		imgui.TextColored(imgui.NewVec4(1, 0.7, 0.3, 1), "Min exceeds max: band is empty")
	}

	imgui.BeginDisabledV(state.Variant != visibility.VariantCollapse)
	imgui.SliderFloatV("Line width", &state.LineWidth, controls.MinLineWidth, controls.MaxLineWidth, "%.1f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Opacity", &state.Params.Opacity, 0, 1, "%.2f", imgui.SliderFlagsNone)
	imgui.EndDisabled()

	imgui.Spacing()
	imgui.Separator()
	imgui.Text("Mesh")

	source := app.session.Source()
	preview := source.Name()
	if imgui.BeginCombo("Shape", preview) {
		for _, shape := range shapes {
			if imgui.SelectableBoolV(shape, source.Path == "" && shape == state.Shape, 0, imgui.NewVec2(0, 0)) {
				app.session.LoadShape(shape)
			}
		}
		imgui.EndCombo()
	}
	if imgui.Button("Open model…") {
		app.openModelDialog()
	}
	if app.session.Loading() {
		imgui.SameLine()
		imgui.TextDisabled("loading...")
	}

	imgui.Spacing()
	imgui.Separator()

	if imgui.Button("Screenshot (F12)") {
		app.screenshotRequested = true
	}
	imgui.SameLine()
	if imgui.Button("Save settings") {
		app.saveSettings()
	}
	if imgui.Button("Reset view") {
		*app.session.Camera = *camera.FromConfig(app.cfg.Camera)
		if lo, hi, ok := app.session.Scene.Bounds(); ok && app.session.Source().Path != "" {
			app.session.Camera.FitToBounds(lo, hi)
		}
	}

	imgui.Spacing()
	imgui.Separator()
	app.renderStats()
}

// renderStats shows the extracted outline and the CPU visibility estimate.
func (app *App) renderStats() {
	totals := app.session.Scene.Totals()
	imgui.Text(fmt.Sprintf("Triangles: %d", totals.Triangles))
	imgui.Text(fmt.Sprintf("Segments: %d", totals.Segments))
	if totals.Degenerate > 0 {
		imgui.TextDisabled(fmt.Sprintf("Degenerate: %d", totals.Degenerate))
	}

	unit := "segments"
	if app.session.State.Variant == visibility.VariantBand {
		unit = "vertices"
	}
	imgui.Text(fmt.Sprintf("Visible: ~%d / %d %s", app.visible, app.total, unit))
}

// renderStatusBar renders the camera readout and transient messages.
func (app *App) renderStatusBar() {
	pos := app.session.Camera.Position()
	imgui.Text(fmt.Sprintf("Camera (%.1f, %.1f, %.1f)", pos.X, pos.Y, pos.Z))
	imgui.SameLine()
	imgui.TextDisabled("| drag to orbit, scroll to zoom")

	if app.status != "" && time.Since(app.statusTime) < statusTimeout {
		imgui.SameLine()
		imgui.Text("| " + app.status)
	}
}
