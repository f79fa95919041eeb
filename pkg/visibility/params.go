package visibility

import "github.com/aalavandhaann/mesh-outline/pkg/math"

// Params are the per-frame inputs of the classification stage.
// Angles are in degrees and are not range checked: values outside [0, 180]
// simply produce an empty or full band.
type Params struct {
	MinAngle float32
	MaxAngle float32
	Color    RGB
	Opacity  float32
}

// DefaultParams returns the (0, 90) band in opaque white.
func DefaultParams() Params {
	return Params{
		MinAngle: 0,
		MaxAngle: 90,
		Color:    White,
		Opacity:  1,
	}
}

// Thresholds converts the angle band to cosine thresholds.
// dotMin corresponds to MinAngle and is the upper bound of the band.
func (p Params) Thresholds() (dotMin, dotMax float32) {
	return math.CosDeg(p.MinAngle), math.CosDeg(p.MaxAngle)
}

// InBand reports whether dot lies within [dotMax, dotMin], both ends inclusive.
func InBand(dot, dotMin, dotMax float32) bool {
	return math.Step(dotMax, dot)*math.Step(dot, dotMin) > 0
}

// Frame holds the transforms of one rendered frame.
type Frame struct {
	ModelView    math.Mat4
	Projection   math.Mat4
	MVP          math.Mat4
	NormalMatrix math.Mat3
}

// NewFrame derives the combined transforms from model, view and projection.
func NewFrame(model, view, projection math.Mat4) Frame {
	modelView := view.Mul(model)
	return Frame{
		ModelView:    modelView,
		Projection:   projection,
		MVP:          projection.Mul(modelView),
		NormalMatrix: modelView.NormalMatrix(),
	}
}
