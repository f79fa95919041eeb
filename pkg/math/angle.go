package math

import "math"

// DegToRad converts degrees to radians.
const DegToRad float32 = math.Pi / 180

// CosDeg returns the cosine of an angle in degrees.
// The degree-to-radian product is rounded to float32 before the cosine,
// matching the shader evaluation of cos(DEG2RAD * angle).
func CosDeg(deg float32) float32 {
	rad := DegToRad * deg
	return float32(math.Cos(float64(rad)))
}

// Step is the GLSL step function: 0 when x < edge, otherwise 1.
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}
