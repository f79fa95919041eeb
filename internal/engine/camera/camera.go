// Package camera provides the orbit camera used by the viewers and the
// headless orbit sweep.
package camera

import (
	gomath "math"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FOV  float32 // Vertical field of view (radians)
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera from the default camera config.
// It looks at the origin from roughly (20, 5, 20).
func NewOrbitCamera() *OrbitCamera {
	return FromConfig(config.Default().Camera)
}

// FromConfig creates an orbit camera from config angles in degrees.
func FromConfig(cfg config.CameraConfig) *OrbitCamera {
	return &OrbitCamera{
		Distance:        cfg.Distance,
		RotationX:       cfg.Pitch * math.DegToRad,
		RotationY:       cfg.Yaw * math.DegToRad,
		FOV:             cfg.FOV * math.DegToRad,
		Near:            cfg.Near,
		Far:             cfg.Far,
		MinDistance:     cfg.Near * 2,
		MaxDistance:     cfg.Far / 2,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Center returns the orbit center.
func (c *OrbitCamera) Center() math.Vec3 {
	return math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center(), up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch short of the poles so the up vector stays valid
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// FitToBounds centers the camera on a bounding box and backs off until the
// bounding sphere fits the vertical field of view. Rotation is kept.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	center := lo.Add(hi).Scale(0.5)
	c.SetCenter(center.X, center.Y, center.Z)

	radius := lo.Distance(hi) / 2
	if radius == 0 {
		return
	}

	fov := c.FOV
	if fov <= 0 {
		fov = gomath.Pi / 4
	}
	c.Distance = radius / float32(gomath.Sin(float64(fov)/2))
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}
