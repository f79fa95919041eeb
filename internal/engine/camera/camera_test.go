package camera

import (
	gomath "math"
	"testing"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

func near(a, b, eps float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= eps
}

func TestDefaultPosition(t *testing.T) {
	pos := NewOrbitCamera().Position()
	if !near(pos.X, 20, 0.05) || !near(pos.Y, 5, 0.05) || !near(pos.Z, 20, 0.05) {
		t.Errorf("Position() = %v, want about (20, 5, 20)", pos)
	}
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(1, 2, 3)

	p := c.ViewMatrix().TransformPoint(c.Center())
	if !near(p.X, 0, 1e-3) || !near(p.Y, 0, 1e-3) {
		t.Errorf("center in view space = %v, want on the -Z axis", p)
	}
	if !near(p.Z, -c.Distance, 1e-3) {
		t.Errorf("center depth = %v, want %v", p.Z, -c.Distance)
	}
}

func TestProjectionMatrix(t *testing.T) {
	c := FromConfig(config.CameraConfig{FOV: 90, Near: 1, Far: 100, Distance: 10})
	m := c.ProjectionMatrix(2)
	// f = 1/tan(45deg) = 1
	if !near(m[0], 0.5, 1e-5) || !near(m[5], 1, 1e-5) {
		t.Errorf("projection scale = (%v, %v), want (0.5, 1)", m[0], m[5])
	}

	if c.ProjectionMatrix(0) != c.ProjectionMatrix(1) {
		t.Error("non-positive aspect should fall back to 1")
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	yaw := c.RotationY

	c.HandleDrag(100, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("RotationX = %v, want %v", c.RotationX, c.MaxPitch)
	}
	if c.RotationY >= yaw {
		t.Error("dragging right should decrease yaw")
	}

	c.HandleDrag(0, -100000)
	if c.RotationX != c.MinPitch {
		t.Errorf("RotationX = %v, want %v", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for range 200 {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MinDistance)
	}
	for range 200 {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MaxDistance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	pitch, yaw := c.RotationX, c.RotationY

	c.FitToBounds(math.Vec3{X: 8, Y: -2, Z: -2}, math.Vec3{X: 12, Y: 2, Z: 2})

	if c.Center() != (math.Vec3{X: 10}) {
		t.Errorf("Center() = %v, want (10, 0, 0)", c.Center())
	}
	radius := float32(gomath.Sqrt(48)) / 2
	want := radius / float32(gomath.Sin(float64(c.FOV)/2))
	if !near(c.Distance, want, 1e-3) {
		t.Errorf("Distance = %v, want %v", c.Distance, want)
	}
	if c.RotationX != pitch || c.RotationY != yaw {
		t.Error("FitToBounds should keep the rotation")
	}

	d := c.Distance
	c.FitToBounds(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1, Y: 1, Z: 1})
	if c.Distance != d {
		t.Error("empty bounds should keep the distance")
	}
}
