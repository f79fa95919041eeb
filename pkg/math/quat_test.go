package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	if QuatIdentity().ToMat4() != Identity() {
		t.Error("identity quaternion should give the identity matrix")
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1) > 1e-4 {
		t.Errorf("normalized quaternion length should be 1, got %v", length)
	}
	if (Quat{}).Normalize() != QuatIdentity() {
		t.Error("zero quaternion should normalize to identity")
	}
}

// quarterTurnY is a 90 degree rotation around +Y.
var quarterTurnY = Quat{Y: math.Sqrt2 / 2, W: math.Sqrt2 / 2}

func TestQuatQuarterTurnY(t *testing.T) {
	// A right-handed quarter turn around Y takes X to -Z
	got := quarterTurnY.ToMat4().TransformDirection(Vec3{X: 1})
	if !vec3Near(got, Vec3{Z: -1}, 1e-5) {
		t.Errorf("expected (0,0,-1), got %v", got)
	}
}

func TestQuatMul(t *testing.T) {
	half := Quat{Z: float32(math.Sin(math.Pi / 8)), W: float32(math.Cos(math.Pi / 8))}
	full := half.Mul(half).ToMat4()

	// Two 45 degree turns around Z take X to Y
	got := full.TransformDirection(Vec3{X: 1})
	if !vec3Near(got, Vec3{Y: 1}, 1e-5) {
		t.Errorf("expected (0,1,0), got %v", got)
	}
}

func TestCompose(t *testing.T) {
	m := Compose(Vec3{X: 10}, Quat{Z: math.Sqrt2 / 2, W: math.Sqrt2 / 2}, Vec3{X: 2, Y: 2, Z: 2})

	// Scale, then rotate, then translate
	got := m.TransformPoint(Vec3{X: 1})
	if !vec3Near(got, Vec3{X: 10, Y: 2}, 1e-5) {
		t.Errorf("expected (10,2,0), got %v", got)
	}
}

func vec3Near(a, b Vec3, eps float64) bool {
	return math.Abs(float64(a.X-b.X)) <= eps &&
		math.Abs(float64(a.Y-b.Y)) <= eps &&
		math.Abs(float64(a.Z-b.Z)) <= eps
}
