package visibility

import (
	"errors"
	"testing"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/silhouette"
)

// cameraAtOrigin looks down -Z with the model left in place.
func cameraAtOrigin() Frame {
	return NewFrame(math.Identity(), math.Identity(), math.Perspective(0.8, 1, 0.1, 100))
}

func TestBandBoundaries(t *testing.T) {
	f := cameraAtOrigin()
	position := math.Vec3{Z: -5}
	band := ViewAngleBand{}

	tests := []struct {
		name     string
		normal   math.Vec3
		min, max float32
		want     float32
	}{
		{"perpendicular kept at 90", math.Vec3{X: 1}, 0, 90, 1},
		{"perpendicular kept at 90 any axis", math.Vec3{Y: -1}, 0, 90, 1},
		{"facing away excluded", math.Vec3{Z: -1}, 0, 90, 0},
		{"facing camera inside inclusive min bound", math.Vec3{Z: 1}, 0, 90, 1},
		{"facing camera excluded when min is above zero", math.Vec3{Z: 1}, 10, 90, 0},
		{"oblique inside band", math.Vec3{X: 1, Z: 1}, 30, 60, 1},
		{"oblique outside band", math.Vec3{X: 1, Z: 1}, 60, 90, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{MinAngle: tt.min, MaxAngle: tt.max}
			dotMin, dotMax := p.Thresholds()
			got := band.EdgeFactor(position, tt.normal, f, dotMin, dotMax)
			if got != tt.want {
				t.Errorf("EdgeFactor = %v, want %v (ndv %v)", got, tt.want, band.NormalDotView(position, tt.normal, f))
			}
		})
	}
}

func TestBandUsesNormalMatrix(t *testing.T) {
	// Rotating the model turns a sideways normal towards the camera
	quarterTurn := math.Quat{Y: -0.70710677, W: 0.70710677}
	model := math.Compose(math.Vec3{Z: -5}, quarterTurn, math.Vec3{X: 1, Y: 1, Z: 1})
	f := NewFrame(model, math.Identity(), math.Perspective(0.8, 1, 0.1, 100))

	ndv := ViewAngleBand{}.NormalDotView(math.Vec3{}, math.Vec3{X: 1}, f)
	if ndv < 0.999 {
		t.Errorf("rotated normal should face the camera, ndv = %v", ndv)
	}
}

func TestBandClassify(t *testing.T) {
	g := geometry.New()
	g.SetAttribute(geometry.AttrPosition, geometry.NewAttribute([]float32{
		0, 0, -5,
		0, 0, -5,
		0, 0, -5,
	}, 3))
	g.SetAttribute(geometry.AttrNormal, geometry.NewAttribute([]float32{
		1, 0, 0,
		0, 0, -1,
		0, 1, 0,
	}, 3))

	res, err := ViewAngleBand{}.Classify(g, cameraAtOrigin(), DefaultParams())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	want := []bool{true, false, true}
	for i, w := range want {
		if res.Keep[i] != w {
			t.Errorf("vertex %d: keep = %v, want %v", i, res.Keep[i], w)
		}
	}
	if res.KeptVertices() != 2 {
		t.Errorf("expected 2 kept vertices, got %d", res.KeptVertices())
	}
	if res.Positions.Vec3(1) != (math.Vec3{Z: -5}) {
		t.Error("band policy must not move vertices")
	}
}

func TestBandRequiresNormals(t *testing.T) {
	line, err := silhouette.Extract(geometry.NewBox(1, 1, 1))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	_, err = ViewAngleBand{}.Classify(line, cameraAtOrigin(), DefaultParams())
	if !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("expected ErrMissingAttribute, got %v", err)
	}
}

func TestBandAcceptsOutOfRangeThresholds(t *testing.T) {
	mesh := geometry.NewSphere(1, 8, 4)
	p := Params{MinAngle: -45, MaxAngle: 400}

	if _, err := (ViewAngleBand{}).Classify(mesh, cameraAtOrigin(), p); err != nil {
		t.Errorf("out-of-range thresholds should be accepted, got %v", err)
	}
}

func TestBandUniforms(t *testing.T) {
	p := Params{MinAngle: 10, MaxAngle: 80, Color: RGB{1, 0, 0.5}, Opacity: 0.3}
	u := ViewAngleBand{}.Uniforms(p)

	if len(u) != 3 {
		t.Fatalf("expected 3 uniforms, got %d", len(u))
	}
	if u[0].Name != "minAngle" || u[0].Size != 1 || u[0].Value[0] != 10 {
		t.Errorf("unexpected minAngle uniform: %+v", u[0])
	}
	if u[1].Name != "maxAngle" || u[1].Value[0] != 80 {
		t.Errorf("unexpected maxAngle uniform: %+v", u[1])
	}
	if u[2].Name != "color" || u[2].Size != 3 || u[2].Value != [3]float32{1, 0, 0.5} {
		t.Errorf("unexpected color uniform: %+v", u[2])
	}
}
