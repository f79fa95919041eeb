package silhouette

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

func equilateral(t *testing.T) *geometry.Geometry {
	t.Helper()
	h := float32(gomath.Sqrt(3) / 2)
	g, err := geometry.FromTriangles([]float32{
		0, 0, 0,
		1, 0, 0,
		0.5, h, 0,
	}, nil)
	if err != nil {
		t.Fatalf("building triangle: %v", err)
	}
	return g
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestExtractCounts(t *testing.T) {
	mesh := geometry.NewTorus(geometry.DefaultTorusOptions())
	line, err := Extract(mesh)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	triangles := mesh.TriangleCount()
	pos := line.Attribute(geometry.AttrPosition)
	control := line.Attribute(AttrControl)
	direction := line.Attribute(AttrDirection)
	collapse := line.Attribute(AttrCollapse)

	if pos.Count() != 6*triangles {
		t.Errorf("expected %d vertices, got %d", 6*triangles, pos.Count())
	}
	if len(control.Array) != len(direction.Array) || len(control.Array) != len(pos.Array) {
		t.Errorf("buffer lengths differ: position %d, control %d, direction %d",
			len(pos.Array), len(control.Array), len(direction.Array))
	}
	if collapse.ItemSize != 1 || collapse.Count() != 2*triangles*3 {
		t.Errorf("expected %d collapse flags, got %d", 2*triangles*3, collapse.Count())
	}
	for i, v := range collapse.Array {
		if want := float32(i % 2); v != want {
			t.Fatalf("collapse[%d] = %v, want %v", i, v, want)
		}
	}
	if line.IsIndexed() {
		t.Error("line geometry should not be indexed")
	}
	if line.Attribute(geometry.AttrNormal) != nil {
		t.Error("line geometry should only carry the four edge attributes")
	}
}

func TestExtractIdempotent(t *testing.T) {
	mesh := geometry.NewSphere(1, 16, 8)

	first, err := Extract(mesh)
	if err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	second, err := Extract(mesh)
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}

	for _, name := range first.AttributeNames() {
		a := first.Attribute(name).Array
		b := second.Attribute(name).Array
		if len(a) != len(b) {
			t.Fatalf("%s: length %d vs %d", name, len(a), len(b))
		}
		for i := range a {
			if gomath.Float32bits(a[i]) != gomath.Float32bits(b[i]) {
				t.Fatalf("%s[%d]: %v vs %v", name, i, a[i], b[i])
			}
		}
	}
}

func TestExtractEdgeOrder(t *testing.T) {
	mesh := equilateral(t)
	line, err := Extract(mesh)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	src := mesh.Attribute(geometry.AttrPosition)
	a, b, c := src.Vec3(0), src.Vec3(1), src.Vec3(2)
	want := []math.Vec3{a, b, b, c, c, a}

	pos := line.Attribute(geometry.AttrPosition)
	for i, w := range want {
		if got := pos.Vec3(i); got != w {
			t.Errorf("vertex %d: got %v, want %v", i, got, w)
		}
	}
}

func TestExtractEquilateralControls(t *testing.T) {
	mesh := equilateral(t)
	line, err := Extract(mesh)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	pos := line.Attribute(geometry.AttrPosition)
	control := line.Attribute(AttrControl)
	direction := line.Attribute(AttrDirection)
	centroid := math.Vec3{X: 0.5, Y: float32(gomath.Sqrt(3) / 6)}

	for i := 0; i < pos.Count(); i++ {
		p := pos.Vec3(i)
		offset := control.Vec3(i).Sub(p)

		if control.Vec3(i).Z != 0 {
			t.Errorf("control %d leaves the XY plane: %v", i, control.Vec3(i))
		}
		if l := offset.Length(); absf(l-1) > 0.0001 {
			t.Errorf("control %d offset length %v, want 1", i, l)
		}
		if d := offset.Dot(direction.Vec3(i)); absf(d) > 0.0001 {
			t.Errorf("control %d offset not perpendicular to edge: dot %v", i, d)
		}
		// Counter-clockwise winding puts the side normal outside the triangle
		if offset.Dot(centroid.Sub(p)) >= 0 {
			t.Errorf("control %d points into the triangle", i)
		}
	}
}

func TestEdgeReusesSideNormal(t *testing.T) {
	p := math.Vec3{X: 1, Y: 2, Z: 3}
	q := math.Vec3{X: 4, Y: 2, Z: 3}
	n := math.Vec3{Z: 1}

	e := Edge(p, q, n)

	if e.Direction[0] != q.Sub(p) || e.Direction[1] != p.Sub(q) {
		t.Errorf("directions: got %v, want %v and %v", e.Direction, q.Sub(p), p.Sub(q))
	}
	first := e.Control[0].Sub(p)
	second := e.Control[1].Sub(q)
	if first != second {
		t.Errorf("second endpoint should reuse the forward side normal: %v vs %v", first, second)
	}
	if first != (math.Vec3{Y: -1}) {
		t.Errorf("side normal: got %v, want (0, -1, 0)", first)
	}
	if e.Collapse != [2]float32{0, 1} {
		t.Errorf("collapse: got %v, want [0 1]", e.Collapse)
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	mesh := geometry.NewBox(1, 2, 3)
	before := mesh.Clone()

	if _, err := Extract(mesh); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !mesh.IsIndexed() || len(mesh.Index) != len(before.Index) {
		t.Fatal("Extract changed the input index")
	}
	for _, name := range before.AttributeNames() {
		a := before.Attribute(name).Array
		b := mesh.Attribute(name).Array
		if len(a) != len(b) {
			t.Fatalf("%s: length changed %d -> %d", name, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s[%d] changed: %v -> %v", name, i, a[i], b[i])
			}
		}
	}
}

func TestExtractInvalidMesh(t *testing.T) {
	noNormal := geometry.New()
	noNormal.SetAttribute(geometry.AttrPosition, geometry.NewAttribute([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3))

	noPosition := geometry.New()
	noPosition.SetAttribute(geometry.AttrNormal, geometry.NewAttribute([]float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, 3))

	shortUV, err := geometry.FromTriangles([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("building triangle: %v", err)
	}
	shortUV.SetAttribute("uv", geometry.NewAttribute([]float32{0, 0}, 2))

	zeroWidth, err := geometry.FromTriangles([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	if err != nil {
		t.Fatalf("building triangle: %v", err)
	}
	zeroWidth.SetAttribute("weight", geometry.NewAttribute([]float32{1, 1, 1}, 0))

	tests := []struct {
		name string
		mesh *geometry.Geometry
	}{
		{"missing normal", noNormal},
		{"missing position", noPosition},
		{"empty", geometry.New()},
		{"short extra attribute on indexed mesh", shortUV},
		{"zero-width extra attribute", zeroWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Extract(tt.mesh)
			if !errors.Is(err, geometry.ErrInvalidMesh) {
				t.Errorf("expected ErrInvalidMesh, got %v", err)
			}
			if line != nil {
				t.Error("expected no output on error")
			}
		})
	}
}

func TestExtractDegenerateTriangle(t *testing.T) {
	mesh, err := geometry.FromTriangles([]float32{
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
	}, nil)
	if err != nil {
		t.Fatalf("building triangle: %v", err)
	}

	line, err := Extract(mesh)
	if err != nil {
		t.Fatalf("degenerate triangle should not fail: %v", err)
	}

	pos := line.Attribute(geometry.AttrPosition)
	control := line.Attribute(AttrControl)
	for i := 0; i < pos.Count(); i++ {
		if pos.Vec3(i) != control.Vec3(i) {
			t.Errorf("vertex %d: control %v should equal position %v", i, control.Vec3(i), pos.Vec3(i))
		}
	}

	s, err := Stats(line)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Degenerate != 3 {
		t.Errorf("expected 3 degenerate segments, got %d", s.Degenerate)
	}
}

func TestExtractZeroLengthEdge(t *testing.T) {
	// A normal is supplied but one edge has coincident endpoints
	mesh, err := geometry.FromTriangles([]float32{
		0, 0, 0,
		0, 0, 0,
		1, 0, 0,
	}, nil)
	if err != nil {
		t.Fatalf("building triangle: %v", err)
	}

	line, err := Extract(mesh)
	if err != nil {
		t.Fatalf("zero-length edge should not fail: %v", err)
	}
	d := line.Attribute(AttrDirection).Vec3(0)
	if !d.IsZero() {
		t.Errorf("direction of zero-length edge: got %v, want zero", d)
	}
}

func TestExtractRoundTripFlat(t *testing.T) {
	line, err := Extract(geometry.NewTorus(geometry.DefaultTorusOptions()))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	again, err := line.ToNonIndexed()
	if err != nil {
		t.Fatalf("ToNonIndexed failed: %v", err)
	}
	if again.IsIndexed() {
		t.Error("round trip produced an index")
	}
	for _, name := range line.AttributeNames() {
		a := line.Attribute(name)
		b := again.Attribute(name)
		if b == nil || a.ItemSize != b.ItemSize || len(a.Array) != len(b.Array) {
			t.Fatalf("%s changed shape", name)
		}
		for i := range a.Array {
			if a.Array[i] != b.Array[i] {
				t.Fatalf("%s[%d] changed: %v -> %v", name, i, a.Array[i], b.Array[i])
			}
		}
	}
}

func TestStats(t *testing.T) {
	line, err := Extract(geometry.NewBox(1, 1, 1))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	s, err := Stats(line)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Triangles != 12 || s.Segments != 36 || s.Vertices != 72 || s.Degenerate != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}

	if _, err := Stats(geometry.NewBox(1, 1, 1)); !errors.Is(err, geometry.ErrInvalidMesh) {
		t.Errorf("expected ErrInvalidMesh for a plain mesh, got %v", err)
	}
}
