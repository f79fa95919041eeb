package visibility

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/silhouette"
)

// ProjectedCollapse works on silhouette line geometry. Each vertex projects
// its position, position+direction and control point to the screen and
// compares the edge's screen-space perpendicular with the direction towards
// the control point. Inside the band the vertex moves by direction*collapse,
// which folds the segment onto its first endpoint.
type ProjectedCollapse struct{}

// Variant implements Policy.
func (ProjectedCollapse) Variant() Variant { return VariantCollapse }

// Uniforms implements Policy.
func (ProjectedCollapse) Uniforms(p Params) []Uniform {
	return []Uniform{
		scalar("thresholdAngleMin", p.MinAngle),
		scalar("thresholdAngleMax", p.MaxAngle),
		vector("diffuse", colorVec(p.Color)),
		scalar("opacity", p.Opacity),
	}
}

// ScreenDot returns the cosine between the projected edge perpendicular and
// the projected vector from position+direction to the control point.
// ok is false when either vector has zero length on screen; the shader's
// normalize yields NaN there and every band comparison fails.
func (ProjectedCollapse) ScreenDot(position, control, direction math.Vec3, mvp math.Mat4) (dot float32, ok bool) {
	c := mvp.MulVec4(math.Point4(control)).NDC()
	p := mvp.MulVec4(math.Point4(position)).NDC()
	pDir := mvp.MulVec4(math.Point4(position.Add(direction))).NDC()

	norm := pDir.Sub(p).Perp()
	controlDir := c.Sub(pDir)
	if norm.Length() == 0 || controlDir.Length() == 0 {
		return 0, false
	}
	return norm.Normalize().Dot(controlDir.Normalize()), true
}

// Displace returns the vertex position after classification and whether
// the vertex kept its place.
func (pc ProjectedCollapse) Displace(position, control, direction math.Vec3, collapse float32, mvp math.Mat4, dotMin, dotMax float32) (math.Vec3, bool) {
	dot, ok := pc.ScreenDot(position, control, direction, mvp)
	if !ok || !InBand(dot, dotMin, dotMax) {
		return position, true
	}
	return position.Add(direction.Scale(collapse)), collapse == 0
}

// Classify implements Policy.
func (pc ProjectedCollapse) Classify(g *geometry.Geometry, f Frame, p Params) (*Result, error) {
	if err := requireAttributes(g, silhouette.AttrControl, silhouette.AttrDirection, silhouette.AttrCollapse); err != nil {
		return nil, fmt.Errorf("collapse classify: %w", err)
	}

	pos := g.Attribute(geometry.AttrPosition)
	control := g.Attribute(silhouette.AttrControl)
	direction := g.Attribute(silhouette.AttrDirection)
	collapse := g.Attribute(silhouette.AttrCollapse)
	dotMin, dotMax := p.Thresholds()

	out := geometry.NewAttribute(make([]float32, pos.Count()*3), 3)
	keep := make([]bool, pos.Count())
	for i := range keep {
		moved, kept := pc.Displace(pos.Vec3(i), control.Vec3(i), direction.Vec3(i), collapse.Array[i*collapse.ItemSize], f.MVP, dotMin, dotMax)
		out.SetVec3(i, moved)
		keep[i] = kept
	}
	return &Result{Positions: out, Keep: keep}, nil
}
