package visibility

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// ViewAngleBand keeps a vertex when the angle between its view-space normal
// and the direction towards the camera lies within [MinAngle, MaxAngle].
// Fragments of discarded vertices write neither color nor depth.
// It reads position and normal, so it applies to solid meshes.
type ViewAngleBand struct{}

// Variant implements Policy.
func (ViewAngleBand) Variant() Variant { return VariantBand }

// Uniforms implements Policy.
func (ViewAngleBand) Uniforms(p Params) []Uniform {
	return []Uniform{
		scalar("minAngle", p.MinAngle),
		scalar("maxAngle", p.MaxAngle),
		vector("color", colorVec(p.Color)),
	}
}

// NormalDotView returns the cosine of the angle between the vertex normal
// and the direction from the vertex to the camera, both in view space.
func (ViewAngleBand) NormalDotView(position, normal math.Vec3, f Frame) float32 {
	viewNormal := f.NormalMatrix.MulVec3(normal).Normalize()
	viewPosition := f.ModelView.MulVec4(math.Point4(position)).XYZ()
	viewDir := viewPosition.Negate().Normalize()
	return viewNormal.Dot(viewDir)
}

// EdgeFactor returns 1 when the vertex is inside the band and 0 otherwise.
func (b ViewAngleBand) EdgeFactor(position, normal math.Vec3, f Frame, dotMin, dotMax float32) float32 {
	ndv := b.NormalDotView(position, normal, f)
	return math.Step(dotMax, ndv) * math.Step(ndv, dotMin)
}

// Classify implements Policy. Positions are returned unchanged.
func (b ViewAngleBand) Classify(g *geometry.Geometry, f Frame, p Params) (*Result, error) {
	if err := requireAttributes(g, geometry.AttrNormal); err != nil {
		return nil, fmt.Errorf("band classify: %w", err)
	}

	pos := g.Attribute(geometry.AttrPosition)
	normal := g.Attribute(geometry.AttrNormal)
	dotMin, dotMax := p.Thresholds()

	keep := make([]bool, pos.Count())
	for i := range keep {
		keep[i] = b.EdgeFactor(pos.Vec3(i), normal.Vec3(i), f, dotMin, dotMax) != 0
	}
	return &Result{Positions: pos.Clone(), Keep: keep}, nil
}
