// Package visibility decides which outline edges are visible for a given
// view. It mirrors the GPU classification stage on the CPU so the same
// decision can be inspected, tested and simulated without a GL context.
//
// Two policies are provided:
//
//	band      discards fragments whose normal-to-view angle is outside [min, max]
//	collapse  collapses silhouette-line segments that fall inside the projected band
package visibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// Variant names a visibility policy.
type Variant string

const (
	VariantBand     Variant = "band"
	VariantCollapse Variant = "collapse"
)

var (
	// ErrMissingAttribute is returned when a geometry lacks an attribute the policy reads.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrUnknownVariant is returned by ParseVariant and New for unknown names.
	ErrUnknownVariant = errors.New("unknown visibility variant")
)

// Uniform is one named shader input. Size is 1 for scalars and 3 for vectors;
// scalars use Value[0].
type Uniform struct {
	Name  string
	Size  int
	Value [3]float32
}

// Policy classifies the vertices of a geometry for one frame.
type Policy interface {
	// Variant returns the policy name.
	Variant() Variant

	// Uniforms maps params onto the uniform names of the policy's shader.
	Uniforms(p Params) []Uniform

	// Classify evaluates every vertex of g and returns the resulting
	// positions and keep flags.
	Classify(g *geometry.Geometry, f Frame, p Params) (*Result, error)
}

// ParseVariant converts a config string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantBand, VariantCollapse:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// New returns the policy for v.
func New(v Variant) (Policy, error) {
	switch v {
	case VariantBand:
		return ViewAngleBand{}, nil
	case VariantCollapse:
		return ProjectedCollapse{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Result is the outcome of classifying one geometry for one frame.
type Result struct {
	// Positions after the policy ran. Only the collapse policy moves vertices.
	Positions *geometry.Attribute

	// Keep reports per vertex whether it survives: the band policy clears it
	// for discarded vertices, the collapse policy for displaced ones.
	Keep []bool
}

// KeptVertices counts vertices whose Keep flag is set.
func (r *Result) KeptVertices() int {
	n := 0
	for _, k := range r.Keep {
		if k {
			n++
		}
	}
	return n
}

// VisibleSegments counts line segments (vertex pairs) that are still drawn:
// both endpoints kept and the segment has non-zero length.
func (r *Result) VisibleSegments() int {
	n := 0
	for i := 0; i+1 < len(r.Keep); i += 2 {
		if !r.Keep[i] || !r.Keep[i+1] {
			continue
		}
		if r.Positions.Vec3(i) == r.Positions.Vec3(i+1) {
			continue
		}
		n++
	}
	return n
}

func requireAttributes(g *geometry.Geometry, names ...string) error {
	count := g.VertexCount()
	if g.Attribute(geometry.AttrPosition) == nil {
		return fmt.Errorf("%w: %q", ErrMissingAttribute, geometry.AttrPosition)
	}
	for _, name := range names {
		a := g.Attribute(name)
		if a == nil {
			return fmt.Errorf("%w: %q", ErrMissingAttribute, name)
		}
		if a.Count() != count {
			return fmt.Errorf("%w: %q has %d vertices, want %d", ErrMissingAttribute, name, a.Count(), count)
		}
	}
	return nil
}

func scalar(name string, v float32) Uniform {
	return Uniform{Name: name, Size: 1, Value: [3]float32{v}}
}

func vector(name string, v math.Vec3) Uniform {
	return Uniform{Name: name, Size: 3, Value: v.Array()}
}

func colorVec(c RGB) math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}
