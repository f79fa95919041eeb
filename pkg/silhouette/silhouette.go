// Package silhouette builds the edge-segment geometry used to draw
// view-dependent silhouette outlines.
//
// Every directed edge of every triangle becomes one line segment whose two
// vertices carry, besides their position:
//
//	control    endpoint + side normal, the in-plane vector perpendicular to the edge
//	direction  vector to the partner endpoint
//	collapse   0 on the first endpoint, 1 on the second
//
// The shading stage projects these per frame and moves the second endpoint
// onto the first (direction * collapse) when the edge is not on the silhouette.
package silhouette

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// Attribute names written by Extract, next to geometry.AttrPosition.
const (
	AttrControl   = "control"
	AttrDirection = "direction"
	AttrCollapse  = "collapse"
)

// VerticesPerTriangle is the number of line vertices emitted per triangle
// (three edges, two endpoints each).
const VerticesPerTriangle = 6

// EdgeRecord holds the two line vertices emitted for one directed edge.
type EdgeRecord struct {
	Position  [2]math.Vec3
	Control   [2]math.Vec3
	Direction [2]math.Vec3
	Collapse  [2]float32
}

// Edge computes the record for the directed edge p -> q of a face with normal n.
//
// The side normal is computed once from the forward direction and applied to
// both endpoints; the reversed direction of q does not flip it.
func Edge(p, q, n math.Vec3) EdgeRecord {
	forward := q.Sub(p)
	side := forward.Normalize().Cross(n)

	return EdgeRecord{
		Position:  [2]math.Vec3{p, q},
		Control:   [2]math.Vec3{p.Add(side), q.Add(side)},
		Direction: [2]math.Vec3{forward, p.Sub(q)},
		Collapse:  [2]float32{0, 1},
	}
}

// Extract converts a triangle mesh into annotated line-segment geometry with
// position, control, direction and collapse attributes (6 vertices per
// triangle, edges emitted as A->B, B->C, C->A).
//
// The mesh must carry 3-wide position and normal attributes; it is never
// modified. Normals are recomputed on a private flat copy, and the face
// normal of each triangle is read from its first vertex.
func Extract(mesh *geometry.Geometry) (*geometry.Geometry, error) {
	if err := mesh.Validate(geometry.AttrNormal); err != nil {
		return nil, fmt.Errorf("extract silhouette: %w", err)
	}

	flat, err := mesh.ToNonIndexed()
	if err != nil {
		return nil, fmt.Errorf("extract silhouette: %w", err)
	}
	if err := flat.ComputeVertexNormals(); err != nil {
		return nil, fmt.Errorf("extract silhouette: %w", err)
	}
	flat.NormalizeNormals()

	pos := flat.Attribute(geometry.AttrPosition)
	normals := flat.Attribute(geometry.AttrNormal)
	vertexCount := pos.Count() / 3 * VerticesPerTriangle

	b := newBuilder(vertexCount)
	for i := 0; i+2 < pos.Count(); i += 3 {
		a, bv, c := pos.Vec3(i), pos.Vec3(i+1), pos.Vec3(i+2)
		face := normals.Vec3(i).Normalize()

		b.add(Edge(a, bv, face))
		b.add(Edge(bv, c, face))
		b.add(Edge(c, a, face))
	}

	return b.geometry(), nil
}

// builder accumulates the four parallel attribute buffers.
type builder struct {
	position  []float32
	control   []float32
	direction []float32
	collapse  []float32
}

func newBuilder(vertexCount int) *builder {
	return &builder{
		position:  make([]float32, 0, vertexCount*3),
		control:   make([]float32, 0, vertexCount*3),
		direction: make([]float32, 0, vertexCount*3),
		collapse:  make([]float32, 0, vertexCount),
	}
}

func (b *builder) add(e EdgeRecord) {
	for k := 0; k < 2; k++ {
		b.position = appendVec3(b.position, e.Position[k])
		b.control = appendVec3(b.control, e.Control[k])
		b.direction = appendVec3(b.direction, e.Direction[k])
		b.collapse = append(b.collapse, e.Collapse[k])
	}
}

func (b *builder) geometry() *geometry.Geometry {
	g := geometry.New()
	g.SetAttribute(geometry.AttrPosition, geometry.NewAttribute(b.position, 3))
	g.SetAttribute(AttrControl, geometry.NewAttribute(b.control, 3))
	g.SetAttribute(AttrDirection, geometry.NewAttribute(b.direction, 3))
	g.SetAttribute(AttrCollapse, geometry.NewAttribute(b.collapse, 1))
	return g
}

func appendVec3(dst []float32, v math.Vec3) []float32 {
	return append(dst, v.X, v.Y, v.Z)
}
