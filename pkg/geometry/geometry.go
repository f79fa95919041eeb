// Package geometry provides a minimal buffer geometry: named flat float32
// attributes plus an optional triangle index.
package geometry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// Well-known attribute names.
const (
	AttrPosition = "position"
	AttrNormal   = "normal"
)

// ErrInvalidMesh is returned when a geometry cannot be treated as a triangle mesh.
var ErrInvalidMesh = errors.New("invalid mesh")

// Geometry is a set of named vertex attributes with an optional index.
// A nil Index means the geometry is flat: every three consecutive
// vertices form one triangle (or every two form a line segment).
type Geometry struct {
	attributes map[string]*Attribute
	Index      []uint32
}

// New creates an empty geometry.
func New() *Geometry {
	return &Geometry{attributes: make(map[string]*Attribute)}
}

// SetAttribute assigns (or replaces) the named attribute as a whole.
func (g *Geometry) SetAttribute(name string, a *Attribute) {
	if g.attributes == nil {
		g.attributes = make(map[string]*Attribute)
	}
	g.attributes[name] = a
}

// Attribute returns the named attribute or nil.
func (g *Geometry) Attribute(name string) *Attribute {
	return g.attributes[name]
}

// DeleteAttribute removes the named attribute.
func (g *Geometry) DeleteAttribute(name string) {
	delete(g.attributes, name)
}

// AttributeNames returns the attribute names in sorted order.
func (g *Geometry) AttributeNames() []string {
	names := make([]string, 0, len(g.attributes))
	for name := range g.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsIndexed reports whether the geometry uses an index buffer.
func (g *Geometry) IsIndexed() bool {
	return g.Index != nil
}

// VertexCount returns the number of stored vertices (position count).
func (g *Geometry) VertexCount() int {
	pos := g.Attribute(AttrPosition)
	if pos == nil {
		return 0
	}
	return pos.Count()
}

// TriangleCount returns the number of triangles described by the geometry.
func (g *Geometry) TriangleCount() int {
	if g.IsIndexed() {
		return len(g.Index) / 3
	}
	return g.VertexCount() / 3
}

// Clone returns a deep copy of all attributes and the index.
func (g *Geometry) Clone() *Geometry {
	c := New()
	for name, a := range g.attributes {
		c.attributes[name] = a.Clone()
	}
	if g.Index != nil {
		c.Index = make([]uint32, len(g.Index))
		copy(c.Index, g.Index)
	}
	return c
}

// Validate checks that the geometry is a well-formed triangle mesh carrying
// the given 3-wide attributes. Position is always required.
func (g *Geometry) Validate(required ...string) error {
	pos := g.Attribute(AttrPosition)
	if pos == nil {
		return fmt.Errorf("%w: missing %q attribute", ErrInvalidMesh, AttrPosition)
	}
	if pos.ItemSize != 3 || len(pos.Array)%3 != 0 {
		return fmt.Errorf("%w: %q must be 3-wide, got item size %d", ErrInvalidMesh, AttrPosition, pos.ItemSize)
	}
	count := pos.Count()

	for _, name := range required {
		a := g.Attribute(name)
		if a == nil {
			return fmt.Errorf("%w: missing %q attribute", ErrInvalidMesh, name)
		}
		if a.ItemSize != 3 {
			return fmt.Errorf("%w: %q must be 3-wide, got item size %d", ErrInvalidMesh, name, a.ItemSize)
		}
	}
	if err := g.checkCounts(count); err != nil {
		return err
	}

	if g.IsIndexed() {
		if len(g.Index)%3 != 0 {
			return fmt.Errorf("%w: index length %d is not a multiple of 3", ErrInvalidMesh, len(g.Index))
		}
		for i, idx := range g.Index {
			if int(idx) >= count {
				return fmt.Errorf("%w: index %d references vertex %d of %d", ErrInvalidMesh, i, idx, count)
			}
		}
	} else if count%3 != 0 {
		return fmt.Errorf("%w: vertex count %d is not a multiple of 3", ErrInvalidMesh, count)
	}
	return nil
}

// checkCounts reports the first attribute that does not hold exactly count
// whole vertices.
func (g *Geometry) checkCounts(count int) error {
	for _, name := range g.AttributeNames() {
		a := g.attributes[name]
		if a.ItemSize <= 0 || len(a.Array)%a.ItemSize != 0 {
			return fmt.Errorf("%w: %q has item size %d for %d values", ErrInvalidMesh, name, a.ItemSize, len(a.Array))
		}
		if a.Count() != count {
			return fmt.Errorf("%w: %q has %d vertices, %q has %d", ErrInvalidMesh, name, a.Count(), AttrPosition, count)
		}
	}
	return nil
}

// ToNonIndexed returns a flat copy where every triangle owns its three
// vertices. Shared vertex data is duplicated for each referencing triangle.
// A geometry that is already flat is returned as a plain copy.
func (g *Geometry) ToNonIndexed() (*Geometry, error) {
	if !g.IsIndexed() {
		return g.Clone(), nil
	}

	count := g.VertexCount()
	if err := g.checkCounts(count); err != nil {
		return nil, err
	}
	for i, idx := range g.Index {
		if int(idx) >= count {
			return nil, fmt.Errorf("%w: index %d references vertex %d of %d", ErrInvalidMesh, i, idx, count)
		}
	}

	flat := New()
	for name, a := range g.attributes {
		size := a.ItemSize
		arr := make([]float32, len(g.Index)*size)
		for i, idx := range g.Index {
			copy(arr[i*size:(i+1)*size], a.Array[int(idx)*size:(int(idx)+1)*size])
		}
		flat.attributes[name] = NewAttribute(arr, size)
	}
	return flat, nil
}

// ComputeVertexNormals rebuilds the normal attribute from the triangles.
// Each vertex receives the sum of the un-normalized face normals of the
// triangles that reference it (so larger faces weigh more), then every
// normal is unit-normalized. Flat geometries get their face normal per vertex.
func (g *Geometry) ComputeVertexNormals() error {
	pos := g.Attribute(AttrPosition)
	if pos == nil || pos.ItemSize != 3 {
		return fmt.Errorf("%w: normals need a 3-wide %q attribute", ErrInvalidMesh, AttrPosition)
	}

	count := pos.Count()
	normal := g.Attribute(AttrNormal)
	if normal == nil || normal.ItemSize != 3 || normal.Count() != count {
		normal = NewAttribute(make([]float32, count*3), 3)
		g.SetAttribute(AttrNormal, normal)
	} else {
		clear(normal.Array)
	}

	if g.IsIndexed() {
		for i := 0; i+2 < len(g.Index); i += 3 {
			a, b, c := int(g.Index[i]), int(g.Index[i+1]), int(g.Index[i+2])
			if a >= count || b >= count || c >= count {
				return fmt.Errorf("%w: triangle %d references a missing vertex", ErrInvalidMesh, i/3)
			}
			n := faceNormal(pos.Vec3(a), pos.Vec3(b), pos.Vec3(c))
			normal.SetVec3(a, normal.Vec3(a).Add(n))
			normal.SetVec3(b, normal.Vec3(b).Add(n))
			normal.SetVec3(c, normal.Vec3(c).Add(n))
		}
	} else {
		for i := 0; i+2 < count; i += 3 {
			n := faceNormal(pos.Vec3(i), pos.Vec3(i+1), pos.Vec3(i+2))
			normal.SetVec3(i, n)
			normal.SetVec3(i+1, n)
			normal.SetVec3(i+2, n)
		}
	}

	g.NormalizeNormals()
	return nil
}

// NormalizeNormals scales every normal to unit length. Zero normals stay zero.
func (g *Geometry) NormalizeNormals() {
	normal := g.Attribute(AttrNormal)
	if normal == nil || normal.ItemSize < 3 {
		return
	}
	for i := 0; i < normal.Count(); i++ {
		normal.SetVec3(i, normal.Vec3(i).Normalize())
	}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (g *Geometry) Bounds() (lo, hi math.Vec3) {
	pos := g.Attribute(AttrPosition)
	if pos == nil || pos.Count() == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo = pos.Vec3(0)
	hi = lo
	for i := 1; i < pos.Count(); i++ {
		p := pos.Vec3(i)
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

// faceNormal returns (c - b) x (a - b), whose length is twice the triangle area.
func faceNormal(a, b, c math.Vec3) math.Vec3 {
	return c.Sub(b).Cross(a.Sub(b))
}
