// Package scene holds the objects shown by the viewers: a base mesh and its
// silhouette line geometry per node. It has no GL state; renderers upload
// node geometry on demand and use Version to notice changes.
package scene

import (
	"errors"
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/silhouette"
)

// ErrEmptyName is returned when a node is added without a name.
var ErrEmptyName = errors.New("scene node needs a name")

// Node is one mesh with its outline. The node owns both geometries; they
// must not be modified after the node is built.
type Node struct {
	Name    string
	Mesh    *geometry.Geometry
	Outline *geometry.Geometry
	Stats   silhouette.Summary

	// Model is the node's world transform.
	Model math.Mat4

	ShowMesh    bool
	ShowOutline bool
}

// NewNode extracts the outline of mesh and returns a visible node with an
// identity transform.
func NewNode(name string, mesh *geometry.Geometry) (*Node, error) {
	outline, err := silhouette.Extract(mesh)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}
	return NewNodeWithOutline(name, mesh, outline)
}

// NewNodeWithOutline builds a node from an already extracted outline.
func NewNodeWithOutline(name string, mesh, outline *geometry.Geometry) (*Node, error) {
	stats, err := silhouette.Stats(outline)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}
	return &Node{
		Name:        name,
		Mesh:        mesh,
		Outline:     outline,
		Stats:       stats,
		Model:       math.Identity(),
		ShowMesh:    true,
		ShowOutline: true,
	}, nil
}

// Bounds returns the world-space bounding box of the node's mesh.
func (n *Node) Bounds() (lo, hi math.Vec3) {
	mlo, mhi := n.Mesh.Bounds()
	if n.Model == math.Identity() {
		return mlo, mhi
	}

	// Transform all eight corners; the result stays axis aligned.
	first := true
	for i := range 8 {
		c := mlo
		if i&1 != 0 {
			c.X = mhi.X
		}
		if i&2 != 0 {
			c.Y = mhi.Y
		}
		if i&4 != 0 {
			c.Z = mhi.Z
		}
		w := n.Model.TransformPoint(c)
		if first {
			lo, hi, first = w, w, false
			continue
		}
		lo = math.Vec3{X: min(lo.X, w.X), Y: min(lo.Y, w.Y), Z: min(lo.Z, w.Z)}
		hi = math.Vec3{X: max(hi.X, w.X), Y: max(hi.Y, w.Y), Z: max(hi.Z, w.Z)}
	}
	return lo, hi
}

// Scene is an ordered set of uniquely named nodes. It is owned by the
// render thread and is not safe for concurrent use.
type Scene struct {
	nodes   []*Node
	version uint64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add inserts n, replacing any node with the same name in place.
func (s *Scene) Add(n *Node) error {
	if n.Name == "" {
		return ErrEmptyName
	}
	s.version++
	for i, existing := range s.nodes {
		if existing.Name == n.Name {
			s.nodes[i] = n
			return nil
		}
	}
	s.nodes = append(s.nodes, n)
	return nil
}

// Remove deletes the named node and reports whether it existed.
func (s *Scene) Remove(name string) bool {
	for i, n := range s.nodes {
		if n.Name == name {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// Clear removes all nodes.
func (s *Scene) Clear() {
	if len(s.nodes) == 0 {
		return
	}
	s.nodes = nil
	s.version++
}

// Find returns the named node or nil.
func (s *Scene) Find(name string) *Node {
	for _, n := range s.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Version changes whenever nodes are added, replaced or removed.
// Visibility toggles and transforms do not bump it.
func (s *Scene) Version() uint64 {
	return s.version
}

// SetVisibility applies the mesh and outline toggles to every node.
func (s *Scene) SetVisibility(showMesh, showOutline bool) {
	for _, n := range s.nodes {
		n.ShowMesh = showMesh
		n.ShowOutline = showOutline
	}
}

// Bounds returns the union of all node bounds. ok is false for an empty scene.
func (s *Scene) Bounds() (lo, hi math.Vec3, ok bool) {
	for i, n := range s.nodes {
		nlo, nhi := n.Bounds()
		if i == 0 {
			lo, hi = nlo, nhi
			continue
		}
		lo = math.Vec3{X: min(lo.X, nlo.X), Y: min(lo.Y, nlo.Y), Z: min(lo.Z, nlo.Z)}
		hi = math.Vec3{X: max(hi.X, nhi.X), Y: max(hi.Y, nhi.Y), Z: max(hi.Z, nhi.Z)}
	}
	return lo, hi, len(s.nodes) > 0
}

// Totals sums the outline statistics of all nodes.
func (s *Scene) Totals() silhouette.Summary {
	var t silhouette.Summary
	for _, n := range s.nodes {
		t.Triangles += n.Stats.Triangles
		t.Segments += n.Stats.Segments
		t.Vertices += n.Stats.Vertices
		t.Degenerate += n.Stats.Degenerate
	}
	return t
}
