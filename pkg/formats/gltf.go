package formats

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// ErrNoTriangles is returned when a glTF document has no triangle primitives.
var ErrNoTriangles = errors.New("glTF document has no triangle primitives")

// ParseGLTFFile opens a .gltf or .glb file and merges its meshes.
func ParseGLTFFile(path string) (*geometry.Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF: %w", err)
	}
	return GeometryFromGLTF(doc)
}

// GeometryFromGLTF merges every triangle primitive reachable from the
// default scene into one indexed geometry in scene space. Documents
// without scenes contribute each mesh once, untransformed.
func GeometryFromGLTF(doc *gltf.Document) (*geometry.Geometry, error) {
	m := &gltfMerger{doc: doc}

	roots, ok := sceneRoots(doc)
	if ok {
		for _, n := range roots {
			if err := m.node(n, math.Identity(), 0); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range uint32(len(doc.Meshes)) {
			if err := m.mesh(i, math.Identity()); err != nil {
				return nil, err
			}
		}
	}

	if len(m.index) == 0 {
		return nil, ErrNoTriangles
	}
	return geometry.FromTriangles(m.positions, m.index)
}

func sceneRoots(doc *gltf.Document) ([]uint32, bool) {
	if len(doc.Scenes) == 0 {
		return nil, false
	}
	scene := 0
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		scene = int(*doc.Scene)
	}
	return doc.Scenes[scene].Nodes, true
}

// maxNodeDepth guards against cyclic node graphs in malformed files.
const maxNodeDepth = 64

type gltfMerger struct {
	doc       *gltf.Document
	positions []float32
	index     []uint32
}

func (m *gltfMerger) node(i uint32, parent math.Mat4, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("glTF node hierarchy deeper than %d", maxNodeDepth)
	}
	if int(i) >= len(m.doc.Nodes) {
		return fmt.Errorf("glTF node %d out of range", i)
	}
	n := m.doc.Nodes[i]
	world := parent.Mul(nodeTransform(n))

	if n.Mesh != nil {
		if err := m.mesh(*n.Mesh, world); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := m.node(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (m *gltfMerger) mesh(i uint32, world math.Mat4) error {
	if int(i) >= len(m.doc.Meshes) {
		return fmt.Errorf("glTF mesh %d out of range", i)
	}
	for p, prim := range m.doc.Meshes[i].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		if err := m.primitive(prim, world); err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", i, p, err)
		}
	}
	return nil
}

func (m *gltfMerger) primitive(prim *gltf.Primitive, world math.Mat4) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	acr, err := m.accessor(posIdx)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(m.doc, acr, nil)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}

	base := uint32(len(m.positions) / 3)
	for _, p := range positions {
		v := world.TransformPoint(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
		m.positions = append(m.positions, v.X, v.Y, v.Z)
	}

	if prim.Indices == nil {
		for i := range uint32(len(positions) / 3 * 3) {
			m.index = append(m.index, base+i)
		}
		return nil
	}

	acr, err = m.accessor(*prim.Indices)
	if err != nil {
		return err
	}
	indices, err := modeler.ReadIndices(m.doc, acr, nil)
	if err != nil {
		return fmt.Errorf("reading indices: %w", err)
	}
	for _, i := range indices[:len(indices)/3*3] {
		if int(i) >= len(positions) {
			return fmt.Errorf("%w: index %d out of range", geometry.ErrInvalidMesh, i)
		}
		m.index = append(m.index, base+i)
	}
	return nil
}

func (m *gltfMerger) accessor(i uint32) (*gltf.Accessor, error) {
	if int(i) >= len(m.doc.Accessors) {
		return nil, fmt.Errorf("glTF accessor %d out of range", i)
	}
	return m.doc.Accessors[i], nil
}

// nodeTransform returns the node's local matrix. An explicit matrix wins
// over translation/rotation/scale; zero-valued fields mean "not set".
func nodeTransform(n *gltf.Node) math.Mat4 {
	if n.Matrix != ([16]float64{}) && n.Matrix != gltf.DefaultMatrix {
		var m math.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s.IsZero() {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.Compose(t, r, s)
}
