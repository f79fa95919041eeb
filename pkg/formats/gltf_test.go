package formats

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// triangleBuffer returns one triangle's positions followed by uint16 indices.
func triangleBuffer() string {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, [9]float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(buf, binary.LittleEndian, [3]uint16{0, 1, 2})
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// writeGLTF writes a document whose single triangle mesh is referenced by
// the given node list.
func writeGLTF(t *testing.T, nodes, mode string) string {
	t.Helper()
	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": %s,
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1%s}]}],
  "buffers": [{"byteLength": 42, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`, nodes, mode, triangleBuffer())

	path := filepath.Join(t.TempDir(), "mesh.gltf")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write glTF: %v", err)
	}
	return path
}

func TestParseGLTF_SingleNode(t *testing.T) {
	path := writeGLTF(t, `[{"mesh": 0}]`, "")

	g, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if g.VertexCount() != 3 || g.TriangleCount() != 1 {
		t.Errorf("expected 3 vertices and 1 triangle, got %d and %d", g.VertexCount(), g.TriangleCount())
	}
	n := g.Attribute(geometry.AttrNormal).Vec3(0)
	if n != (math.Vec3{Z: 1}) {
		t.Errorf("expected +Z normal, got %v", n)
	}
}

func TestParseGLTF_NodeHierarchy(t *testing.T) {
	nodes := `[
    {"mesh": 0, "translation": [0, 0, 5], "children": [1]},
    {"mesh": 0, "scale": [2, 2, 2]}
  ]`
	g, err := LoadMesh(writeGLTF(t, nodes, ""))
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if g.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles, got %d", g.TriangleCount())
	}

	pos := g.Attribute(geometry.AttrPosition)
	if pos.Vec3(1) != (math.Vec3{X: 1, Z: 5}) {
		t.Errorf("parent vertex: expected (1,0,5), got %v", pos.Vec3(1))
	}
	// The child inherits the parent translation and adds its own scale
	if pos.Vec3(4) != (math.Vec3{X: 2, Z: 5}) {
		t.Errorf("child vertex: expected (2,0,5), got %v", pos.Vec3(4))
	}
	if g.Index[3] != 3 {
		t.Errorf("child indices should be rebased, got %v", g.Index)
	}
}

func TestParseGLTF_SkipsNonTriangles(t *testing.T) {
	// mode 1 is LINES
	_, err := LoadMesh(writeGLTF(t, `[{"mesh": 0}]`, `, "mode": 1`))
	if !errors.Is(err, ErrNoTriangles) {
		t.Errorf("expected ErrNoTriangles, got %v", err)
	}
}

func TestParseGLTF_Missing(t *testing.T) {
	if _, err := ParseGLTFFile(filepath.Join(t.TempDir(), "horse.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseGLTF_OutOfRangeReferences(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
	}{
		{"mesh", `[{"mesh": 4}]`},
		{"child", `[{"mesh": 0, "children": [7]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMesh(writeGLTF(t, tt.nodes, "")); err == nil {
				t.Errorf("expected error for out-of-range %s reference", tt.name)
			}
		})
	}
}

func TestGeometryFromGLTF_Document(t *testing.T) {
	doc, err := gltf.Open(writeGLTF(t, `[{"mesh": 0}]`, ""))
	if err != nil {
		t.Fatalf("gltf.Open failed: %v", err)
	}

	// Point the default scene past the end: the first scene is used.
	bad := uint32(len(doc.Scenes))
	doc.Scene = &bad
	mesh := uint32(0)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: &mesh, Translation: [3]float64{0, 3, 0}})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	g, err := GeometryFromGLTF(doc)
	if err != nil {
		t.Fatalf("GeometryFromGLTF failed: %v", err)
	}
	if g.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles, got %d", g.TriangleCount())
	}
	if p := g.Attribute(geometry.AttrPosition).Vec3(5); p != (math.Vec3{Y: 4}) {
		t.Errorf("added node vertex: expected (0,4,0), got %v", p)
	}
}
