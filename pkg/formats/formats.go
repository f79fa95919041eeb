// Package formats loads triangle meshes from model files into geometry buffers.
//
// Supported inputs:
//
//	.gltf .glb  glTF 2.0 (all triangle primitives, node transforms applied)
//	.stl        binary STL (coincident vertices are welded)
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
)

// ErrUnsupportedFormat is returned for unknown extensions and for
// format flavours the loaders do not read.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Extensions lists the file extensions LoadMesh understands.
var Extensions = []string{".gltf", ".glb", ".stl"}

// LoadMesh reads the model at path. The returned geometry carries
// positions, an index and computed vertex normals.
func LoadMesh(path string) (*geometry.Geometry, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		return ParseGLTFFile(path)
	case ".stl":
		return ParseSTLFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// welder deduplicates exact-equal positions into an indexed buffer.
type welder struct {
	lookup    map[[3]float32]uint32
	positions []float32
	index     []uint32
}

func newWelder(capacity int) *welder {
	return &welder{
		lookup:    make(map[[3]float32]uint32, capacity),
		positions: make([]float32, 0, capacity*3),
		index:     make([]uint32, 0, capacity),
	}
}

func (w *welder) add(p [3]float32) {
	i, ok := w.lookup[p]
	if !ok {
		i = uint32(len(w.positions) / 3)
		w.lookup[p] = i
		w.positions = append(w.positions, p[0], p[1], p[2])
	}
	w.index = append(w.index, i)
}

func (w *welder) geometry() (*geometry.Geometry, error) {
	return geometry.FromTriangles(w.positions, w.index)
}
