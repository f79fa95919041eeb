package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrEmptySTL         = errors.New("STL contains no triangles")
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal, three vertices, attribute byte count
)

// STL is a parsed binary STL file.
type STL struct {
	Header    [stlHeaderSize]byte
	Triangles [][3][3]float32
}

// ParseSTL parses a binary STL file from raw bytes. Stored facet normals
// are ignored; normals are recomputed from the winding.
func ParseSTL(data []byte) (*STL, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	r := bytes.NewReader(data)
	stl := &STL{}
	if _, err := r.Read(stl.Header[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedSTLData)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading triangle count", ErrTruncatedSTLData)
	}

	want := stlHeaderSize + 4 + int64(count)*stlRecordSize
	if int64(len(data)) < want {
		if bytes.HasPrefix(data, []byte("solid")) {
			return nil, fmt.Errorf("%w: ASCII STL", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, have %d", ErrTruncatedSTLData, count, want, len(data))
	}
	if count == 0 {
		return nil, ErrEmptySTL
	}

	stl.Triangles = make([][3][3]float32, count)
	for i := range stl.Triangles {
		var rec struct {
			Normal   [3]float32
			Vertices [3][3]float32
			Attr     uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: triangle %d", ErrTruncatedSTLData, i)
		}
		stl.Triangles[i] = rec.Vertices
	}

	return stl, nil
}

// ParseSTLFile parses an STL file from disk and converts it to geometry.
func ParseSTLFile(path string) (*geometry.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	stl, err := ParseSTL(data)
	if err != nil {
		return nil, err
	}
	return stl.Geometry()
}

// Geometry welds the triangle soup into an indexed mesh with vertex normals.
func (s *STL) Geometry() (*geometry.Geometry, error) {
	w := newWelder(len(s.Triangles) * 3)
	for _, tri := range s.Triangles {
		for _, v := range tri {
			w.add(v)
		}
	}
	return w.geometry()
}
