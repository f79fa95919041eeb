package silhouette

import (
	"fmt"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
)

// Summary describes an extracted line geometry.
type Summary struct {
	Triangles  int
	Segments   int
	Vertices   int
	Degenerate int // Segments whose side normal vanished (control == position)
}

// Stats inspects a geometry produced by Extract.
func Stats(line *geometry.Geometry) (Summary, error) {
	pos := line.Attribute(geometry.AttrPosition)
	control := line.Attribute(AttrControl)
	if pos == nil || control == nil || line.Attribute(AttrDirection) == nil || line.Attribute(AttrCollapse) == nil {
		return Summary{}, fmt.Errorf("%w: not a silhouette line geometry", geometry.ErrInvalidMesh)
	}

	s := Summary{
		Vertices:  pos.Count(),
		Segments:  pos.Count() / 2,
		Triangles: pos.Count() / VerticesPerTriangle,
	}
	for i := 0; i+1 < pos.Count(); i += 2 {
		if pos.Vec3(i) == control.Vec3(i) {
			s.Degenerate++
		}
	}
	return s, nil
}
