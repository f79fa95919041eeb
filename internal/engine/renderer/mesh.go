package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/silhouette"
)

// Attribute locations shared by every program.
const (
	LocPosition  uint32 = 0
	LocNormal    uint32 = 1
	LocControl   uint32 = 2
	LocDirection uint32 = 3
	LocCollapse  uint32 = 4
)

// attributeLocations maps locations to GLSL input names for BindAttribLocation.
var attributeLocations = map[uint32]string{
	LocPosition:  geometry.AttrPosition,
	LocNormal:    geometry.AttrNormal,
	LocControl:   silhouette.AttrControl,
	LocDirection: silhouette.AttrDirection,
	LocCollapse:  silhouette.AttrCollapse,
}

// gpuMesh is a geometry uploaded into one VBO per attribute.
type gpuMesh struct {
	vao     uint32
	vbos    []uint32
	ebo     uint32
	count   int32
	indexed bool
}

// uploadMesh copies every known attribute of g into GPU buffers.
func uploadMesh(g *geometry.Geometry) *gpuMesh {
	m := &gpuMesh{}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	for loc, name := range attributeLocations {
		a := g.Attribute(name)
		if a == nil || len(a.Array) == 0 {
			continue
		}
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Array)*4, gl.Ptr(a.Array), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(loc, int32(a.ItemSize), gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(loc)
		m.vbos = append(m.vbos, vbo)
	}

	if g.IsIndexed() {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Index)*4, gl.Ptr(g.Index), gl.STATIC_DRAW)
		m.indexed = true
		m.count = int32(len(g.Index))
	} else {
		m.count = int32(g.VertexCount())
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

func (m *gpuMesh) draw(mode uint32) {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(mode, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, m.count)
	}
	gl.BindVertexArray(0)
}

func (m *gpuMesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if len(m.vbos) > 0 {
		gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}
