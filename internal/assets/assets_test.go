package assets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/pkg/formats"
	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
)

func defaultSource() Source {
	return SourceFromConfig(config.Default().Mesh)
}

func TestSourceBuildShapes(t *testing.T) {
	tests := []struct {
		shape     string
		triangles int
	}{
		{config.ShapeTorus, 1152},
		{config.ShapeBox, 12},
		{"SPHERE", 80}, // pole rows emit one triangle per segment
	}

	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			src := defaultSource().WithShape(tt.shape)
			src.Sphere = config.SphereConfig{Radius: 1, WidthSegments: 10, HeightSegments: 5}
			mesh, err := src.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := mesh.TriangleCount(); got != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.triangles)
			}
		})
	}
}

func TestSourceBuildUnknownShape(t *testing.T) {
	_, err := defaultSource().WithShape("teapot").Build()
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Build() error = %v, want ErrUnknownShape", err)
	}
}

func TestSourceBuildMissingModel(t *testing.T) {
	src := defaultSource().WithPath(filepath.Join(t.TempDir(), "missing.stl"))
	if _, err := src.Build(); err == nil {
		t.Error("Build() should fail for a missing model")
	}

	src = defaultSource().WithPath("model.obj")
	if _, err := src.Build(); !errors.Is(err, formats.ErrUnsupportedFormat) {
		t.Errorf("Build() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSourceScale(t *testing.T) {
	src := defaultSource().WithShape(config.ShapeBox)
	src.Box = config.BoxConfig{Width: 2, Height: 2, Depth: 2}
	src.Scale = 3

	mesh, err := src.Build()
	if err != nil {
		t.Fatal(err)
	}
	_, hi := mesh.Bounds()
	if hi.X != 3 || hi.Y != 3 || hi.Z != 3 {
		t.Errorf("scaled bounds hi = %v, want (3,3,3)", hi)
	}
}

func TestSourceName(t *testing.T) {
	if got := defaultSource().WithShape("Torus").Name(); got != "torus" {
		t.Errorf("Name() = %q, want torus", got)
	}
	if got := defaultSource().WithPath("/models/bunny.glb").Name(); got != "bunny.glb" {
		t.Errorf("Name() = %q, want bunny.glb", got)
	}
}

func TestManagerLoadUsesCache(t *testing.T) {
	m := NewManager(NewCache(4))
	src := defaultSource()

	first, err := m.Load(src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first.Name != "torus" {
		t.Errorf("Name = %q, want torus", first.Name)
	}
	if first.Stats.Triangles != 1152 {
		t.Errorf("Triangles = %d, want 1152", first.Stats.Triangles)
	}

	second, err := m.Load(src)
	if err != nil {
		t.Fatal(err)
	}
	if second.Outline == first.Outline {
		t.Error("each node should own its outline")
	}
	if second.Outline.VertexCount() != first.Outline.VertexCount() {
		t.Errorf("cached outline has %d vertices, want %d", second.Outline.VertexCount(), first.Outline.VertexCount())
	}

	// Changing one node's outline leaves the cache and other nodes intact
	pos := second.Outline.Attribute(geometry.AttrPosition)
	pos.Array[0] += 100
	third, err := m.Load(src)
	if err != nil {
		t.Fatal(err)
	}
	want := first.Outline.Attribute(geometry.AttrPosition).Array[0]
	if got := third.Outline.Attribute(geometry.AttrPosition).Array[0]; got != want {
		t.Errorf("cached outline was modified through a node: got %v, want %v", got, want)
	}
	if second.Mesh == first.Mesh {
		t.Error("each load should build its own mesh")
	}

	hits, misses := m.Cache().Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (2, 1)", hits, misses)
	}

	m.Close()
	if m.Cache().Len() != 0 {
		t.Error("Close() should clear the cache")
	}
}

func TestHashGeometry(t *testing.T) {
	a := geometry.NewBox(1, 1, 1)
	b := geometry.NewBox(1, 1, 1)
	if HashGeometry(a) != HashGeometry(b) {
		t.Error("identical meshes should hash equal")
	}

	// Normals are ignored
	b.DeleteAttribute(geometry.AttrNormal)
	if HashGeometry(a) != HashGeometry(b) {
		t.Error("hash should not depend on normals")
	}

	if HashGeometry(a) == HashGeometry(geometry.NewBox(1, 2, 1)) {
		t.Error("different positions should hash differently")
	}

	flat, err := a.ToNonIndexed()
	if err != nil {
		t.Fatal(err)
	}
	c := geometry.New()
	c.SetAttribute(geometry.AttrPosition, flat.Attribute(geometry.AttrPosition))
	c.Index = []uint32{0, 1, 2}
	if HashGeometry(flat) == HashGeometry(c) {
		t.Error("index should be part of the hash")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	g1, g2, g3 := geometry.New(), geometry.New(), geometry.New()

	c.Put(1, g1)
	c.Put(2, g2)
	c.Put(1, g1) // refresh does not reorder
	c.Put(3, g3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("oldest entry should be evicted")
	}
	if got, ok := c.Get(3); !ok || got != g3 {
		t.Error("newest entry should be cached")
	}

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (2, 1)", hits, misses)
	}

	c.Clear()
	hits, misses = c.Stats()
	if c.Len() != 0 || hits != 0 || misses != 0 {
		t.Error("Clear() should reset entries and stats")
	}
}

func TestCacheMinimumCapacity(t *testing.T) {
	c := NewCache(0)
	c.Put(1, geometry.New())
	c.Put(2, geometry.New())
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func pollUntil(t *testing.T, l *Loader) Result {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		if r, ok := l.Poll(); ok {
			return r
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for loader result")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestLoaderDeliversResults(t *testing.T) {
	l := NewLoader(NewManager(nil), 2)
	if _, ok := l.Poll(); ok {
		t.Fatal("Poll() on an idle loader returned a result")
	}

	l.Load(context.Background(), defaultSource().WithShape(config.ShapeBox))
	r := pollUntil(t, l)
	if r.Err != nil {
		t.Fatalf("result error = %v", r.Err)
	}
	if r.Node == nil || r.Node.Name != "box" {
		t.Fatalf("result node = %+v, want box", r.Node)
	}

	l.Load(context.Background(), defaultSource().WithShape("teapot"))
	r = pollUntil(t, l)
	if !errors.Is(r.Err, ErrUnknownShape) || r.Node != nil {
		t.Errorf("result = %+v, want ErrUnknownShape", r)
	}
	l.Wait()
}

func TestLoaderDropsCancelled(t *testing.T) {
	l := NewLoader(NewManager(nil), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l.Load(ctx, defaultSource().WithShape(config.ShapeBox))
	l.Wait()

	if r, ok := l.Poll(); ok {
		t.Errorf("cancelled load delivered %+v", r)
	}
}
