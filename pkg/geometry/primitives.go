package geometry

import (
	gomath "math"

	"github.com/aalavandhaann/mesh-outline/pkg/math"
)

// TorusOptions configures NewTorus.
type TorusOptions struct {
	Radius          float32 // Distance from the torus center to the tube center
	Tube            float32 // Tube radius
	RadialSegments  int
	TubularSegments int
	Arc             float32 // Central angle in radians
}

// DefaultTorusOptions returns the demo torus: radius 3, tube 1, 12x48 segments.
func DefaultTorusOptions() TorusOptions {
	return TorusOptions{
		Radius:          3,
		Tube:            1,
		RadialSegments:  12,
		TubularSegments: 48,
		Arc:             2 * gomath.Pi,
	}
}

// NewTorus builds an indexed torus lying in the XY plane around the Z axis.
func NewTorus(opts TorusOptions) *Geometry {
	radial := max(opts.RadialSegments, 3)
	tubular := max(opts.TubularSegments, 3)

	var positions, normals []float32
	for j := 0; j <= radial; j++ {
		v := float64(j) / float64(radial) * 2 * gomath.Pi
		for i := 0; i <= tubular; i++ {
			u := float64(i) / float64(tubular) * float64(opts.Arc)

			ring := float64(opts.Radius) + float64(opts.Tube)*gomath.Cos(v)
			vertex := math.Vec3{
				X: float32(ring * gomath.Cos(u)),
				Y: float32(ring * gomath.Sin(u)),
				Z: float32(float64(opts.Tube) * gomath.Sin(v)),
			}
			center := math.Vec3{
				X: float32(float64(opts.Radius) * gomath.Cos(u)),
				Y: float32(float64(opts.Radius) * gomath.Sin(u)),
			}
			n := vertex.Sub(center).Normalize()

			positions = append(positions, vertex.X, vertex.Y, vertex.Z)
			normals = append(normals, n.X, n.Y, n.Z)
		}
	}

	var index []uint32
	stride := uint32(tubular + 1)
	for j := uint32(1); j <= uint32(radial); j++ {
		for i := uint32(1); i <= uint32(tubular); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			index = append(index, a, b, d, b, c, d)
		}
	}

	g := New()
	g.SetAttribute(AttrPosition, NewAttribute(positions, 3))
	g.SetAttribute(AttrNormal, NewAttribute(normals, 3))
	g.Index = index
	return g
}

// NewSphere builds an indexed UV sphere centered at the origin.
// Pole rows emit a single triangle per segment.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	width := max(widthSegments, 3)
	height := max(heightSegments, 2)

	var positions, normals []float32
	grid := make([][]uint32, height+1)
	var next uint32
	for iy := 0; iy <= height; iy++ {
		theta := float64(iy) / float64(height) * gomath.Pi
		grid[iy] = make([]uint32, width+1)
		for ix := 0; ix <= width; ix++ {
			phi := float64(ix) / float64(width) * 2 * gomath.Pi
			p := math.Vec3{
				X: float32(-float64(radius) * gomath.Cos(phi) * gomath.Sin(theta)),
				Y: float32(float64(radius) * gomath.Cos(theta)),
				Z: float32(float64(radius) * gomath.Sin(phi) * gomath.Sin(theta)),
			}
			n := p.Normalize()
			positions = append(positions, p.X, p.Y, p.Z)
			normals = append(normals, n.X, n.Y, n.Z)
			grid[iy][ix] = next
			next++
		}
	}

	var index []uint32
	for iy := 0; iy < height; iy++ {
		for ix := 0; ix < width; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				index = append(index, a, b, d)
			}
			if iy != height-1 {
				index = append(index, b, c, d)
			}
		}
	}

	g := New()
	g.SetAttribute(AttrPosition, NewAttribute(positions, 3))
	g.SetAttribute(AttrNormal, NewAttribute(normals, 3))
	g.Index = index
	return g
}

// NewBox builds an indexed axis-aligned box centered at the origin.
// Each face owns four vertices so corners keep hard normals.
func NewBox(width, height, depth float32) *Geometry {
	half := math.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}
	scale := func(v math.Vec3) math.Vec3 {
		return math.Vec3{X: v.X * half.X, Y: v.Y * half.Y, Z: v.Z * half.Z}
	}

	// u x v == n, so (0,1,2) and (0,2,3) wind counter-clockwise seen from outside
	faces := []struct{ n, u, v math.Vec3 }{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}

	var positions, normals []float32
	var index []uint32
	for f, face := range faces {
		c, u, v := scale(face.n), scale(face.u), scale(face.v)
		corners := [4]math.Vec3{
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		}
		for _, p := range corners {
			positions = append(positions, p.X, p.Y, p.Z)
			normals = append(normals, face.n.X, face.n.Y, face.n.Z)
		}
		base := uint32(f * 4)
		index = append(index, base, base+1, base+2, base, base+2, base+3)
	}

	g := New()
	g.SetAttribute(AttrPosition, NewAttribute(positions, 3))
	g.SetAttribute(AttrNormal, NewAttribute(normals, 3))
	g.Index = index
	return g
}

// FromTriangles builds a mesh from positions (3 floats per vertex) and an
// optional index, computing vertex normals.
func FromTriangles(positions []float32, index []uint32) (*Geometry, error) {
	g := New()
	g.SetAttribute(AttrPosition, NewAttribute(positions, 3))
	g.Index = index
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.ComputeVertexNormals(); err != nil {
		return nil, err
	}
	return g, nil
}
