// Package lighting provides the light used to shade the base mesh.
package lighting

import (
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// Hemisphere blends between a sky color above and a ground color below,
// weighted by how far a world-space normal points along Up.
type Hemisphere struct {
	Sky       visibility.RGB
	Ground    visibility.RGB
	Intensity float32
	Up        math.Vec3
}

// DefaultHemisphere returns a white sky over a black ground at full intensity.
func DefaultHemisphere() Hemisphere {
	return Hemisphere{
		Sky:       visibility.White,
		Ground:    visibility.RGB{},
		Intensity: 1,
		Up:        math.Vec3{Y: 1},
	}
}

// Irradiance returns the light reaching a surface with the given normal.
// mesh.frag computes the same expression per fragment.
func (h Hemisphere) Irradiance(normal math.Vec3) [3]float32 {
	w := 0.5*normal.Normalize().Dot(h.Up.Normalize()) + 0.5
	sky, ground := h.Sky.Array(), h.Ground.Array()

	var out [3]float32
	for i := range out {
		out[i] = (ground[i] + (sky[i]-ground[i])*w) * h.Intensity
	}
	return out
}

// Shade multiplies a surface color by the irradiance at normal.
func (h Hemisphere) Shade(albedo visibility.RGB, normal math.Vec3) [3]float32 {
	light := h.Irradiance(normal)
	a := albedo.Array()
	return [3]float32{a[0] * light[0], a[1] * light[1], a[2] * light[2]}
}
