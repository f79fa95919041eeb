// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms the base mesh and passes view-space normals.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades the base mesh with a hemisphere light.
//
//go:embed mesh.frag
var MeshFragmentShader string

// BandVertexShader computes the normal-to-view edge factor per vertex.
//
//go:embed outline_band.vert
var BandVertexShader string

// BandFragmentShader discards fragments outside the angle band.
//
//go:embed outline_band.frag
var BandFragmentShader string

// CollapseVertexShader collapses silhouette segments inside the projected band.
//
//go:embed outline_collapse.vert
var CollapseVertexShader string

// CollapseFragmentShader draws outline segments in a flat color.
//
//go:embed outline_collapse.frag
var CollapseFragmentShader string
