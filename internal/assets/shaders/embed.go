// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	"embed"
)

// FS holds every shader in this directory, addressed by file name.
//
//go:embed *.vert *.frag
var FS embed.FS

// TriangleVertexShader passes positions through unchanged.
//
//go:embed triangle.vert
var TriangleVertexShader string

// TriangleFragmentShader paints every fragment orange.
//
//go:embed triangle.frag
var TriangleFragmentShader string

// ColoredVertexShader forwards a per-vertex colour to the fragment stage.
//
//go:embed colored.vert
var ColoredVertexShader string

// ColoredFragmentShader writes the interpolated vertex colour.
//
//go:embed colored.frag
var ColoredFragmentShader string
