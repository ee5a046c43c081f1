// Package mesh holds the exercise shapes and uploads them to vertex buffers.
package mesh

import "fmt"

const floatSize = 4

// Attribute describes one interleaved vertex attribute.
type Attribute struct {
	Location uint32
	Size     int32 // float components
}

// Layout is an ordered list of interleaved float attributes.
type Layout []Attribute

// Components returns the number of floats per vertex.
func (l Layout) Components() int {
	n := 0
	for _, a := range l {
		n += int(a.Size)
	}
	return n
}

// Stride returns the size of one vertex in bytes.
func (l Layout) Stride() int32 {
	return int32(l.Components() * floatSize)
}

// Offset returns the byte offset of attribute i within a vertex.
func (l Layout) Offset(i int) int {
	off := 0
	for _, a := range l[:i] {
		off += int(a.Size)
	}
	return off * floatSize
}

// Geometry is CPU-side vertex data ready for upload.
type Geometry struct {
	Vertices []float32
	Indices  []uint32 // empty for non-indexed draws
	Layout   Layout
}

// VertexCount returns the number of vertices in Vertices.
func (g Geometry) VertexCount() int {
	if c := g.Layout.Components(); c > 0 {
		return len(g.Vertices) / c
	}
	return 0
}

// DrawCount returns the number of elements a draw call consumes.
func (g Geometry) DrawCount() int32 {
	if len(g.Indices) > 0 {
		return int32(len(g.Indices))
	}
	return int32(g.VertexCount())
}

// Validate checks that vertices and indices agree with the layout.
func (g Geometry) Validate() error {
	c := g.Layout.Components()
	if c == 0 {
		return fmt.Errorf("mesh layout has no attributes")
	}
	if len(g.Vertices) == 0 || len(g.Vertices)%c != 0 {
		return fmt.Errorf("vertex data has %d floats, not a multiple of %d", len(g.Vertices), c)
	}
	n := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at position %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

var (
	positionOnly  = Layout{{Location: 0, Size: 3}}
	positionColor = Layout{{Location: 0, Size: 3}, {Location: 1, Size: 3}}
)

// Triangle is the first exercise: three positions in normalized device coordinates.
func Triangle() Geometry {
	return Geometry{
		Vertices: []float32{
			-0.5, -0.5, 0.0,
			0.5, -0.5, 0.0,
			0.0, 0.5, 0.0,
		},
		Layout: positionOnly,
	}
}

// ColoredTriangle carries an RGB colour per vertex.
func ColoredTriangle() Geometry {
	return Geometry{
		Vertices: []float32{
			// Position       // Color
			0.5, -0.5, 0.0, 1.0, 0.0, 0.0, // bottom right
			-0.5, -0.5, 0.0, 0.0, 1.0, 0.0, // bottom left
			0.0, 0.5, 0.0, 0.0, 0.0, 1.0, // top
		},
		Layout: positionColor,
	}
}

// Quad is a rectangle drawn as two indexed triangles.
func Quad() Geometry {
	return Geometry{
		Vertices: []float32{
			0.5, 0.5, 0.0, // top right
			0.5, -0.5, 0.0, // bottom right
			-0.5, -0.5, 0.0, // bottom left
			-0.5, 0.5, 0.0, // top left
		},
		Indices: []uint32{
			0, 1, 3,
			1, 2, 3,
		},
		Layout: positionOnly,
	}
}
