package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/logger"
)

// Mesh is geometry resident on the GPU.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// Upload copies g into a new VAO/VBO (and EBO for indexed geometry).
// Must be called with a current GL context.
func Upload(g Geometry) (*Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	m := &Mesh{count: g.DrawCount(), indexed: len(g.Indices) > 0}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*floatSize, unsafe.Pointer(&g.Vertices[0]), gl.STATIC_DRAW)

	if m.indexed {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
	}

	stride := g.Layout.Stride()
	for i, a := range g.Layout {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, uintptr(g.Layout.Offset(i)))
		gl.EnableVertexAttribArray(a.Location)
	}

	// The EBO binding is VAO state, so only the array buffer is unbound first.
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", m.vao),
		zap.Int("vertices", g.VertexCount()),
		zap.Bool("indexed", m.indexed),
	)
	return m, nil
}

// Draw issues one draw call for the whole mesh.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
	gl.BindVertexArray(0)
}

// Close releases the buffers. Subsequent calls do nothing.
func (m *Mesh) Close() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
