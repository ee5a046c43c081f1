// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Wireframe  bool
}

// Drawable is anything that issues its own draw call.
type Drawable interface {
	Draw()
}

// Renderer owns the fixed-function state of the frame.
type Renderer struct {
	config    Config
	drawCalls int
}

// New loads the OpenGL function pointers and sets the initial state.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	r.Resize(cfg.Width, cfg.Height)
	r.SetWireframe(cfg.Wireframe)

	return r, nil
}

// Resize maps normalized device coordinates onto the new framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe switches between filled and line polygons.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports the current polygon mode.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	r.drawCalls = 0
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw submits d with the currently bound program.
func (r *Renderer) Draw(d Drawable) {
	d.Draw()
	r.drawCalls++
}

// DrawCalls returns the number of draws since Begin.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

// Close releases renderer resources. The renderer owns no GL objects yet.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}
