// Package playground runs the OpenGL exercises in a window.
package playground

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/assets"
	"github.com/Faultbox/glplayground/internal/assets/shaders"
	"github.com/Faultbox/glplayground/internal/engine/input"
	"github.com/Faultbox/glplayground/internal/engine/mesh"
	"github.com/Faultbox/glplayground/internal/engine/shader"
	"github.com/Faultbox/glplayground/internal/logger"
)

// Drawable is uploaded geometry.
type Drawable interface {
	Draw()
	Close()
}

// Env is what an exercise may use during Setup.
type Env struct {
	Ctx    shader.Context
	Loader assets.Loader
	Upload func(mesh.Geometry) (Drawable, error)
	// Draw submits a shape for the frame. Nil draws it directly.
	Draw func(Drawable)

	VertexPath   string
	FragmentPath string
	// WatchFiles are the OS paths of the shader files; empty disables hot reload.
	WatchFiles []string
}

func (e Env) submitter() func(Drawable) {
	if e.Draw != nil {
		return e.Draw
	}
	return func(d Drawable) { d.Draw() }
}

// Exercise is one step of the tutorial.
type Exercise interface {
	Name() string
	Setup(env Env) error
	// Frame draws one frame. t is seconds since the loop started.
	Frame(t float64, in *input.Input)
	Close()
}

var registry = map[string]func() Exercise{
	"window": func() Exercise { return &clearOnly{} },
	"triangle": func() Exercise {
		return &hardcoded{name: "triangle", vs: shaders.TriangleVertexShader, fs: shaders.TriangleFragmentShader, geometry: mesh.Triangle}
	},
	"colored-triangle": func() Exercise {
		return &hardcoded{name: "colored-triangle", vs: shaders.ColoredVertexShader, fs: shaders.ColoredFragmentShader, geometry: mesh.ColoredTriangle}
	},
	"quad": func() Exercise {
		return &hardcoded{name: "quad", vs: shaders.TriangleVertexShader, fs: shaders.TriangleFragmentShader, geometry: mesh.Quad}
	},
	"shader-class": func() Exercise { return &shaderClass{} },
}

// Names returns the registered exercise names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh instance of the named exercise.
func Lookup(name string) (Exercise, error) {
	newFn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown exercise %q (have %v)", name, Names())
	}
	return newFn(), nil
}

// clearOnly only clears the screen; the window and loop are the exercise.
type clearOnly struct{}

func (*clearOnly) Name() string                 { return "window" }
func (*clearOnly) Setup(Env) error              { return nil }
func (*clearOnly) Frame(float64, *input.Input) {}
func (*clearOnly) Close()                       {}

// hardcoded draws fixed geometry with sources compiled into the binary.
type hardcoded struct {
	name     string
	vs, fs   string
	geometry func() mesh.Geometry

	program *shader.Program
	shape   Drawable
	draw    func(Drawable)
}

func (h *hardcoded) Name() string { return h.name }

func (h *hardcoded) Setup(env Env) error {
	p, err := shader.Compile(env.Ctx, h.vs, h.fs)
	if err != nil {
		return fmt.Errorf("%s: %w", h.name, err)
	}
	shape, err := env.Upload(h.geometry())
	if err != nil {
		p.Close()
		return fmt.Errorf("%s: uploading mesh: %w", h.name, err)
	}
	h.program, h.shape = p, shape
	h.draw = env.submitter()
	return nil
}

func (h *hardcoded) Frame(float64, *input.Input) {
	h.program.Use()
	h.draw(h.shape)
}

func (h *hardcoded) Close() {
	if h.shape != nil {
		h.shape.Close()
		h.shape = nil
	}
	if h.program != nil {
		h.program.Close()
		h.program = nil
	}
}

// shaderClass loads its sources from files and animates them through uniforms.
// Space flips the shape vertically; R reloads the sources.
type shaderClass struct {
	reloader *shader.Reloader
	shape    Drawable
	draw     func(Drawable)
	flip     bool
}

func (*shaderClass) Name() string { return "shader-class" }

func (s *shaderClass) Setup(env Env) error {
	r, err := shader.NewReloader(env.Ctx, env.Loader, env.VertexPath, env.FragmentPath)
	if err != nil {
		return fmt.Errorf("shader-class: %w", err)
	}
	shape, err := env.Upload(mesh.ColoredTriangle())
	if err != nil {
		r.Close()
		return fmt.Errorf("shader-class: uploading mesh: %w", err)
	}
	if len(env.WatchFiles) > 0 {
		if err := r.Watch(env.WatchFiles...); err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		}
	}
	s.reloader, s.shape = r, shape
	s.draw = env.submitter()
	return nil
}

func (s *shaderClass) Frame(t float64, in *input.Input) {
	if in != nil {
		if in.IsKeyPressed(input.KeySpace) {
			s.flip = !s.flip
		}
		if in.IsKeyPressed(input.KeyR) {
			s.reloader.MarkDirty()
		}
	}
	// Reload errors are logged by the reloader; the previous program keeps drawing.
	_, _ = s.reloader.Poll()

	p := s.reloader.Program()
	p.Use()
	p.SetFloat("time", float32(t))
	p.SetFloat("xOffset", float32(math.Sin(t)*0.5))
	p.SetBool("flip", s.flip)
	s.draw(s.shape)
}

func (s *shaderClass) Close() {
	if s.shape != nil {
		s.shape.Close()
		s.shape = nil
	}
	if s.reloader != nil {
		if err := s.reloader.Close(); err != nil {
			logger.Warn("closing shader watcher", zap.Error(err))
		}
		s.reloader = nil
	}
}
