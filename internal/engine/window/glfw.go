package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/engine/input"
)

// GLFWWindow wraps a GLFW window. Callbacks fire inside Poll and write to
// the Input passed to it.
type GLFWWindow struct {
	w      *glfw.Window
	target *input.Input
}

func newGLFW(cfg Config) (*GLFWWindow, error) {
	log().Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwInit failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, glMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwCreateWindow failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	g := &GLFWWindow{w: win}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		g.emit(input.Event{Type: input.EventResize, Width: width, Height: height})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k := translateKey(key)
		if k == input.KeyUnknown {
			return
		}
		switch action {
		case glfw.Press:
			g.emit(input.Event{Type: input.EventKeyDown, Key: k})
		case glfw.Repeat:
			g.emit(input.Event{Type: input.EventKeyDown, Key: k, Repeat: true})
		case glfw.Release:
			g.emit(input.Event{Type: input.EventKeyUp, Key: k})
		}
	})

	log().Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return g, nil
}

func (g *GLFWWindow) emit(e input.Event) {
	if g.target != nil {
		g.target.Push(e)
	}
}

// Poll processes pending GLFW events into in.
func (g *GLFWWindow) Poll(in *input.Input) {
	in.Reset()
	g.target = in
	glfw.PollEvents()
	g.target = nil

	if g.w.ShouldClose() {
		in.Push(input.Event{Type: input.EventQuit})
	}
}

func translateKey(k glfw.Key) input.Key {
	switch k {
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeySpace:
		return input.KeySpace
	case glfw.KeyR:
		return input.KeyR
	case glfw.KeyW:
		return input.KeyW
	default:
		return input.KeyUnknown
	}
}

// SwapBuffers swaps the front and back buffers.
func (g *GLFWWindow) SwapBuffers() { g.w.SwapBuffers() }

// FramebufferSize returns the drawable size in pixels.
func (g *GLFWWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }

// SetTitle sets the window title.
func (g *GLFWWindow) SetTitle(title string) { g.w.SetTitle(title) }

// Close destroys the window and terminates GLFW.
func (g *GLFWWindow) Close() {
	log().Info("closing window")
	g.w.Destroy()
	glfw.Terminate()
}
