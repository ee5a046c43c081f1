// Package window creates the OS window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/engine/input"
	"github.com/Faultbox/glplayground/internal/logger"
)

func log() *zap.Logger { return logger.Named("window") }

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Requested context version. 4.1 core is the highest macOS provides.
const (
	glMajor = 4
	glMinor = 1
)

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Backend    string
}

// Window is an OS window with a current OpenGL context.
type Window interface {
	// Poll resets in and fills it with the events since the last call.
	Poll(in *input.Input)
	SwapBuffers()
	// FramebufferSize returns the drawable size in pixels, which can differ
	// from the window size on high-DPI displays.
	FramebufferSize() (int, int)
	SetTitle(title string)
	Close()
}

// New creates a window with the configured backend and makes its context current.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case BackendSDL, "":
		w, err := newSDL(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendGLFW:
		w, err := newGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}
