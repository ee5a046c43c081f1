package playground

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/assets"
	"github.com/Faultbox/glplayground/internal/assets/shaders"
	"github.com/Faultbox/glplayground/internal/config"
	"github.com/Faultbox/glplayground/internal/engine/glcontext"
	"github.com/Faultbox/glplayground/internal/engine/input"
	"github.com/Faultbox/glplayground/internal/engine/mesh"
	"github.com/Faultbox/glplayground/internal/engine/renderer"
	"github.com/Faultbox/glplayground/internal/engine/window"
	"github.com/Faultbox/glplayground/internal/logger"
)

// App owns the window, the renderer and the running exercise.
type App struct {
	cfg      *config.Config
	window   window.Window
	renderer *renderer.Renderer
	input    *input.Input
	loader   assets.Loader
	exercise Exercise
}

// New opens the window and sets up the configured exercise.
func New(cfg *config.Config) (*App, error) {
	ex, err := Lookup(cfg.Render.Exercise)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing playground",
		zap.String("exercise", ex.Name()),
		zap.String("backend", cfg.Window.Backend),
	)

	a := &App{cfg: cfg, input: input.New()}

	// Creates the OpenGL context as well
	a.window, err = window.New(window.Config{
		Title:      title(cfg.Window.Title, ex.Name(), 0),
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Backend:    cfg.Window.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.FramebufferSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Render.ClearColor,
		Wireframe:  cfg.Render.Wireframe,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	env := environment(cfg.Shaders)
	env.Draw = func(d Drawable) { a.renderer.Draw(d) }
	a.loader = env.Loader

	if err := ex.Setup(env); err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to set up exercise: %w", err)
	}
	a.exercise = ex

	logger.Info("playground initialized")
	return a, nil
}

// environment wires the shader sources: the embedded set, or a directory
// on disk that can be watched.
func environment(sc config.ShaderConfig) Env {
	env := Env{
		Ctx:          glcontext.Context{},
		Loader:       assets.FSLoader{FS: shaders.FS},
		Upload:       upload,
		VertexPath:   sc.Vertex,
		FragmentPath: sc.Fragment,
	}
	if sc.Dir != "" {
		env.Loader = assets.NewCachedLoader(assets.DirLoader{Root: sc.Dir})
		if sc.HotReload {
			env.WatchFiles = []string{
				resolve(sc.Dir, sc.Vertex),
				resolve(sc.Dir, sc.Fragment),
			}
		}
	}
	return env
}

// resolve mirrors assets.DirLoader: absolute names ignore dir.
func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// title formats the window title; fps <= 0 leaves the rate out.
func title(base, exercise string, fps int) string {
	if fps <= 0 {
		return fmt.Sprintf("%s - %s", base, exercise)
	}
	return fmt.Sprintf("%s - %s (%d fps)", base, exercise, fps)
}

func upload(g mesh.Geometry) (Drawable, error) {
	m, err := mesh.Upload(g)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Run drives the render loop until the window is closed or Escape is pressed.
func (a *App) Run() error {
	start := time.Now()
	frameCount := 0
	fpsTimer := start

	logger.Info("starting render loop")

	for {
		a.window.Poll(a.input)
		if a.input.QuitRequested() {
			break
		}

		if width, height, ok := a.input.Resized(); ok {
			a.renderer.Resize(width, height)
		}
		if a.input.IsKeyPressed(input.KeyW) {
			a.renderer.SetWireframe(!a.renderer.Wireframe())
		}

		a.renderer.Begin()
		a.exercise.Frame(time.Since(start).Seconds(), a.input)

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Int("draws", a.renderer.DrawCalls()))
			a.window.SetTitle(title(a.cfg.Window.Title, a.exercise.Name(), frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	logger.Info("render loop stopped")
	return nil
}

// Close releases everything in reverse order of creation.
func (a *App) Close() {
	logger.Info("closing playground")

	if a.exercise != nil {
		a.exercise.Close()
	}
	logCacheStats(a.loader)
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// logCacheStats reports how often the shader source cache avoided a read.
func logCacheStats(l assets.Loader) {
	c, ok := l.(*assets.CachedLoader)
	if !ok {
		return
	}
	hits, misses := c.Stats()
	logger.Debug("shader source cache", zap.Int("hits", hits), zap.Int("misses", misses))
}
