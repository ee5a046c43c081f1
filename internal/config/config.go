// Package config handles playground configuration loading and management.
package config

// Config holds all playground settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Shaders ShaderConfig  `yaml:"shaders"`
	Logging LoggingConfig `yaml:"logging"`
}

// Window backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// WindowConfig holds window and context settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"` // "sdl" or "glfw"
}

// RenderConfig selects the exercise and its fixed-function state.
type RenderConfig struct {
	Exercise   string     `yaml:"exercise"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Wireframe  bool       `yaml:"wireframe"`
}

// ShaderConfig locates the file-loaded shader pair.
// An empty Dir means the embedded shaders are used.
type ShaderConfig struct {
	Dir       string `yaml:"dir"`
	Vertex    string `yaml:"vertex"`
	Fragment  string `yaml:"fragment"`
	HotReload bool   `yaml:"hot_reload"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "LearnOpenGL",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			Backend:    BackendSDL,
		},
		Render: RenderConfig{
			Exercise:   "shader-class",
			ClearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
			Wireframe:  false,
		},
		Shaders: ShaderConfig{
			Dir:       "",
			Vertex:    "shader.vert",
			Fragment:  "shader.frag",
			HotReload: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
