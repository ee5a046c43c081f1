// Package shader builds linked GPU programs from a vertex and a fragment stage
// and pushes scalar uniforms into them.
//
// All calls must happen on the thread that owns the graphics context.
package shader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/logger"
)

// log resolves on every call so it follows logger.Init.
func log() *zap.Logger { return logger.Named("shader") }

// MaxInfoLog bounds the diagnostic text captured from a failed compile or link.
const MaxInfoLog = 512

// Stage identifies a pipeline step.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Context is the subset of the graphics API a Program needs.
// UniformLocation returns -1 for names the linked program does not expose.
type Context interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32, limit int) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32, limit int) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
}

// Loader resolves a shader path to its source text.
type Loader interface {
	Load(path string) (string, error)
}

// CompileError carries the info log of a stage that failed to compile.
type CompileError struct {
	Stage Stage
	Path  string // empty for in-memory sources
	Log   string
}

func (e *CompileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s shader %s: %s", e.Stage, e.Path, e.Log)
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// LinkError carries the info log of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "link: " + e.Log
}

// Program owns one linked program handle until Close.
type Program struct {
	ctx    Context
	id     uint32
	closed bool

	locations map[string]int32
	missing   map[string]struct{}
}

// New loads vertexPath and fragmentPath through loader and builds a program from them.
// A source that cannot be loaded is reported before any GPU object is created.
func New(ctx Context, loader Loader, vertexPath, fragmentPath string) (*Program, error) {
	vertexSrc, err := loader.Load(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("loading vertex shader: %w", err)
	}
	fragmentSrc, err := loader.Load(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("loading fragment shader: %w", err)
	}

	p, err := build(ctx, source{StageVertex, vertexPath, vertexSrc}, source{StageFragment, fragmentPath, fragmentSrc})
	if err != nil {
		return nil, err
	}
	log().Debug("shader program built",
		zap.Uint32("program", p.id),
		zap.String("vertex", vertexPath),
		zap.String("fragment", fragmentPath),
	)
	return p, nil
}

// Compile builds a program from in-memory sources.
func Compile(ctx Context, vertexSrc, fragmentSrc string) (*Program, error) {
	p, err := build(ctx, source{stage: StageVertex, text: vertexSrc}, source{stage: StageFragment, text: fragmentSrc})
	if err != nil {
		return nil, err
	}
	log().Debug("shader program built", zap.Uint32("program", p.id))
	return p, nil
}

type source struct {
	stage Stage
	path  string
	text  string
}

func build(ctx Context, vertex, fragment source) (*Program, error) {
	// Compile both stages so both logs are reported, even if the first fails.
	vs, vErr := compileStage(ctx, vertex)
	defer ctx.DeleteShader(vs)
	fs, fErr := compileStage(ctx, fragment)
	defer ctx.DeleteShader(fs)
	if err := errors.Join(vErr, fErr); err != nil {
		return nil, err
	}

	program := ctx.CreateProgram()
	ctx.AttachShader(program, vs)
	ctx.AttachShader(program, fs)
	ctx.LinkProgram(program)

	if !ctx.ProgramLinked(program) {
		msg := ctx.ProgramInfoLog(program, MaxInfoLog)
		ctx.DeleteProgram(program)
		return nil, &LinkError{Log: msg}
	}

	return &Program{
		ctx:       ctx,
		id:        program,
		locations: make(map[string]int32),
		missing:   make(map[string]struct{}),
	}, nil
}

// compileStage always returns the created handle; the caller deletes it.
func compileStage(ctx Context, src source) (uint32, error) {
	sh := ctx.CreateShader(src.stage)
	ctx.ShaderSource(sh, src.text)
	ctx.CompileShader(sh)

	if !ctx.ShaderCompiled(sh) {
		return sh, &CompileError{
			Stage: src.stage,
			Path:  src.path,
			Log:   ctx.ShaderInfoLog(sh, MaxInfoLog),
		}
	}
	return sh, nil
}

// ID returns the program handle, or 0 after Close.
func (p *Program) ID() uint32 {
	if p.closed {
		return 0
	}
	return p.id
}

// Use makes the program current for subsequent draw calls.
func (p *Program) Use() {
	if p.closed {
		return
	}
	p.ctx.UseProgram(p.id)
}

// Location resolves a uniform name against this program.
// Results are cached since the handle never changes after linking.
func (p *Program) Location(name string) (int32, bool) {
	if p.closed {
		return -1, false
	}
	loc, ok := p.locations[name]
	if !ok {
		loc = p.ctx.UniformLocation(p.id, name)
		p.locations[name] = loc
	}
	if loc < 0 {
		if _, seen := p.missing[name]; !seen {
			p.missing[name] = struct{}{}
			// Unused uniforms are stripped by the driver, so this is not an error.
			log().Debug("uniform not found", zap.Uint32("program", p.id), zap.String("name", name))
		}
		return -1, false
	}
	return loc, true
}

// MissingUniforms lists the names set on this program that it does not expose.
func (p *Program) MissingUniforms() []string {
	names := make([]string, 0, len(p.missing))
	for name := range p.missing {
		names = append(names, name)
	}
	return names
}

// SetBool sets a bool uniform, sent as 0 or 1.
// The value lands in the active program; call Use first.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

// SetInt sets an int uniform.
func (p *Program) SetInt(name string, v int32) {
	if loc, ok := p.Location(name); ok {
		p.ctx.Uniform1i(loc, v)
	}
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	if loc, ok := p.Location(name); ok {
		p.ctx.Uniform1f(loc, v)
	}
}

// Close deletes the program handle. Only the first call has an effect.
func (p *Program) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.ctx.DeleteProgram(p.id)
	log().Debug("shader program deleted", zap.Uint32("program", p.id))
}
