// Package shadertest provides an in-memory shader.Context for tests that
// cannot open an OpenGL context.
//
// Compilation is a coarse syntax check rather than a GLSL front end: a stage
// compiles when it starts with a #version directive, defines main, has
// balanced brackets and contains no #error directive. Linking matches the
// fragment stage's inputs against the vertex stage's outputs. Uniforms that
// are declared but never referenced are stripped, as a real driver would.
package shadertest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Faultbox/glplayground/internal/engine/shader"
)

var (
	reVarying = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(in|out)\s+(\w+)\s+(\w+)\s*;`)
	reUniform = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)
	reError   = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
)

type shaderObject struct {
	stage    shader.Stage
	source   string
	compiled bool
	log      string
	deleted  bool
}

type programObject struct {
	attached []*shaderObject
	linked   bool
	log      string
	deleted  bool
	uniforms []string // active uniforms; index is the location
	values   map[string]any
}

// Context records every call made through the shader.Context interface.
type Context struct {
	next     uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject

	// Active is the program selected by the last UseProgram call.
	Active uint32

	ShadersCreated  int
	ShadersDeleted  int
	ProgramsCreated int
	ProgramsDeleted int

	// InvalidDeletes counts deletes of unknown or already deleted handles.
	InvalidDeletes int
	// InvalidOps counts uniform writes that would raise GL_INVALID_OPERATION.
	InvalidOps int
}

var _ shader.Context = (*Context)(nil)

// New returns an empty context.
func New() *Context {
	return &Context{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
	}
}

func (c *Context) handle() uint32 {
	c.next++
	return c.next
}

func (c *Context) CreateShader(stage shader.Stage) uint32 {
	id := c.handle()
	c.shaders[id] = &shaderObject{stage: stage}
	c.ShadersCreated++
	return id
}

func (c *Context) ShaderSource(id uint32, source string) {
	if sh := c.shader(id); sh != nil {
		sh.source = source
	}
}

func (c *Context) CompileShader(id uint32) {
	sh := c.shader(id)
	if sh == nil {
		return
	}
	if msg := check(sh.stage, sh.source); msg != "" {
		sh.compiled = false
		sh.log = msg
		return
	}
	sh.compiled = true
	sh.log = ""
}

func (c *Context) ShaderCompiled(id uint32) bool {
	sh := c.shader(id)
	return sh != nil && sh.compiled
}

func (c *Context) ShaderInfoLog(id uint32, limit int) string {
	sh := c.shader(id)
	if sh == nil {
		return ""
	}
	return truncate(sh.log, limit)
}

func (c *Context) DeleteShader(id uint32) {
	if id == 0 {
		return
	}
	sh, ok := c.shaders[id]
	if !ok || sh.deleted {
		c.InvalidDeletes++
		return
	}
	sh.deleted = true
	c.ShadersDeleted++
}

func (c *Context) CreateProgram() uint32 {
	id := c.handle()
	c.programs[id] = &programObject{values: make(map[string]any)}
	c.ProgramsCreated++
	return id
}

func (c *Context) AttachShader(program, id uint32) {
	p, sh := c.program(program), c.shader(id)
	if p == nil || sh == nil {
		return
	}
	p.attached = append(p.attached, sh)
}

func (c *Context) LinkProgram(program uint32) {
	p := c.program(program)
	if p == nil {
		return
	}
	p.linked = false
	p.uniforms = nil

	var vertex, fragment *shaderObject
	for _, sh := range p.attached {
		if !sh.compiled {
			p.log = "error: linking with uncompiled/unspecialized shader"
			return
		}
		switch sh.stage {
		case shader.StageVertex:
			vertex = sh
		case shader.StageFragment:
			fragment = sh
		}
	}
	if vertex == nil || fragment == nil {
		p.log = "error: program lacks a vertex or fragment stage"
		return
	}

	outputs := declarations(vertex.source, "out")
	for name, typ := range declarations(fragment.source, "in") {
		if outputs[name] != typ {
			p.log = fmt.Sprintf("error: fragment shader input `%s' has no matching vertex shader output", name)
			return
		}
	}

	// A uniform shared by both stages stays active if either stage reads it.
	var order []string
	active := make(map[string]bool)
	for _, sh := range []*shaderObject{vertex, fragment} {
		for _, m := range reUniform.FindAllStringSubmatch(sh.source, -1) {
			name := m[2]
			if _, ok := active[name]; !ok {
				order = append(order, name)
				active[name] = false
			}
			if referenced(sh.source, name) {
				active[name] = true
			}
		}
	}
	for _, name := range order {
		if active[name] {
			p.uniforms = append(p.uniforms, name)
		}
	}
	p.linked = true
	p.log = ""
}

func (c *Context) ProgramLinked(program uint32) bool {
	p := c.program(program)
	return p != nil && p.linked
}

func (c *Context) ProgramInfoLog(program uint32, limit int) string {
	p := c.program(program)
	if p == nil {
		return ""
	}
	return truncate(p.log, limit)
}

func (c *Context) DeleteProgram(program uint32) {
	if program == 0 {
		return
	}
	p, ok := c.programs[program]
	if !ok || p.deleted {
		c.InvalidDeletes++
		return
	}
	p.deleted = true
	c.ProgramsDeleted++
	if c.Active == program {
		c.Active = 0
	}
}

func (c *Context) UseProgram(program uint32) {
	if program != 0 {
		if p := c.program(program); p == nil || !p.linked {
			c.InvalidOps++
			return
		}
	}
	c.Active = program
}

func (c *Context) UniformLocation(program uint32, name string) int32 {
	p := c.program(program)
	if p == nil || !p.linked {
		c.InvalidOps++
		return -1
	}
	for i, u := range p.uniforms {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

func (c *Context) Uniform1i(location int32, v int32) { c.setUniform(location, v) }

func (c *Context) Uniform1f(location int32, v float32) { c.setUniform(location, v) }

func (c *Context) setUniform(location int32, v any) {
	if location == -1 {
		return
	}
	p := c.program(c.Active)
	if p == nil || location < 0 || int(location) >= len(p.uniforms) {
		c.InvalidOps++
		return
	}
	p.values[p.uniforms[location]] = v
}

// Uniform returns the last value written to a uniform of program.
func (c *Context) Uniform(program uint32, name string) (any, bool) {
	p, ok := c.programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// UniformCount returns how many uniforms of program have been written.
func (c *Context) UniformCount(program uint32) int {
	if p, ok := c.programs[program]; ok {
		return len(p.values)
	}
	return 0
}

// LiveShaders returns created minus deleted stage handles.
func (c *Context) LiveShaders() int { return c.ShadersCreated - c.ShadersDeleted }

// LivePrograms returns created minus deleted program handles.
func (c *Context) LivePrograms() int { return c.ProgramsCreated - c.ProgramsDeleted }

func (c *Context) shader(id uint32) *shaderObject {
	if sh, ok := c.shaders[id]; ok && !sh.deleted {
		return sh
	}
	return nil
}

func (c *Context) program(id uint32) *programObject {
	if p, ok := c.programs[id]; ok && !p.deleted {
		return p
	}
	return nil
}

// check returns a Mesa-style info log, or "" when the source is acceptable.
func check(stage shader.Stage, src string) string {
	if strings.TrimSpace(src) == "" {
		return "0:1(1): error: empty shader source"
	}
	if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return "0:1(1): error: #version directive missing"
	}
	if m := reError.FindStringSubmatchIndex(src); m != nil {
		return fmt.Sprintf("0:%d(1): error: %s", lineOf(src, m[0]), strings.TrimSpace(src[m[2]:m[3]]))
	}
	if line, ok := balanced(src); !ok {
		return fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", line)
	}
	if !strings.Contains(src, "void main") {
		return "error: function `main' is not defined"
	}
	if stage == shader.StageFragment && len(declarations(src, "out")) == 0 {
		return "error: fragment shader does not write a colour output"
	}
	return ""
}

func balanced(src string) (int, bool) {
	var stack []rune
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	line := 1
	for _, r := range src {
		switch r {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return line, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return line, len(stack) == 0
}

func declarations(src, qualifier string) map[string]string {
	out := make(map[string]string)
	for _, m := range reVarying.FindAllStringSubmatch(src, -1) {
		if m[1] == qualifier {
			out[m[3]] = m[2]
		}
	}
	return out
}

func referenced(src, name string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return len(re.FindAllStringIndex(src, -1)) > 1
}

func lineOf(src string, offset int) int {
	return strings.Count(src[:offset], "\n") + 1
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
