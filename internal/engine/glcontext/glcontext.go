// Package glcontext implements shader.Context on top of OpenGL 4.1 core.
package glcontext

import (
	"bytes"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glplayground/internal/engine/shader"
)

// Context forwards to the OpenGL functions loaded by gl.Init.
// It holds no state; the GL context current on the calling thread is used.
type Context struct{}

var _ shader.Context = Context{}

func (Context) CreateShader(stage shader.Stage) uint32 {
	switch stage {
	case shader.StageFragment:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	default:
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
}

func (Context) ShaderSource(sh uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
}

func (Context) CompileShader(sh uint32) { gl.CompileShader(sh) }

func (Context) ShaderCompiled(sh uint32) bool {
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Context) ShaderInfoLog(sh uint32, limit int) string {
	var logLen int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
	n := clamp(logLen, limit)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetShaderInfoLog(sh, n, nil, &buf[0])
	return cString(buf)
}

func (Context) DeleteShader(sh uint32) { gl.DeleteShader(sh) }

func (Context) CreateProgram() uint32 { return gl.CreateProgram() }

func (Context) AttachShader(program, sh uint32) { gl.AttachShader(program, sh) }

func (Context) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (Context) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Context) ProgramInfoLog(program uint32, limit int) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	n := clamp(logLen, limit)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetProgramInfoLog(program, n, nil, &buf[0])
	return cString(buf)
}

func (Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Context) UseProgram(program uint32) { gl.UseProgram(program) }

func (Context) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Context) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (Context) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

// clamp bounds an info log length (which includes the terminator) to limit bytes of text.
func clamp(logLen int32, limit int) int32 {
	if logLen <= 0 {
		return 0
	}
	if limit > 0 && int(logLen) > limit+1 {
		return int32(limit + 1)
	}
	return logLen
}

// cString returns buf up to its first NUL.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
