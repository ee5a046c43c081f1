package shader_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/assets"
	"github.com/Faultbox/glplayground/internal/engine/shader"
	"github.com/Faultbox/glplayground/internal/engine/shader/shadertest"
	"github.com/Faultbox/glplayground/internal/logger"
)

func writeShaders(t *testing.T, files map[string]string) assets.DirLoader {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return assets.DirLoader{Root: dir}
}

func mustCompile(t *testing.T, ctx *shadertest.Context, vs, fs string) *shader.Program {
	t.Helper()
	p, err := shader.Compile(ctx, vs, fs)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return p
}

func TestNewBuildsAndActivates(t *testing.T) {
	ctx := shadertest.New()
	loader := writeShaders(t, map[string]string{
		"a.vert": shadertest.Vertex,
		"a.frag": shadertest.Fragment,
	})

	p, err := shader.New(ctx, loader, "a.vert", "a.frag")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer p.Close()

	if p.ID() == 0 {
		t.Fatal("expected a non-zero program handle")
	}
	if ctx.ShadersCreated != 2 || ctx.LiveShaders() != 0 {
		t.Errorf("expected 2 stage handles created and released, got created=%d live=%d",
			ctx.ShadersCreated, ctx.LiveShaders())
	}
	if ctx.LivePrograms() != 1 {
		t.Errorf("expected exactly one live program, got %d", ctx.LivePrograms())
	}

	p.Use()
	if ctx.Active != p.ID() {
		t.Errorf("expected active program %d, got %d", p.ID(), ctx.Active)
	}
	p.Use()
	if ctx.Active != p.ID() {
		t.Errorf("Use should be idempotent, active is %d", ctx.Active)
	}

	p.SetFloat("time", 1.0)
	if v, ok := ctx.Uniform(p.ID(), "time"); !ok || v != float32(1.0) {
		t.Errorf("expected time=1.0, got %v (set=%v)", v, ok)
	}
}

func TestCompileFailures(t *testing.T) {
	tests := []struct {
		name   string
		vs, fs string
		stages []shader.Stage
	}{
		{"vertex syntax error", shadertest.VertexSyntaxError, shadertest.Fragment, []shader.Stage{shader.StageVertex}},
		{"fragment syntax error", shadertest.Vertex, shadertest.FragmentSyntaxError, []shader.Stage{shader.StageFragment}},
		{"both stages broken", shadertest.VertexSyntaxError, shadertest.FragmentSyntaxError, []shader.Stage{shader.StageVertex, shader.StageFragment}},
		{"empty vertex source", "", shadertest.Fragment, []shader.Stage{shader.StageVertex}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := shadertest.New()

			p, err := shader.Compile(ctx, tt.vs, tt.fs)
			if err == nil {
				p.Close()
				t.Fatal("expected compile error, got nil")
			}
			if p != nil {
				t.Error("expected no program on failure")
			}

			var compileErr *shader.CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("expected *CompileError, got %T: %v", err, err)
			}
			if compileErr.Stage != tt.stages[0] {
				t.Errorf("expected first failing stage %v, got %v", tt.stages[0], compileErr.Stage)
			}
			if compileErr.Log == "" {
				t.Error("expected non-empty compile log")
			}
			for _, stage := range tt.stages {
				if !strings.Contains(err.Error(), stage.String()+" shader") {
					t.Errorf("expected %s failure in %q", stage, err.Error())
				}
			}

			if ctx.LiveShaders() != 0 {
				t.Errorf("leaked %d stage handles", ctx.LiveShaders())
			}
			if ctx.ProgramsCreated != 0 {
				t.Errorf("expected no program handle, %d created", ctx.ProgramsCreated)
			}
		})
	}
}

func TestCompileErrorCarriesPath(t *testing.T) {
	ctx := shadertest.New()
	loader := writeShaders(t, map[string]string{
		"a.vert": shadertest.Vertex,
		"a.frag": shadertest.FragmentSyntaxError,
	})

	_, err := shader.New(ctx, loader, "a.vert", "a.frag")
	var compileErr *shader.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if compileErr.Path != "a.frag" {
		t.Errorf("expected path a.frag, got %q", compileErr.Path)
	}
	if !strings.Contains(compileErr.Log, "unexpected token") {
		t.Errorf("expected #error text in log, got %q", compileErr.Log)
	}
}

func TestLinkFailure(t *testing.T) {
	ctx := shadertest.New()

	_, err := shader.Compile(ctx, shadertest.Vertex, shadertest.FragmentMismatched)
	var linkErr *shader.LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected *LinkError, got %T: %v", err, err)
	}
	if linkErr.Log == "" {
		t.Error("expected non-empty link log")
	}
	if ctx.ProgramsCreated != 1 || ctx.LivePrograms() != 0 {
		t.Errorf("expected failed program to be released, created=%d live=%d",
			ctx.ProgramsCreated, ctx.LivePrograms())
	}
	if ctx.LiveShaders() != 0 {
		t.Errorf("stage handles must be released regardless of link outcome, %d live", ctx.LiveShaders())
	}
}

func TestInfoLogIsBounded(t *testing.T) {
	ctx := shadertest.New()
	src := "#version 330 core\n#error " + strings.Repeat("x", 2*shader.MaxInfoLog) + "\nvoid main() {}\n"

	_, err := shader.Compile(ctx, src, shadertest.Fragment)
	var compileErr *shader.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if len(compileErr.Log) == 0 || len(compileErr.Log) > shader.MaxInfoLog {
		t.Errorf("expected log of 1..%d bytes, got %d", shader.MaxInfoLog, len(compileErr.Log))
	}
}

func TestMissingAsset(t *testing.T) {
	loader := writeShaders(t, map[string]string{
		"a.vert":     shadertest.Vertex,
		"empty.frag": "",
	})

	tests := []struct {
		name     string
		vertex   string
		fragment string
		want     error
	}{
		{"missing vertex", "missing.vert", "empty.frag", fs.ErrNotExist},
		{"missing fragment", "a.vert", "missing.frag", fs.ErrNotExist},
		{"empty fragment", "a.vert", "empty.frag", assets.ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := shadertest.New()

			_, err := shader.New(ctx, loader, tt.vertex, tt.fragment)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if ctx.ShadersCreated != 0 || ctx.ProgramsCreated != 0 {
				t.Errorf("no GPU objects should be created, got shaders=%d programs=%d",
					ctx.ShadersCreated, ctx.ProgramsCreated)
			}
		})
	}
}

func TestUnknownUniformIsNoOp(t *testing.T) {
	ctx := shadertest.New()
	p := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	defer p.Close()

	p.Use()
	p.SetFloat("time", 0.5)

	p.SetFloat("doesNotExist", 1)
	p.SetInt("doesNotExist", 1)
	p.SetBool("doesNotExist", true)

	if n := ctx.UniformCount(p.ID()); n != 1 {
		t.Errorf("expected only 'time' to be set, got %d uniforms", n)
	}
	if v, _ := ctx.Uniform(p.ID(), "time"); v != float32(0.5) {
		t.Errorf("unrelated uniform changed: time=%v", v)
	}
	if ctx.InvalidOps != 0 {
		t.Errorf("unknown uniform should not reach the context, %d invalid ops", ctx.InvalidOps)
	}
	if !slices.Contains(p.MissingUniforms(), "doesNotExist") {
		t.Errorf("expected doesNotExist in missing uniforms, got %v", p.MissingUniforms())
	}
}

func TestMissingUniformLoggedOnce(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "shader.log")
	if err := logger.InitWithFileConfig("debug", logger.FileConfig{Path: logFile}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	t.Cleanup(func() {
		logger.Log = zap.NewNop()
		logger.Sugar = logger.Log.Sugar()
	})

	ctx := shadertest.New()
	p := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	defer p.Close()

	p.Use()
	for i := 0; i < 3; i++ {
		p.SetFloat("doesNotExist", 1)
	}

	logger.Sync()
	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)

	if n := strings.Count(out, "uniform not found"); n != 1 {
		t.Errorf("expected one missing-uniform entry, got %d in %q", n, out)
	}
	if !strings.Contains(out, " shader ") {
		t.Errorf("expected entries under the shader logger, got %q", out)
	}
	if !strings.Contains(out, "shader/shader.go:") {
		t.Errorf("expected caller inside the shader package, got %q", out)
	}
}

func TestStrippedUniformIsNoOp(t *testing.T) {
	ctx := shadertest.New()
	p := mustCompile(t, ctx, shadertest.Vertex, shadertest.FragmentUnusedUniform)
	defer p.Close()

	p.Use()
	p.SetFloat("unused", 3)

	if _, ok := p.Location("unused"); ok {
		t.Error("expected unused uniform to be stripped")
	}
	if ctx.UniformCount(p.ID()) != 0 {
		t.Errorf("expected no uniform writes, got %d", ctx.UniformCount(p.ID()))
	}
}

func TestSetBeforeUseDoesNotPanic(t *testing.T) {
	ctx := shadertest.New()
	p := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	defer p.Close()

	p.SetFloat("time", 1)
	p.SetBool("flip", true)
	p.SetInt("flip", 0)

	if ctx.UniformCount(p.ID()) != 0 {
		t.Error("values set with no active program must not land in this program")
	}
}

func TestSetTargetsActiveProgram(t *testing.T) {
	ctx := shadertest.New()
	a := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	defer a.Close()
	b := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	defer b.Close()

	b.Use()
	b.SetBool("flip", true)
	b.SetFloat("xOffset", 0.25)

	if v, _ := ctx.Uniform(b.ID(), "flip"); v != int32(1) {
		t.Errorf("expected flip sent as 1, got %v", v)
	}
	if v, _ := ctx.Uniform(b.ID(), "xOffset"); v != float32(0.25) {
		t.Errorf("expected xOffset=0.25, got %v", v)
	}
	if ctx.UniformCount(a.ID()) != 0 {
		t.Errorf("inactive program should be untouched, got %d writes", ctx.UniformCount(a.ID()))
	}

	b.SetBool("flip", false)
	if v, _ := ctx.Uniform(b.ID(), "flip"); v != int32(0) {
		t.Errorf("expected flip sent as 0, got %v", v)
	}
}

func TestCloseReleasesOnce(t *testing.T) {
	ctx := shadertest.New()
	p := mustCompile(t, ctx, shadertest.Vertex, shadertest.Fragment)
	p.Use()

	p.Close()
	p.Close()

	if ctx.ProgramsCreated != 1 || ctx.ProgramsDeleted != 1 {
		t.Errorf("expected 1:1 create/delete, got %d:%d", ctx.ProgramsCreated, ctx.ProgramsDeleted)
	}
	if ctx.InvalidDeletes != 0 {
		t.Errorf("expected no double delete, got %d", ctx.InvalidDeletes)
	}
	if p.ID() != 0 {
		t.Errorf("expected ID 0 after Close, got %d", p.ID())
	}

	// Calls on a closed program are ignored.
	p.Use()
	p.SetFloat("time", 1)
	if ctx.Active != 0 {
		t.Errorf("closed program must not become active, got %d", ctx.Active)
	}
	if ctx.InvalidOps != 0 {
		t.Errorf("closed program reached the context, %d invalid ops", ctx.InvalidOps)
	}
}

func TestStageString(t *testing.T) {
	if shader.StageVertex.String() != "vertex" || shader.StageFragment.String() != "fragment" {
		t.Errorf("unexpected stage names %q %q", shader.StageVertex, shader.StageFragment)
	}
	if got := shader.Stage(7).String(); got != "Stage(7)" {
		t.Errorf("unexpected name for unknown stage: %q", got)
	}
}
