package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/glplayground/internal/assets/shaders"
)

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	src := "#version 330 core\nvoid main() {}\n"
	if err := os.WriteFile(filepath.Join(dir, "a.vert"), []byte(src), 0644); err != nil {
		t.Fatalf("failed to write shader: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.frag"), nil, 0644); err != nil {
		t.Fatalf("failed to write shader: %v", err)
	}

	l := DirLoader{Root: dir}

	t.Run("relative path", func(t *testing.T) {
		got, err := l.Load("a.vert")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != src {
			t.Errorf("got %q, want %q", got, src)
		}
	})

	t.Run("absolute path ignores root", func(t *testing.T) {
		got, err := DirLoader{Root: "/nonexistent"}.Load(filepath.Join(dir, "a.vert"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != src {
			t.Errorf("got %q, want %q", got, src)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load("missing.vert")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected fs.ErrNotExist, got %v", err)
		}
		var readErr *ReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("expected *ReadError, got %T", err)
		}
		if !strings.HasSuffix(readErr.Path, "missing.vert") {
			t.Errorf("unexpected path %q", readErr.Path)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := l.Load("empty.frag")
		if !errors.Is(err, ErrEmpty) {
			t.Fatalf("expected ErrEmpty, got %v", err)
		}
	})
}

func TestFSLoaderEmbedded(t *testing.T) {
	l := FSLoader{FS: shaders.FS}

	for _, name := range []string{"shader.vert", "shader.frag", "triangle.vert", "colored.frag"} {
		got, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
		if !strings.HasPrefix(got, "#version") {
			t.Errorf("%s: expected version directive first, got %q", name, got[:min(len(got), 20)])
		}
	}

	if _, err := l.Load("nope.frag"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for unknown shader, got %v", err)
	}
}

type countingLoader struct {
	files map[string]string
	calls int
}

func (c *countingLoader) Load(p string) (string, error) {
	c.calls++
	text, ok := c.files[p]
	if !ok {
		return "", &ReadError{Path: p, Err: fs.ErrNotExist}
	}
	return text, nil
}

func TestCachedLoader(t *testing.T) {
	next := &countingLoader{files: map[string]string{"a.vert": "v1"}}
	l := NewCachedLoader(next)

	for i := 0; i < 3; i++ {
		got, err := l.Load("a.vert")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != "v1" {
			t.Errorf("got %q, want v1", got)
		}
	}
	if next.calls != 1 {
		t.Errorf("expected 1 underlying load, got %d", next.calls)
	}
	hits, misses := l.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits / 1 miss, got %d / %d", hits, misses)
	}

	next.files["a.vert"] = "v2"
	l.Invalidate("a.vert")
	got, err := l.Load("a.vert")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "v2" {
		t.Errorf("expected reloaded text v2, got %q", got)
	}
}

func TestCachedLoaderDoesNotCacheFailures(t *testing.T) {
	next := &countingLoader{files: map[string]string{}}
	l := NewCachedLoader(next)

	if _, err := l.Load("late.frag"); err == nil {
		t.Fatal("expected error for missing file")
	}
	next.files["late.frag"] = "ok"
	got, err := l.Load("late.frag")
	if err != nil {
		t.Fatalf("expected file to load once present: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want ok", got)
	}
}

func TestFSLoaderMapFS(t *testing.T) {
	l := FSLoader{FS: fstest.MapFS{
		"dir/a.frag": {Data: []byte("frag")},
		"empty.vert": {Data: nil},
	}}

	if got, err := l.Load("dir/./a.frag"); err != nil || got != "frag" {
		t.Errorf("Load(dir/./a.frag) = %q, %v", got, err)
	}
	if _, err := l.Load("empty.vert"); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewCache()
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be gone after Delete")
	}
	if text, ok := c.Get("b"); !ok || text != "2" {
		t.Errorf("expected b to survive, got %q (ok=%v)", text, ok)
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected counters to survive Delete, got %d / %d", hits, misses)
	}
}
