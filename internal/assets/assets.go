// Package assets resolves shader source paths to text.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// ErrEmpty is returned for a source file that exists but has no content.
var ErrEmpty = errors.New("asset is empty")

// ReadError reports a path that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading asset %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Loader resolves a path to UTF-8 text.
type Loader interface {
	Load(path string) (string, error)
}

// DirLoader reads files relative to Root. An empty Root means the working directory.
type DirLoader struct {
	Root string
}

// Load reads the file at Root/name.
func (l DirLoader) Load(name string) (string, error) {
	p := name
	if l.Root != "" && !filepath.IsAbs(name) {
		p = filepath.Join(l.Root, name)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", &ReadError{Path: p, Err: err}
	}
	return checkEmpty(p, data)
}

// FSLoader reads files from an fs.FS, e.g. the embedded shader set.
type FSLoader struct {
	FS fs.FS
}

// Load reads name from the file system.
func (l FSLoader) Load(name string) (string, error) {
	data, err := fs.ReadFile(l.FS, path.Clean(filepath.ToSlash(name)))
	if err != nil {
		return "", &ReadError{Path: name, Err: err}
	}
	return checkEmpty(name, data)
}

func checkEmpty(p string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ReadError{Path: p, Err: ErrEmpty}
	}
	return string(data), nil
}

// CachedLoader memoizes another Loader. Failed loads are not cached.
type CachedLoader struct {
	next  Loader
	cache *Cache
}

// NewCachedLoader wraps next with an in-memory cache.
func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{next: next, cache: NewCache()}
}

// Load returns the cached text for p, loading it on a miss.
func (l *CachedLoader) Load(p string) (string, error) {
	if text, ok := l.cache.Get(p); ok {
		return text, nil
	}
	text, err := l.next.Load(p)
	if err != nil {
		return "", err
	}
	l.cache.Set(p, text)
	return text, nil
}

// Invalidate drops p so the next Load reads it again.
func (l *CachedLoader) Invalidate(p string) {
	l.cache.Delete(p)
}

// Stats returns cache hit/miss counters.
func (l *CachedLoader) Stats() (hits, misses int) {
	return l.cache.Stats()
}

// Cache is a simple in-memory cache for loaded text assets.
type Cache struct {
	data map[string]string
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]string),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return text, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = text
}

// Delete removes a single item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
