// Package build drives the parser over source files: single units, batches
// parsed concurrently, a content-addressed cache and a directory watcher.
package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/parser"
	"github.com/jodin-lang/jodin/internal/position"
)

// DefaultExtension is the file extension of Jodin sources.
const DefaultExtension = ".jdn"

// Options configures how units are parsed.
type Options struct {
	Workers    int          // parallel parses; <=0 means NumCPU
	Extensions []string     // source extensions; empty means DefaultExtension
	Cache      *Cache       // optional parse cache
	Logger     *slog.Logger // optional; parser debug output goes here too
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return []string{DefaultExtension}
	}
	return o.Extensions
}

// IsSource reports whether path has one of the configured extensions.
func (o Options) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range o.extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

func (o Options) parserOptions() []parser.Option {
	if o.Logger == nil {
		return nil
	}
	return []parser.Option{parser.WithLogger(o.Logger)}
}

// Unit is the outcome of parsing one source file. Err holds the parse
// failure, if any; I/O failures are returned separately by ParseFile.
type Unit struct {
	Path   string
	Source *position.SourceFile
	// AST is shared with the cache and with every other Unit that hit the
	// same entry when Cached is set. Treat it as read-only.
	AST    *ast.TopLevelDeclarations
	Err    error
	Took   time.Duration
	Cached bool
}

// OK reports whether the unit parsed cleanly.
func (u *Unit) OK() bool { return u.Err == nil }

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts Options) (*Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSource(path, string(content), opts), nil
}

// ParseSource parses content as the unit named path, consulting the cache
// when one is configured.
func ParseSource(path, content string, opts Options) *Unit {
	start := time.Now()
	u := &Unit{Path: path, Source: position.NewSourceFile(path, content)}

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor(path, content)
		if entry, ok := opts.Cache.Get(key); ok {
			u.AST, u.Err, u.Cached = entry.AST, entry.Err, true
			u.Took = time.Since(start)
			return u
		}
	}

	u.AST, u.Err = parser.ParseString(path, content, opts.parserOptions()...)
	if opts.Cache != nil {
		opts.Cache.Put(key, Entry{AST: u.AST, Err: u.Err, Size: int64(len(content))})
	}
	u.Took = time.Since(start)

	if opts.Logger != nil {
		opts.Logger.Debug("parsed unit", "path", path, "ok", u.OK(), "took", u.Took)
	}
	return u
}
