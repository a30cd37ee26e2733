package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jodin-lang/jodin/internal/ast"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func cached(c *Cache, key CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.table[key]
	return ok
}

func TestCache_LRU(t *testing.T) {
	c := NewCache(2)
	k1, k2, k3 := KeyFor("a", "1"), KeyFor("b", "2"), KeyFor("c", "3")
	c.Put(k1, Entry{Size: 1})
	c.Put(k2, Entry{Size: 2})
	if _, ok := c.Get(k1); !ok {
		t.Fatalf("expected hit k1")
	}
	c.Put(k3, Entry{Size: 3}) // should evict k2
	if _, ok := c.Get(k2); ok {
		t.Fatalf("expected eviction of k2")
	}
	if !cached(c, k1) || !cached(c, k3) {
		t.Fatalf("expected k1 and k3 to survive")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Evictions != 1 || st.Entries != 2 || st.Bytes != 4 {
		t.Errorf("unexpected stats %+v", st)
	}

	c.Invalidate(k1)
	if cached(c, k1) {
		t.Fatalf("expected removal")
	}
	if st := c.Stats(); st.Entries != 1 || st.Bytes != 3 {
		t.Errorf("unexpected stats after invalidate %+v", st)
	}
}

func TestKeyFor(t *testing.T) {
	if KeyFor("a.jdn", "x") == KeyFor("b.jdn", "x") {
		t.Error("key ignores the unit name")
	}
	if KeyFor("a.jdn", "x") != KeyFor("a.jdn", "x") {
		t.Error("key is not deterministic")
	}
	if len(KeyFor("", "")) != 64 {
		t.Error("expected a hex sha256 key")
	}
}

func TestParseSource_Cache(t *testing.T) {
	cache := NewCache(8)
	opts := Options{Cache: cache}

	first := ParseSource("a.jdn", "fn main() {}", opts)
	if !first.OK() || first.Cached {
		t.Fatalf("first parse: ok=%v cached=%v err=%v", first.OK(), first.Cached, first.Err)
	}
	second := ParseSource("a.jdn", "fn main() {}", opts)
	if !second.Cached || second.AST != first.AST {
		t.Fatalf("expected cached tree on second parse")
	}

	bad := ParseSource("b.jdn", "fn main( {}", opts)
	if bad.OK() {
		t.Fatal("expected parse failure")
	}
	again := ParseSource("b.jdn", "fn main( {}", opts)
	if !again.Cached || again.Err == nil {
		t.Fatal("expected failures to be cached too")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.jdn")
	writeFile(t, path, "public fn main() { return; }\n")

	u, err := ParseFile(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !u.OK() {
		t.Fatalf("parse failed: %v", u.Err)
	}
	if len(u.AST.Decls) != 1 {
		t.Fatalf("got %d declarations", len(u.AST.Decls))
	}
	if vis, ok := u.AST.Decls[0].Meta().Tags.Visibility(); !ok || vis != ast.Public {
		t.Errorf("visibility = %v, %v", vis, ok)
	}
	if u.Source.Filename != path {
		t.Errorf("source name = %q", u.Source.Filename)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.jdn"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParseAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{
		"fn a() {}",
		"fn b( {}",
		"struct C { x: int }",
		"let d = 1;",
		"enum E { A, B, }",
	} {
		p := filepath.Join(dir, string(rune('a'+i))+".jdn")
		writeFile(t, p, src)
		paths = append(paths, p)
	}

	for _, workers := range []int{1, 3} {
		units, stats, err := ParseAll(context.Background(), paths, Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		for i, u := range units {
			if u.Path != paths[i] {
				t.Errorf("workers=%d: unit %d is %s, want %s", workers, i, u.Path, paths[i])
			}
		}
		if units[1].OK() {
			t.Errorf("workers=%d: expected b.jdn to fail", workers)
		}
		if stats.Total != 5 || stats.Succeeded != 4 || stats.Failed != 1 {
			t.Errorf("workers=%d: unexpected stats %+v", workers, stats)
		}
		if stats.MaxParallel < 1 || stats.MaxParallel > int64(workers) {
			t.Errorf("workers=%d: max parallel %d", workers, stats.MaxParallel)
		}
	}
}

func TestParseAll_CacheHits(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jdn")
	writeFile(t, p, "fn a() {}")

	opts := Options{Cache: NewCache(4)}
	if _, _, err := ParseAll(context.Background(), []string{p}, opts); err != nil {
		t.Fatal(err)
	}
	_, stats, err := ParseAll(context.Background(), []string{p}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CacheHits != 1 {
		t.Errorf("cache hits = %d", stats.CacheHits)
	}
}

func TestParseAll_IOError(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.jdn")
	writeFile(t, good, "fn a() {}")

	_, _, err := ParseAll(context.Background(), []string{good, filepath.Join(dir, "nope.jdn")}, Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParseAll_Canceled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jdn")
	writeFile(t, p, "fn a() {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths := make([]string, 16)
	for i := range paths {
		paths[i] = p
	}
	_, _, err := ParseAll(ctx, paths, Options{Workers: 1})
	if err == nil {
		// Every parse may have won the race against cancellation; that is
		// still a valid outcome.
		return
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSnapshotAndDiff(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jdn"), "fn a() {}")
	writeFile(t, filepath.Join(dir, "sub", "b.jdn"), "fn b() {}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".git", "c.jdn"), "hidden")

	prev, err := SnapshotDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.jdn"), filepath.Join(dir, "sub", "b.jdn")}
	if got := prev.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}

	writeFile(t, filepath.Join(dir, "a.jdn"), "fn a() { return; }")
	writeFile(t, filepath.Join(dir, "c.jdn"), "fn c() {}")
	if err := os.Remove(filepath.Join(dir, "sub", "b.jdn")); err != nil {
		t.Fatal(err)
	}

	curr, err := SnapshotDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	changed, removed := Diff(prev, curr)
	if want := []string{filepath.Join(dir, "a.jdn"), filepath.Join(dir, "c.jdn")}; !reflect.DeepEqual(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
	if want := []string{filepath.Join(dir, "sub", "b.jdn")}; !reflect.DeepEqual(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "b.jdn"), "")
	writeFile(t, filepath.Join(dir, "src", "a.jdn"), "")
	single := filepath.Join(dir, "single.txt")
	writeFile(t, single, "")

	got, err := ExpandPaths([]string{single, filepath.Join(dir, "src")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{single, filepath.Join(dir, "src", "a.jdn"), filepath.Join(dir, "src", "b.jdn")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing")}, Options{}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestIsSource(t *testing.T) {
	if !(Options{}).IsSource("x/main.jdn") {
		t.Error("default extension not recognized")
	}
	opts := Options{Extensions: []string{".jodin"}}
	if opts.IsSource("main.jdn") || !opts.IsSource("main.jodin") {
		t.Error("custom extensions not honored")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jdn")
	writeFile(t, path, "fn a() {}")

	w, err := NewWatcher(Options{Cache: NewCache(8)})
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "fn a() {}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, path, "fn a( {}")

	timeout := time.After(2 * time.Second)
	for {
		select {
		case u := <-w.Units():
			if u.Path != path {
				t.Fatalf("unexpected unit %s", u.Path)
			}
			if u.Source.Content == "fn a( {}" {
				if u.OK() {
					t.Fatal("expected a parse failure")
				}
				return
			}
		case err := <-w.Errors():
			t.Fatalf("watch error: %v", err)
		case <-timeout:
			t.Skip("no fsnotify event within timeout")
		}
	}
}

func TestWatcher_SkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jdn")
	writeFile(t, path, "fn a() {}")

	cache := NewCache(8)
	bw := &Watcher{
		opts:  Options{Cache: cache},
		unC:   make(chan *Unit, 4),
		stop:  make(chan struct{}),
		files: make(map[string]watched),
	}
	if err := bw.record(dir); err != nil {
		t.Fatal(err)
	}

	bw.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if len(bw.unC) != 0 {
		t.Fatal("unchanged content produced a unit")
	}

	writeFile(t, path, "fn b() {}")
	bw.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if len(bw.unC) != 1 {
		t.Fatalf("got %d units", len(bw.unC))
	}
	if u := <-bw.unC; !u.OK() || u.Source.Content != "fn b() {}" {
		t.Errorf("unexpected unit %+v", u)
	}
	bKey := KeyFor(path, "fn b() {}")
	if !cached(cache, bKey) {
		t.Fatal("parse result was not cached")
	}

	writeFile(t, path, "fn c() {}")
	bw.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	<-bw.unC
	if cached(cache, bKey) {
		t.Error("superseded content is still cached")
	}

	bw.handle(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	if st := cache.Stats(); st.Entries != 0 {
		t.Errorf("removed file left %d cache entries", st.Entries)
	}
	bw.handle(fsnotify.Event{Name: path, Op: fsnotify.Create})
	if len(bw.unC) != 1 {
		t.Error("a recreated file must be parsed again")
	}
}
