package build

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-parses source files under watched directories whenever their
// content changes. Writes that leave the content hash unchanged are dropped.
// Cached results of superseded or removed content are invalidated.
type Watcher struct {
	w    *fsnotify.Watcher
	opts Options
	unC  chan *Unit
	erC  chan error
	done chan struct{}
	stop chan struct{}
	once sync.Once

	mu    sync.Mutex
	files map[string]watched
}

// watched is what the Watcher last saw of a file: the content hash and,
// once the watcher has parsed it, the cache key of that parse.
type watched struct {
	sum string
	key CacheKey
}

// NewWatcher creates a Watcher. Units are parsed with opts, including its
// cache when one is set.
func NewWatcher(opts Options) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	bw := &Watcher{
		w:     w,
		opts:  opts,
		unC:   make(chan *Unit, 128),
		erC:   make(chan error, 1),
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
		files: make(map[string]watched),
	}
	go bw.loop()
	return bw, nil
}

// Add watches dir and records the current state of its sources, so only
// later modifications produce units. Subdirectories are watched as well.
func (bw *Watcher) Add(dir string) error {
	if err := bw.record(dir); err != nil {
		return err
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return bw.w.Add(path)
	})
}

func (bw *Watcher) record(dir string) error {
	snap, err := SnapshotDir(dir, bw.opts)
	if err != nil {
		return err
	}
	bw.mu.Lock()
	defer bw.mu.Unlock()
	for p, st := range snap.Files {
		bw.files[p] = watched{sum: st.SHA256}
	}
	return nil
}

func (bw *Watcher) Units() <-chan *Unit  { return bw.unC }
func (bw *Watcher) Errors() <-chan error { return bw.erC }

// Close stops the watcher and closes the Units channel.
func (bw *Watcher) Close() error {
	var err error
	bw.once.Do(func() {
		close(bw.stop)
		err = bw.w.Close()
		<-bw.done
	})
	return err
}

func (bw *Watcher) loop() {
	defer close(bw.done)
	defer close(bw.unC)
	for {
		select {
		case ev, ok := <-bw.w.Events:
			if !ok {
				return
			}
			bw.handle(ev)
		case err, ok := <-bw.w.Errors:
			if !ok {
				return
			}
			select {
			case bw.erC <- err:
			default:
			}
		}
	}
}

func (bw *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		bw.mu.Lock()
		prev := bw.files[ev.Name]
		delete(bw.files, ev.Name)
		bw.mu.Unlock()
		bw.invalidate(prev.key)
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			_ = bw.w.Add(ev.Name)
		}
		return
	}
	if !bw.opts.IsSource(ev.Name) {
		return
	}

	content, err := os.ReadFile(ev.Name)
	if err != nil {
		// The file may be gone again already; the remove event handles it.
		return
	}
	sum := hashContent(content)
	key := KeyFor(ev.Name, string(content))

	bw.mu.Lock()
	prev, seen := bw.files[ev.Name]
	bw.files[ev.Name] = watched{sum: sum, key: key}
	bw.mu.Unlock()
	if seen && prev.sum == sum {
		return
	}
	bw.invalidate(prev.key)

	if bw.opts.Logger != nil {
		bw.opts.Logger.Debug("source changed", "path", ev.Name)
	}
	select {
	case bw.unC <- ParseSource(ev.Name, string(content), bw.opts):
	case <-bw.stop:
	}
}

func (bw *Watcher) invalidate(key CacheKey) {
	if key != "" && bw.opts.Cache != nil {
		bw.opts.Cache.Invalidate(key)
	}
}
