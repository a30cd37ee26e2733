package build

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stats holds simple execution statistics.
type Stats struct {
	Total       int64
	Succeeded   int64
	Failed      int64
	CacheHits   int64
	MaxParallel int64
	Took        time.Duration
}

// ExpandPaths replaces every directory in args with the source files it
// contains, in sorted order. Plain files are kept as given.
func ExpandPaths(args []string, opts Options) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		snap, err := SnapshotDir(arg, opts)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		out = append(out, snap.Paths()...)
	}
	return out, nil
}

// ParseAll parses paths with up to opts.Workers parses in flight. Units are
// returned in input order. A parse failure is recorded on its unit; an I/O
// failure or context cancellation aborts the whole batch.
func ParseAll(ctx context.Context, paths []string, opts Options) ([]*Unit, Stats, error) {
	start := time.Now()
	units := make([]*Unit, len(paths))
	semaphore := make(chan struct{}, opts.workers())

	var (
		inflight int64
		stats    Stats
	)
	stats.Total = int64(len(paths))

	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()

			cur := atomic.AddInt64(&inflight, 1)
			for {
				peak := atomic.LoadInt64(&stats.MaxParallel)
				if cur <= peak || atomic.CompareAndSwapInt64(&stats.MaxParallel, peak, cur) {
					break
				}
			}
			defer atomic.AddInt64(&inflight, -1)

			u, err := ParseFile(path, opts)
			if err != nil {
				return err
			}
			units[i] = u

			if u.OK() {
				atomic.AddInt64(&stats.Succeeded, 1)
			} else {
				atomic.AddInt64(&stats.Failed, 1)
			}
			if u.Cached {
				atomic.AddInt64(&stats.CacheHits, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	stats.Took = time.Since(start)

	if opts.Logger != nil {
		opts.Logger.Info("parsed batch", "total", stats.Total, "failed", stats.Failed, "cache_hits", stats.CacheHits, "took", stats.Took)
	}
	return units, stats, nil
}
