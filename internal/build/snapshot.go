package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileState represents source file metadata used for change detection.
type FileState struct {
	Path    string
	Size    int64
	ModTime time.Time
	SHA256  string
}

// Snapshot holds the state of every source file under a directory.
type Snapshot struct {
	Files map[string]FileState
}

// Paths returns the snapshot's file paths in sorted order.
func (s Snapshot) Paths() []string {
	out := make([]string, 0, len(s.Files))
	for p := range s.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HashFile computes SHA-256 for a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// StatFile records the FileState of path.
func StatFile(path string) (FileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileState{}, err
	}
	sum, err := HashFile(path)
	if err != nil {
		return FileState{}, err
	}
	return FileState{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC(), SHA256: sum}, nil
}

// SnapshotDir walks dir and records every source file matching opts.
// Hidden directories are skipped.
func SnapshotDir(dir string, opts Options) (Snapshot, error) {
	out := Snapshot{Files: make(map[string]FileState)}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if !opts.IsSource(path) {
			return nil
		}
		st, err := StatFile(path)
		if err != nil {
			return err
		}
		out.Files[path] = st
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

// Diff compares two snapshots. changed lists files that are new or whose
// content differs; removed lists files missing from curr. Both are sorted.
func Diff(prev, curr Snapshot) (changed, removed []string) {
	for p, b := range curr.Files {
		a, ok := prev.Files[p]
		if !ok || a.SHA256 != b.SHA256 {
			changed = append(changed, p)
		}
	}
	for p := range prev.Files {
		if _, ok := curr.Files[p]; !ok {
			removed = append(removed, p)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)
	return changed, removed
}
