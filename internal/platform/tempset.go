package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// TempSet hands out uuid-named scratch files in one directory and removes
// whatever is still tracked on Cleanup.
type TempSet struct {
	fs    afero.Fs
	dir   string
	mu    sync.Mutex
	paths map[string]struct{}
}

// NewTempSet creates a set rooted at dir.
func NewTempSet(fs afero.Fs, dir string) *TempSet {
	return &TempSet{
		fs:    fs,
		dir:   dir,
		paths: make(map[string]struct{}),
	}
}

// New returns a fresh <dir>/<uuid>.<ext> path and tracks it. The file is not created.
func (t *TempSet) New(ext string) string {
	path := filepath.Join(t.dir, uuid.NewString()+"."+strings.TrimPrefix(ext, "."))
	t.mu.Lock()
	t.paths[path] = struct{}{}
	t.mu.Unlock()
	return path
}

// Release removes path and stops tracking it.
func (t *TempSet) Release(path string) error {
	t.mu.Lock()
	delete(t.paths, path)
	t.mu.Unlock()
	return removeIfExists(t.fs, path)
}

// Promote moves a tracked temp file to dst and stops tracking it.
func (t *TempSet) Promote(src, dst string) error {
	if runtime.GOOS == OSWindows {
		// rename does not replace an existing file there
		if err := removeIfExists(t.fs, dst); err != nil {
			return err
		}
	}
	if err := t.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", filepath.Base(src), dst, err)
	}
	t.mu.Lock()
	delete(t.paths, src)
	t.mu.Unlock()
	return nil
}

// Tracked returns the paths still owned by the set.
func (t *TempSet) Tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.paths))
	for p := range t.paths {
		out = append(out, p)
	}
	return out
}

// Cleanup removes every tracked file. It is safe to call more than once.
func (t *TempSet) Cleanup() error {
	t.mu.Lock()
	paths := t.paths
	t.paths = make(map[string]struct{})
	t.mu.Unlock()

	var errs []error
	for p := range paths {
		if err := removeIfExists(t.fs, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removeIfExists(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
