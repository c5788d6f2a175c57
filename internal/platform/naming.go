package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Naming limits
const (
	MaxTitleBytes    = 200
	FallbackTitle    = "video"
	forbiddenChars   = `\/:*?"<>|`
	lockRetryDelay   = 50 * time.Millisecond
	placeholderPerms = 0644
)

// asciiOnly decomposes accented letters and drops everything outside ASCII.
var asciiOnly = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// SanitizeTitle turns a video title into a safe file base name.
func SanitizeTitle(title string) string {
	ascii, _, err := transform.String(asciiOnly, title)
	if err != nil {
		ascii = ""
	}

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(forbiddenChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	name := strings.Trim(b.String(), " .")
	if len(name) > MaxTitleBytes {
		name = strings.Trim(name[:MaxTitleBytes], " .")
	}
	if name == "" {
		return FallbackTitle
	}
	return name
}

// UniquePath returns <dir>/<title>.<ext>, or the first free "<title> (n).<ext>".
func UniquePath(fs afero.Fs, dir, title, ext string) (string, error) {
	base := SanitizeTitle(title)
	ext = strings.TrimPrefix(ext, ".")

	candidate := filepath.Join(dir, base+"."+ext)
	for n := 1; ; n++ {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d).%s", base, n, ext))
	}
}

// ReservePath resolves a unique output path and creates an empty placeholder
// for it while holding a file lock, so concurrent jobs writing to the same
// directory never share a name. An empty lockPath skips locking.
func ReservePath(ctx context.Context, fs afero.Fs, lockPath, dir, title, ext string) (string, error) {
	if lockPath != "" {
		lock := flock.New(lockPath)
		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return "", fmt.Errorf("lock %s: %w", lockPath, err)
		}
		if !locked {
			return "", fmt.Errorf("lock %s: not acquired", lockPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	for {
		path, err := UniquePath(fs, dir, title, ext)
		if err != nil {
			return "", err
		}
		f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, placeholderPerms)
		if err != nil {
			if os.IsExist(err) {
				// another process without the lock got there first
				continue
			}
			return "", fmt.Errorf("reserve %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("reserve %s: %w", path, err)
		}
		return path, nil
	}
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
