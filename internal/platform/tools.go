package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Tool names
const (
	ToolFFmpeg     = "ffmpeg"
	ToolFFprobe    = "ffprobe"
	ToolYTDLP      = "yt-dlp"
	ToolWhisperCLI = "whisper-cli"
)

// windowsFallbackDir is where the usual Windows ffmpeg builds get unpacked.
const windowsFallbackDir = `C:/ffmpeg/bin`

// ErrToolNotFound is returned when a binary cannot be located.
var ErrToolNotFound = errors.New("tool not found")

var (
	lookPath = exec.LookPath
	goos     = runtime.GOOS
)

// Requirement is an external binary the application can use.
type Requirement struct {
	Name       string // display name
	Binary     string // base name without extension
	Configured string // explicit path from config, empty for discovery
	Optional   bool
	Purpose    string
}

// Status is the outcome of locating a Requirement.
type Status struct {
	Requirement
	Path  string
	Found bool
	Err   error
}

// executableName appends .exe on Windows.
func executableName(binary string) string {
	if goos == OSWindows && filepath.Ext(binary) != ".exe" {
		return binary + ".exe"
	}
	return binary
}

// ResolveTool locates a binary. A configured path wins; otherwise the search
// order is <cwd>/<name>/<name>, <cwd>/<name>, PATH, and on Windows C:/ffmpeg/bin.
func ResolveTool(configured, cwd, binary string) (string, error) {
	if configured != "" {
		if fileExists(configured) {
			return configured, nil
		}
		if p, err := lookPath(configured); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%s at %s: %w", binary, configured, ErrToolNotFound)
	}

	name := executableName(binary)
	var candidates []string
	if cwd != "" {
		candidates = append(candidates,
			filepath.Join(cwd, binary, name),
			filepath.Join(cwd, name),
		)
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	if p, err := lookPath(name); err == nil {
		return p, nil
	}
	if goos == OSWindows {
		if c := filepath.Join(windowsFallbackDir, name); fileExists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", binary, ErrToolNotFound)
}

// FindFFmpeg locates ffmpeg relative to cwd, then on PATH.
func FindFFmpeg(cwd string) (string, error) {
	return ResolveTool("", cwd, ToolFFmpeg)
}

// FindFFprobe locates ffprobe relative to cwd, then on PATH.
func FindFFprobe(cwd string) (string, error) {
	return ResolveTool("", cwd, ToolFFprobe)
}

// CheckTools resolves every requirement.
func CheckTools(cwd string, reqs []Requirement) []Status {
	out := make([]Status, 0, len(reqs))
	for _, r := range reqs {
		p, err := ResolveTool(r.Configured, cwd, r.Binary)
		out = append(out, Status{Requirement: r, Path: p, Found: err == nil, Err: err})
	}
	return out
}

// MissingRequired returns the statuses of required tools that were not found.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Found && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
