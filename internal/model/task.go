package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask represents a single queued or running download
type DownloadTask struct {
	ID          string
	URL         string
	Request     Request
	Status      TaskStatus
	Stage       Stage
	Message     string    // last human readable stage message
	Progress    float64   // 0.0 to 1.0
	Percent     int       // 0 to 100
	Speed       string    // human readable speed (e.g., "1.2 MB/s")
	ETASec      int       // ETA in seconds, -1 if unknown
	LastError   string    // last error message if any
	OutputPaths []string  // produced files, primary first
	StartedAt   time.Time // when the task was queued
	FinishedAt  time.Time // when the task finished
	Title       string    // video title
	FileSize    int64     // size of the primary output in bytes
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}

	hours := dt.ETASec / 3600
	minutes := (dt.ETASec % 3600) / 60
	seconds := dt.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// PrimaryOutput returns the first produced file or "".
func (dt *DownloadTask) PrimaryOutput() string {
	if len(dt.OutputPaths) == 0 {
		return ""
	}
	return dt.OutputPaths[0]
}

// GetDisplayTitle returns title, output file name, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if out := dt.PrimaryOutput(); out != "" {
		name := filepath.Base(strings.ReplaceAll(out, "\\", "/"))
		return strings.TrimSuffix(name, filepath.Ext(name))
	}

	return dt.URL
}

// Clone returns a copy safe to hand to another goroutine.
func (dt *DownloadTask) Clone() *DownloadTask {
	c := *dt
	c.OutputPaths = append([]string(nil), dt.OutputPaths...)
	return &c
}
