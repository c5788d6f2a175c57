package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ytget/tubeloader/internal/logging"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line     string
		total    time.Duration
		expected float64
		ok       bool
	}{
		{"out_time_us=5000000", 10 * time.Second, 0.5, true},
		{"out_time_us=20000000", 10 * time.Second, 1.0, true},
		{"out_time_us=5000000", 0, 0, false},
		{"out_time_us=N/A", 10 * time.Second, 0, false},
		{"out_time_us=-1", 10 * time.Second, 0, false},
	}

	for _, tt := range tests {
		got, ok := parseProgress(tt.line, tt.total)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("parseProgress(%q, %v) = %v, %v; expected %v, %v", tt.line, tt.total, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestMonitorProgress(t *testing.T) {
	input := strings.Join([]string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':",
		"frame=10",
		"out_time_us=2500000",
		"speed=2.0x",
		"progress=continue",
		"out_time_us=10000000",
		"progress=end",
		"[aac @ 0x1] Too many bits",
	}, "\n")

	var seen []float64
	tail := newLineTail(5)
	monitorProgress(strings.NewReader(input), 10*time.Second, func(f float64) { seen = append(seen, f) }, tail)

	if len(seen) != 2 || seen[0] != 0.25 || seen[1] != 1.0 {
		t.Errorf("progress = %v", seen)
	}
	if !strings.Contains(tail.String(), "Too many bits") || strings.Contains(tail.String(), "frame=") {
		t.Errorf("tail = %q", tail.String())
	}
}

func TestLineTail(t *testing.T) {
	tail := newLineTail(2)
	tail.Add("one")
	tail.Add("")
	tail.Add("two")
	tail.Add("three")
	if tail.String() != "two\nthree" {
		t.Errorf("tail = %q", tail.String())
	}
}

// writeFakeFFmpeg creates a shell script standing in for ffmpeg.
func writeFakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFFmpegRun_Success(t *testing.T) {
	bin := writeFakeFFmpeg(t, `echo "out_time_us=1000000" >&2
echo "progress=end" >&2
exit 0`)

	var last float64
	f := NewFFmpeg(bin, logging.Discard())
	err := f.Run(context.Background(), []string{"-i", "in", "out.mp4"}, 2*time.Second, func(p float64) { last = p })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last != 1 {
		t.Errorf("final progress = %v, expected 1", last)
	}
}

func TestFFmpegRun_FailureRemovesOutput(t *testing.T) {
	bin := writeFakeFFmpeg(t, `echo "Conversion failed!" >&2
exit 3`)

	out := filepath.Join(t.TempDir(), "partial.mp4")
	if err := os.WriteFile(out, []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewFFmpeg(bin, logging.Discard()).Run(context.Background(), []string{"-i", "in", out}, 0, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 || !strings.Contains(exitErr.Stderr, "Conversion failed!") {
		t.Errorf("ExitError = %+v", exitErr)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("partial output should be removed")
	}
}

func TestFFmpegRun_Cancelled(t *testing.T) {
	bin := writeFakeFFmpeg(t, `exec sleep 5`)

	out := filepath.Join(t.TempDir(), "partial.mp3")
	_ = os.WriteFile(out, []byte("partial"), 0644)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewFFmpeg(bin, logging.Discard()).Run(ctx, []string{"-i", "in", out}, 0, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("partial output should be removed on cancel")
	}
}

func TestFFmpegRun_MissingBinary(t *testing.T) {
	f := NewFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg"), logging.Discard())
	err := f.Run(context.Background(), []string{"out.mp4"}, 0, nil)
	if err == nil || !strings.Contains(err.Error(), "failed to start ffmpeg") {
		t.Errorf("expected start failure, got %v", err)
	}
	if err := f.Run(context.Background(), nil, 0, nil); err == nil {
		t.Error("expected error for empty args")
	}
}
