package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ytget/tubeloader/internal/logging"
)

// stderrTailLines is how much ffmpeg output an ExitError keeps.
const stderrTailLines = 20

// Runner executes ffmpeg. total is the expected output duration used to
// turn out_time_us into a 0..1 fraction; zero disables progress.
type Runner interface {
	Run(ctx context.Context, args []string, total time.Duration, onProgress func(float64)) error
}

// ExitError is returned when ffmpeg exits with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.Code, e.Stderr)
}

// FFmpeg runs the ffmpeg binary.
type FFmpeg struct {
	Path   string
	Logger *logging.Logger
}

// NewFFmpeg returns a runner for the binary at path, or "ffmpeg" on PATH.
func NewFFmpeg(path string, logger *logging.Logger) *FFmpeg {
	if path == "" {
		path = FFmpegCommand
	}
	return &FFmpeg{Path: path, Logger: logger}
}

// Run executes ffmpeg with args. The last argument is treated as the output
// file and is removed if the run fails or is cancelled.
func (f *FFmpeg) Run(ctx context.Context, args []string, total time.Duration, onProgress func(float64)) error {
	if len(args) == 0 {
		return errors.New("ffmpeg: no arguments")
	}
	output := args[len(args)-1]
	full := WithGlobalArgs(args)
	log := f.Logger.OrDefault()
	log.Debug("running ffmpeg", "args", strings.Join(full, " "))

	cmd := exec.CommandContext(ctx, f.Path, full...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := newLineTail(stderrTailLines)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitorProgress(stderr, total, onProgress, tail)
	}()

	wg.Wait()
	err = cmd.Wait()

	if ctx.Err() != nil {
		_ = os.Remove(output)
		return ctx.Err()
	}
	if err != nil {
		_ = os.Remove(output)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Stderr: tail.String()}
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

// monitorProgress reads ffmpeg's -progress output from r
func monitorProgress(r io.Reader, total time.Duration, onProgress func(float64), tail *lineTail) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			if fraction, ok := parseProgress(line, total); ok && onProgress != nil {
				onProgress(fraction)
			}
			continue
		}
		if isProgressKey(line) {
			continue
		}
		tail.Add(line)
	}
}

// parseProgress converts an out_time_us line to a fraction of total
func parseProgress(line string, total time.Duration) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	fraction := float64(us) / float64(total.Microseconds())
	if fraction > 1.0 {
		fraction = 1.0
	}
	return fraction, true
}

// progressKeys are the key=value lines written by -progress.
var progressKeys = []string{
	"frame=", "fps=", "stream_", "bitrate=", "total_size=", "out_time_ms=",
	"out_time=", "dup_frames=", "drop_frames=", "speed=", "progress=",
}

func isProgressKey(line string) bool {
	for _, k := range progressKeys {
		if strings.HasPrefix(line, k) {
			return true
		}
	}
	return false
}

// lineTail keeps the last n non-empty lines
type lineTail struct {
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) Add(line string) {
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "\n")
}
