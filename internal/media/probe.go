package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/timecode"
)

// Probe wraps ffprobe.
type Probe struct {
	Path string
}

// NewProbe returns a probe for the binary at path, or "ffprobe" on PATH.
func NewProbe(path string) *Probe {
	if path == "" {
		path = FFprobeCommand
	}
	return &Probe{Path: path}
}

// Duration returns the container duration of the media file at path.
func (p *Probe) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.Path,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(s string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// RangeDuration is the expected length of a trimmed output, or zero when
// the range is unset, malformed, or inverted.
func RangeDuration(r model.TimeRange) time.Duration {
	if !r.IsSet() {
		return 0
	}
	start, err := timecode.ToSeconds(r.Start)
	if err != nil {
		return 0
	}
	end, err := timecode.ToSeconds(r.End)
	if err != nil || end <= start {
		return 0
	}
	return time.Duration((end - start) * float64(time.Second))
}
