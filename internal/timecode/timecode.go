// Package timecode validates the HH:MM:SS strings used for trimming and
// formats subtitle timestamps.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned for strings that are not HH:MM:SS.
	ErrInvalidFormat = errors.New("invalid time format, use HH:MM:SS")

	// ErrIncompleteRange is returned when only one trim bound is filled.
	ErrIncompleteRange = errors.New("to trim, fill both START and END in HH:MM:SS")
)

var timestampPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// ValidateTimestamp checks the shape only. "99:99:99" is accepted.
func ValidateTimestamp(s string) error {
	if !timestampPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return nil
}

// ValidateRange accepts both bounds empty (no trim) or both well-formed.
// The order of start and end is not checked.
func ValidateRange(start, end string) error {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return ErrIncompleteRange
	}
	if err := ValidateTimestamp(start); err != nil {
		return err
	}
	return ValidateTimestamp(end)
}

// ToSeconds converts a validated HH:MM:SS string to seconds.
func ToSeconds(s string) (float64, error) {
	if err := ValidateTimestamp(s); err != nil {
		return 0, err
	}
	parts := strings.Split(s, ":")
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		total = total*60 + n
	}
	return float64(total), nil
}

// FormatSRT renders seconds as HH:MM:SS,mmm rounded to the nearest millisecond.
func FormatSRT(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	secs := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}
