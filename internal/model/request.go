package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ytget/tubeloader/internal/timecode"
)

// URLPlaceholder is the hint text shown in empty URL inputs. Submitting it
// verbatim counts as an empty URL.
const URLPlaceholder = "Paste the YouTube URL here"

// ErrEmptyURL is returned when no usable URL was given.
var ErrEmptyURL = errors.New("please enter a valid YouTube URL")

// TimeRange is an optional HH:MM:SS trim. The zero value means no trim.
type TimeRange struct {
	Start string `json:"start_time,omitempty"`
	End   string `json:"end_time,omitempty"`
}

// IsSet reports whether both bounds are present.
func (r TimeRange) IsSet() bool {
	return strings.TrimSpace(r.Start) != "" && strings.TrimSpace(r.End) != ""
}

// Validate applies the both-or-neither rule and the HH:MM:SS pattern.
func (r TimeRange) Validate() error {
	return timecode.ValidateRange(r.Start, r.End)
}

// String renders the range for logs and events.
func (r TimeRange) String() string {
	if !r.IsSet() {
		return ""
	}
	return r.Start + "-" + r.End
}

// Request describes one download job.
type Request struct {
	URL       string
	Format    MediaFormat
	Quality   VideoQuality
	Bitrate   AudioBitrate
	Trim      TimeRange
	OutputDir string

	// ExtractAudio also writes <base>.mp3 next to an mp4.
	ExtractAudio bool
	// Transcribe also writes <base>.srt.
	Transcribe bool
	// DiscardMedia keeps only the subtitle file.
	DiscardMedia bool
}

// Normalize trims user input and fills defaults in place.
func (r *Request) Normalize() {
	r.URL = CleanURL(r.URL)
	r.Trim.Start = strings.TrimSpace(r.Trim.Start)
	r.Trim.End = strings.TrimSpace(r.Trim.End)
	if r.Quality == "" {
		r.Quality = QualityBest
	}
	if r.Bitrate == 0 {
		r.Bitrate = DefaultBitrate
	}
}

// Validate checks the request without touching the network or filesystem.
func (r *Request) Validate() error {
	if err := ValidateURL(r.URL); err != nil {
		return err
	}
	if !r.Format.Valid() {
		return fmt.Errorf("unknown media format %q", r.Format)
	}
	if err := r.Trim.Validate(); err != nil {
		return err
	}
	if r.Quality != "" && !r.Quality.Valid() {
		return fmt.Errorf("unknown video quality %q", r.Quality)
	}
	if r.Bitrate != 0 && !r.Bitrate.Valid() {
		return fmt.Errorf("unsupported audio bitrate %d", r.Bitrate)
	}
	if r.ExtractAudio && r.Format != FormatMP4 {
		return errors.New("audio extraction requires mp4 format")
	}
	if r.DiscardMedia && !r.Transcribe {
		return errors.New("discarding media requires transcription")
	}
	return nil
}

// CleanURL strips whitespace and control characters pasted along with a URL.
func CleanURL(raw string) string {
	s := strings.ReplaceAll(raw, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

// ValidateURL rejects empty input, the placeholder and non-http(s) schemes.
func ValidateURL(raw string) error {
	s := CleanURL(raw)
	if s == "" || s == URLPlaceholder {
		return ErrEmptyURL
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if parsed.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// mixPrefix marks auto-generated mixes. They are endless radio lists, not playlists.
const mixPrefix = "RD"

// PlaylistID returns the list query parameter, or "" when there is none.
func PlaylistID(raw string) string {
	parsed, err := url.Parse(CleanURL(raw))
	if err != nil {
		return ""
	}
	return parsed.Query().Get("list")
}

// IsPlaylistURL reports whether raw names a playlist to expand. A watch link
// that only carries a mix (list=RD...) is a single video.
func IsPlaylistURL(raw string) bool {
	id := PlaylistID(raw)
	return id != "" && !strings.HasPrefix(id, mixPrefix)
}
