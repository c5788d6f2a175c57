package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaFormat is the container of the final artifact.
type MediaFormat string

const (
	FormatMP4 MediaFormat = "mp4"
	FormatMP3 MediaFormat = "mp3"
)

// ParseMediaFormat accepts "mp4"/"mp3" in any case, with or without a leading dot.
func ParseMediaFormat(s string) (MediaFormat, error) {
	switch MediaFormat(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatMP4:
		return FormatMP4, nil
	case FormatMP3:
		return FormatMP3, nil
	}
	return "", fmt.Errorf("unknown media format %q (want mp4 or mp3)", s)
}

// Extension returns the file extension without the dot.
func (f MediaFormat) Extension() string {
	return string(f)
}

// Valid reports whether f is one of the supported formats.
func (f MediaFormat) Valid() bool {
	return f == FormatMP4 || f == FormatMP3
}

// Label is the upper-case name shown in forms, e.g. "MP4".
func (f MediaFormat) Label() string {
	return strings.ToUpper(string(f))
}

// VideoQuality caps the height of the fetched video stream.
type VideoQuality string

const (
	QualityBest  VideoQuality = "best"
	Quality1080p VideoQuality = "1080p"
	Quality720p  VideoQuality = "720p"
)

// Audio stream selectors handed to the extraction library.
const (
	SelectorBestAudio   = "bestaudio"
	SelectorAudioForMP3 = "bestaudio[ext=m4a]/bestaudio"
)

// VideoQualities lists the presets in display order.
func VideoQualities() []VideoQuality {
	return []VideoQuality{Quality1080p, Quality720p, QualityBest}
}

// ParseVideoQuality returns QualityBest for an empty string.
func ParseVideoQuality(s string) (VideoQuality, error) {
	switch q := VideoQuality(strings.ToLower(strings.TrimSpace(s))); q {
	case "":
		return QualityBest, nil
	case QualityBest, Quality1080p, Quality720p:
		return q, nil
	}
	return "", fmt.Errorf("unknown video quality %q (want best, 1080p or 720p)", s)
}

// Valid reports whether q is one of the presets.
func (q VideoQuality) Valid() bool {
	switch q {
	case QualityBest, Quality1080p, Quality720p:
		return true
	}
	return false
}

// VideoSelector is the selector for the separately fetched video stream.
func (q VideoQuality) VideoSelector() string {
	switch q {
	case Quality1080p:
		return "bestvideo[height<=1080]"
	case Quality720p:
		return "bestvideo[height<=720]"
	default:
		return "bestvideo"
	}
}

// Label is the human description used by prompts and selects.
func (q VideoQuality) Label() string {
	switch q {
	case Quality1080p:
		return "MP4 1080p (when available)"
	case Quality720p:
		return "MP4 720p (when available)"
	default:
		return "Best available"
	}
}

// AudioBitrate is the MP3 encoder bitrate in kbps.
type AudioBitrate int

const (
	Bitrate128 AudioBitrate = 128
	Bitrate192 AudioBitrate = 192
	Bitrate320 AudioBitrate = 320

	DefaultBitrate = Bitrate320
)

// AudioBitrates lists the supported bitrates in ascending order.
func AudioBitrates() []AudioBitrate {
	return []AudioBitrate{Bitrate128, Bitrate192, Bitrate320}
}

// ParseAudioBitrate accepts "320", "320k" or "320kbps". Empty means DefaultBitrate.
func ParseAudioBitrate(s string) (AudioBitrate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultBitrate, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "kbps"), "k")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid audio bitrate %q", s)
	}
	b := AudioBitrate(n)
	if !b.Valid() {
		return 0, fmt.Errorf("unsupported audio bitrate %d (want 128, 192 or 320)", n)
	}
	return b, nil
}

// Valid reports whether b is one of the supported bitrates.
func (b AudioBitrate) Valid() bool {
	return b == Bitrate128 || b == Bitrate192 || b == Bitrate320
}

// FFmpegValue formats the bitrate for -b:a.
func (b AudioBitrate) FFmpegValue() string {
	if !b.Valid() {
		b = DefaultBitrate
	}
	return strconv.Itoa(int(b)) + "k"
}

// Label is the human description used by prompts and selects.
func (b AudioBitrate) Label() string {
	switch b {
	case Bitrate128:
		return "128 kbps (smaller file)"
	case Bitrate192:
		return "192 kbps (balanced)"
	default:
		return "320 kbps (best quality, larger file)"
	}
}
