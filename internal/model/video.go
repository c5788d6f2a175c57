package model

import (
	"fmt"
	"time"
)

// DefaultTitle is used when the extractor returns no title.
const DefaultTitle = "video"

// VideoInfo is the metadata needed to name and describe a download.
type VideoInfo struct {
	ID       string
	Title    string
	Uploader string
	Duration time.Duration
	URL      string
}

// DisplayTitle returns the title or DefaultTitle.
func (v *VideoInfo) DisplayTitle() string {
	if v == nil || v.Title == "" {
		return DefaultTitle
	}
	return v.Title
}

// DurationString formats the duration as HH:MM:SS or MM:SS.
func (v *VideoInfo) DurationString() string {
	if v == nil || v.Duration <= 0 {
		return "Unknown"
	}
	total := int(v.Duration.Round(time.Second).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
