// Package extract resolves video metadata and downloads individual streams
// through yt-dlp, with an optional native metadata source.
package extract

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/tubeloader/internal/model"
)

// Metadata source modes
const (
	SourceYTDLP  = "ytdlp"
	SourceNative = "native"
	SourceAuto   = "auto"
)

// Progress is a snapshot of a running stream download.
type Progress struct {
	Downloaded int64
	Total      int64
	Percent    float64 // 0-100
	ETA        time.Duration
	Speed      string
}

// MetadataSource resolves title and duration for a URL.
type MetadataSource interface {
	Info(ctx context.Context, url string) (*model.VideoInfo, error)
}

// Fetcher downloads the stream chosen by selector into dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, selector, dest string, onProgress func(Progress)) error
}

// Extractor is what the pipelines depend on.
type Extractor interface {
	MetadataSource
	Fetcher
}

// newProgress derives percent and speed from byte counters.
func newProgress(downloaded, total int64, started time.Time, eta time.Duration, now time.Time) Progress {
	p := Progress{Downloaded: downloaded, Total: total, ETA: eta}
	if total > 0 {
		p.Percent = float64(downloaded) / float64(total) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	if !started.IsZero() {
		if elapsed := now.Sub(started).Seconds(); elapsed > 0 && downloaded > 0 {
			p.Speed = humanize.Bytes(uint64(float64(downloaded)/elapsed)) + "/s"
		}
	}
	return p
}
