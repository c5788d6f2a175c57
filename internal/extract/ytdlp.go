package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
)

// progressInterval is how often yt-dlp progress is reported.
const progressInterval = 500 * time.Millisecond

// YTDLP implements Extractor on top of the yt-dlp binary.
type YTDLP struct {
	// CookiesFile is passed to yt-dlp when the file exists.
	CookiesFile string
	Logger      *logging.Logger
}

// NewYTDLP creates a yt-dlp backed extractor.
func NewYTDLP(cookiesFile string, logger *logging.Logger) *YTDLP {
	return &YTDLP{CookiesFile: cookiesFile, Logger: logger}
}

// EnsureInstalled downloads a yt-dlp binary into the user cache if none is available.
func (y *YTDLP) EnsureInstalled(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

// infoJSON is the subset of yt-dlp's --dump-single-json output we read.
type infoJSON struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	WebpageURL string  `json:"webpage_url"`
}

// Info resolves metadata without downloading.
func (y *YTDLP) Info(ctx context.Context, url string) (*model.VideoInfo, error) {
	cmd := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist()
	y.applyCookies(cmd)

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", describeRunError(res, err))
	}
	return parseInfoJSON(res.Stdout, url)
}

func parseInfoJSON(stdout, url string) (*model.VideoInfo, error) {
	var raw infoJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &raw); err != nil {
		return nil, fmt.Errorf("decode video info: %w", err)
	}
	info := &model.VideoInfo{
		ID:       raw.ID,
		Title:    strings.TrimSpace(raw.Title),
		Uploader: raw.Uploader,
		Duration: time.Duration(raw.Duration * float64(time.Second)),
		URL:      raw.WebpageURL,
	}
	if info.Title == "" {
		info.Title = model.DefaultTitle
	}
	if info.Uploader == "" {
		info.Uploader = raw.Channel
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}

// Fetch downloads the stream matching selector to dest, overwriting it.
func (y *YTDLP) Fetch(ctx context.Context, url, selector, dest string, onProgress func(Progress)) error {
	cmd := ytdlp.New().
		Format(selector).
		Output(dest).
		NoPlaylist().
		ForceOverwrites()
	y.applyCookies(cmd)

	if onProgress != nil {
		cmd.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(newProgress(
				int64(update.DownloadedBytes),
				int64(update.TotalBytes),
				update.Started,
				update.ETA(),
				time.Now(),
			))
		})
	}

	y.Logger.OrDefault().Debug("fetching stream", "selector", selector, "dest", dest)
	res, err := cmd.Run(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("download %s: %w", selector, describeRunError(res, err))
	}
	return nil
}

func (y *YTDLP) applyCookies(cmd *ytdlp.Command) {
	if y.CookiesFile == "" {
		return
	}
	if info, err := os.Stat(y.CookiesFile); err == nil && !info.IsDir() {
		cmd.Cookies(y.CookiesFile)
	}
}

// describeRunError appends the last line of yt-dlp's stderr, which usually
// carries the actual reason.
func describeRunError(res *ytdlp.Result, err error) error {
	if res == nil || strings.TrimSpace(res.Stderr) == "" {
		return err
	}
	lines := strings.Split(strings.TrimSpace(res.Stderr), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" || strings.Contains(err.Error(), last) {
		return err
	}
	return errors.Join(err, errors.New(last))
}
