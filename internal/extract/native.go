package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/tubeloader/internal/model"
)

// Native resolves metadata with the pure Go YouTube client, no yt-dlp needed.
type Native struct {
	client *youtube.Client
}

// NewNative creates a native metadata source.
func NewNative() *Native {
	return &Native{client: &youtube.Client{}}
}

// Info fetches the video page and maps its metadata.
func (n *Native) Info(ctx context.Context, url string) (*model.VideoInfo, error) {
	video, err := n.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("native metadata: %w", err)
	}
	info := &model.VideoInfo{
		ID:       video.ID,
		Title:    strings.TrimSpace(video.Title),
		Uploader: video.Author,
		Duration: video.Duration,
		URL:      url,
	}
	if info.Title == "" {
		info.Title = model.DefaultTitle
	}
	return info, nil
}
