package platform

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	ytplaylist "github.com/ytget/ytdlp/v2"

	"github.com/ytget/tubeloader/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// Default values
const (
	DefaultDuration     = "Unknown"
	DefaultPlaylistName = "Unknown Playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// playlistItem is the subset of a playlist entry the parser needs.
type playlistItem struct {
	VideoID string
	Title   string
}

type itemsFunc func(ctx context.Context, playlistID string) ([]playlistItem, error)

// PlaylistParser expands playlist URLs into their entries
type PlaylistParser struct {
	timeout time.Duration
	items   itemsFunc
}

// NewPlaylistParser creates a parser backed by the ytdlp library
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultParseTimeout,
		items:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for parsing operations
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]playlistItem, error) {
	items, err := ytplaylist.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]playlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, playlistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// ParsePlaylist fetches the playlist entries for url
func (p *PlaylistParser) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !model.IsPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.items(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:       it.VideoID,
			Title:    it.Title,
			Duration: DefaultDuration,
			URL:      fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	playlist.Title = playlistTitle(playlist.Videos)

	return playlist, nil
}

// ExtractPlaylistID returns the value of the list= parameter
func ExtractPlaylistID(url string) string {
	return model.PlaylistID(url)
}

// playlistTitle derives a title from the entries' common prefix
func playlistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		commonPrefix := findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings, cut on a
// rune boundary
func findCommonPrefix(s1, s2 string) string {
	for i, r := range s1 {
		if i >= len(s2) {
			return s1[:i]
		}
		if r2, _ := utf8.DecodeRuneInString(s2[i:]); r != r2 {
			return s1[:i]
		}
	}
	return s1
}
