package model

import (
	"time"
)

// PlaylistVideo represents a single entry of a playlist
type PlaylistVideo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
	Index    int    `json:"index"`
}

// Playlist represents a YouTube playlist with its entries
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo appends an entry and assigns its 1-based index
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	video.Index = len(p.Videos) + 1
	p.Videos = append(p.Videos, video)
}

// Len returns the number of entries
func (p *Playlist) Len() int {
	return len(p.Videos)
}

// Requests expands the playlist into one request per entry, copying every
// option from tmpl except the URL.
func (p *Playlist) Requests(tmpl Request) []Request {
	out := make([]Request, 0, len(p.Videos))
	for _, v := range p.Videos {
		r := tmpl
		r.URL = v.URL
		out = append(out, r)
	}
	return out
}
