package model

import (
	"errors"
	"testing"

	"github.com/ytget/tubeloader/internal/timecode"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"  https://youtu.be/dQw4w9WgXcQ\n", false},
		{"http://youtube.com/watch?v=x", false},
		{"", true},
		{"   ", true},
		{URLPlaceholder, true},
		{"ftp://example.com/file", true},
		{"youtube.com/watch?v=x", true},
	}

	for _, test := range tests {
		err := ValidateURL(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
	}

	if err := ValidateURL(URLPlaceholder); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("placeholder should map to ErrEmptyURL, got %v", err)
	}
}

func TestRequest_Validate(t *testing.T) {
	base := func() Request {
		return Request{URL: "https://youtu.be/abc", Format: FormatMP4}
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
		anyErr  bool
	}{
		{"plain mp4", func(r *Request) {}, nil, false},
		{"mp3 with trim", func(r *Request) {
			r.Format = FormatMP3
			r.Trim = TimeRange{Start: "00:00:05", End: "00:00:10"}
		}, nil, false},
		{"incomplete trim", func(r *Request) { r.Trim = TimeRange{Start: "00:00:05"} }, timecode.ErrIncompleteRange, true},
		{"bad trim", func(r *Request) { r.Trim = TimeRange{Start: "5", End: "00:00:10"} }, timecode.ErrInvalidFormat, true},
		{"empty url", func(r *Request) { r.URL = "" }, ErrEmptyURL, true},
		{"unknown format", func(r *Request) { r.Format = "avi" }, nil, true},
		{"extract audio on mp3", func(r *Request) {
			r.Format = FormatMP3
			r.ExtractAudio = true
		}, nil, true},
		{"discard without transcription", func(r *Request) { r.DiscardMedia = true }, nil, true},
		{"bad bitrate", func(r *Request) { r.Bitrate = 256 }, nil, true},
		{"known quality", func(r *Request) { r.Quality = Quality720p }, nil, false},
		{"unknown quality", func(r *Request) { r.Quality = "4k" }, nil, true},
	}

	for _, test := range tests {
		req := base()
		test.mutate(&req)
		err := req.Validate()
		if !test.anyErr {
			if err != nil {
				t.Errorf("%s: unexpected error %v", test.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected error", test.name)
			continue
		}
		if test.wantErr != nil && !errors.Is(err, test.wantErr) {
			t.Errorf("%s: error = %v, expected %v", test.name, err, test.wantErr)
		}
	}
}

func TestRequest_Normalize(t *testing.T) {
	req := Request{URL: " https://youtu.be/abc\r\n", Trim: TimeRange{Start: " 00:00:01 ", End: "00:00:02\t"}}
	req.Normalize()

	if req.URL != "https://youtu.be/abc" {
		t.Errorf("URL = %q", req.URL)
	}
	if req.Trim.Start != "00:00:01" || req.Trim.End != "00:00:02" {
		t.Errorf("Trim = %+v", req.Trim)
	}
	if req.Quality != QualityBest {
		t.Errorf("Quality = %s, expected %s", req.Quality, QualityBest)
	}
	if req.Bitrate != DefaultBitrate {
		t.Errorf("Bitrate = %d, expected %d", req.Bitrate, DefaultBitrate)
	}
}

func TestTimeRange_IsSet(t *testing.T) {
	if (TimeRange{}).IsSet() {
		t.Error("zero TimeRange should not be set")
	}
	if (TimeRange{Start: "00:00:01"}).IsSet() {
		t.Error("half TimeRange should not be set")
	}
	if !(TimeRange{Start: "00:00:01", End: "00:00:02"}).IsSet() {
		t.Error("full TimeRange should be set")
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123&index=2", true},
		{"https://www.youtube.com/watch?v=abc&list=RDabc&start_radio=1", false},
		{"https://www.youtube.com/watch?v=abc&list=RDMMabc", false},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://www.youtube.com/watch?v=abc&wishlist=PL1", false},
		{"https://www.youtube.com/playlist?list=", false},
		{"  https://www.youtube.com/playlist?list=PL9\n", true},
	}

	for _, test := range tests {
		if got := IsPlaylistURL(test.url); got != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
	if got := PlaylistID("https://www.youtube.com/watch?v=abc&list=PL123"); got != "PL123" {
		t.Errorf("PlaylistID = %q", got)
	}
}
