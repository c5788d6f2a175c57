package model

import "testing"

func TestParseMediaFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected MediaFormat
		wantErr  bool
	}{
		{"mp4", FormatMP4, false},
		{"MP3", FormatMP3, false},
		{".mp4", FormatMP4, false},
		{" mp3 ", FormatMP3, false},
		{"webm", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		got, err := ParseMediaFormat(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseMediaFormat(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
		if got != test.expected {
			t.Errorf("ParseMediaFormat(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestMediaFormat_Label(t *testing.T) {
	if got := FormatMP4.Label(); got != "MP4" {
		t.Errorf("FormatMP4.Label() = %q", got)
	}
	if got := FormatMP3.Label(); got != "MP3" {
		t.Errorf("FormatMP3.Label() = %q", got)
	}
}

func TestVideoQuality_Valid(t *testing.T) {
	for _, q := range VideoQualities() {
		if !q.Valid() {
			t.Errorf("%s should be valid", q)
		}
	}
	if VideoQuality("480p").Valid() || VideoQuality("").Valid() {
		t.Error("unknown qualities must be invalid")
	}
}

func TestVideoQuality_Selectors(t *testing.T) {
	tests := []struct {
		quality VideoQuality
		video   string
	}{
		{QualityBest, "bestvideo"},
		{Quality1080p, "bestvideo[height<=1080]"},
		{Quality720p, "bestvideo[height<=720]"},
		{VideoQuality("480p"), "bestvideo"},
	}

	for _, test := range tests {
		if got := test.quality.VideoSelector(); got != test.video {
			t.Errorf("%s.VideoSelector() = %q, expected %q", test.quality, got, test.video)
		}
	}
}

func TestParseAudioBitrate(t *testing.T) {
	tests := []struct {
		input    string
		expected AudioBitrate
		wantErr  bool
	}{
		{"", Bitrate320, false},
		{"128", Bitrate128, false},
		{"192k", Bitrate192, false},
		{"320kbps", Bitrate320, false},
		{"256", 0, true},
		{"loud", 0, true},
	}

	for _, test := range tests {
		got, err := ParseAudioBitrate(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseAudioBitrate(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
		if got != test.expected {
			t.Errorf("ParseAudioBitrate(%q) = %d, expected %d", test.input, got, test.expected)
		}
	}

	if got := Bitrate192.FFmpegValue(); got != "192k" {
		t.Errorf("FFmpegValue() = %q, expected 192k", got)
	}
	if got := AudioBitrate(0).FFmpegValue(); got != "320k" {
		t.Errorf("zero bitrate FFmpegValue() = %q, expected 320k", got)
	}
}
