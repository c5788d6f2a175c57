package media

import (
	"reflect"
	"testing"

	"github.com/ytget/tubeloader/internal/model"
)

func TestArgBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      []string
		expected []string
	}{
		{
			name:     "merge",
			got:      MergeArgs("v.mp4", "a.m4a", "out.mp4"),
			expected: []string{"-i", "v.mp4", "-i", "a.m4a", "-c:v", "copy", "-c:a", "aac", "out.mp4"},
		},
		{
			name: "video trim",
			got:  VideoTrimArgs("in.mp4", "out.mp4", "00:00:05", "00:01:00"),
			expected: []string{
				"-ss", "00:00:05", "-to", "00:01:00", "-i", "in.mp4",
				"-c:v", "libx264", "-preset", "veryfast", "-crf", "18",
				"-c:a", "aac", "-b:a", "192k", "-movflags", "+faststart", "out.mp4",
			},
		},
		{
			name:     "audio trim",
			got:      AudioTrimArgs("in.m4a", "out.m4a", "00:00:05", "00:01:00"),
			expected: []string{"-i", "in.m4a", "-ss", "00:00:05", "-to", "00:01:00", "-c", "copy", "out.m4a"},
		},
		{
			name:     "mp3 default",
			got:      MP3Args("in.m4a", "out.mp3", model.DefaultBitrate),
			expected: []string{"-i", "in.m4a", "-codec:a", "libmp3lame", "-b:a", "320k", "out.mp3"},
		},
		{
			name:     "mp3 128",
			got:      MP3Args("in.m4a", "out.mp3", model.Bitrate128),
			expected: []string{"-i", "in.m4a", "-codec:a", "libmp3lame", "-b:a", "128k", "out.mp3"},
		},
		{
			name:     "extract audio",
			got:      ExtractAudioArgs("in.mp4", "out.mp3"),
			expected: []string{"-i", "in.mp4", "-vn", "-acodec", "libmp3lame", "-q:a", "2", "out.mp3"},
		},
		{
			name:     "wav",
			got:      WAVArgs("in.mp3", "out.wav"),
			expected: []string{"-i", "in.mp3", "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", "out.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("got %v\nexpected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestWithGlobalArgs(t *testing.T) {
	got := WithGlobalArgs([]string{"-i", "a", "b"})
	expected := []string{"-hide_banner", "-nostdin", "-y", "-nostats", "-progress", "pipe:2", "-i", "a", "b"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}

	// the shared prefix must not be mutated by appends
	_ = WithGlobalArgs([]string{"x"})
	if globalArgs[len(globalArgs)-1] != "pipe:2" {
		t.Error("globalArgs was modified")
	}
}
