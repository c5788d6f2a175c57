package model

import (
	"testing"
)

func TestDownloadTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, test := range tests {
		task := &DownloadTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		outputs  []string
		url      string
		expected string
	}{
		{"Video Title", nil, "https://youtube.com/watch?v=123", "Video Title"},
		{"", []string{"/home/me/Downloads/Song (1).mp3"}, "https://youtube.com/watch?v=123", "Song (1)"},
		{"", []string{`C:\Users\me\Downloads\Clip.mp4`}, "https://youtube.com/watch?v=123", "Clip"},
		{"https://youtube.com/watch?v=456", nil, "https://youtube.com/watch?v=456", "https://youtube.com/watch?v=456"},
		{"", nil, "", ""},
	}

	for _, test := range tests {
		task := &DownloadTask{Title: test.title, OutputPaths: test.outputs, URL: test.url}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() title=%q outputs=%v = %q, expected %q",
				test.title, test.outputs, result, test.expected)
		}
	}
}

func TestDownloadTask_Clone(t *testing.T) {
	task := &DownloadTask{ID: "task-1", OutputPaths: []string{"a.mp4"}}
	c := task.Clone()
	c.OutputPaths[0] = "b.mp4"
	if task.OutputPaths[0] != "a.mp4" {
		t.Error("Clone should not share the OutputPaths backing array")
	}
}
