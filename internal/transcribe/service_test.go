package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/tubeloader/internal/logging"
)

type fakeEngine struct {
	segments []Segment
	err      error
	got      string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	f.got = mediaPath
	return f.segments, f.err
}

func TestService_TranscribeFile(t *testing.T) {
	media := filepath.Join(t.TempDir(), "My Song.mp3")
	if err := os.WriteFile(media, []byte("id3"), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "subs")

	engine := &fakeEngine{segments: []Segment{{Start: 0, End: 1, Text: "la"}}}
	svc := NewService(engine, logging.Discard())

	srt, err := svc.TranscribeFile(context.Background(), media, outDir)
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if srt != filepath.Join(outDir, "My Song.srt") {
		t.Errorf("srt path = %s", srt)
	}
	if engine.got != media {
		t.Errorf("engine got %s", engine.got)
	}
	data, _ := os.ReadFile(srt)
	if string(data) != "1\n00:00:00,000 --> 00:00:01,000\nla\n\n" {
		t.Errorf("content = %q", data)
	}
}

func TestService_TranscribeFile_Errors(t *testing.T) {
	svc := NewService(&fakeEngine{}, logging.Discard())
	_, err := svc.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), t.TempDir())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	media := filepath.Join(t.TempDir(), "a.mp4")
	_ = os.WriteFile(media, nil, 0644)
	failing := NewService(&fakeEngine{err: errors.New("engine down")}, logging.Discard())
	outDir := t.TempDir()
	if _, err := failing.TranscribeFile(context.Background(), media, outDir); err == nil {
		t.Error("expected engine error")
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "a.srt")); !os.IsNotExist(statErr) {
		t.Error("no srt should be written on failure")
	}
}

func TestNewOpenAI_RequiresCredentials(t *testing.T) {
	if _, err := NewOpenAI("", "", ""); err == nil {
		t.Error("expected error without key or base URL")
	}
	o, err := NewOpenAI("sk-test", "", "en")
	if err != nil || o.Name() != EngineOpenAI {
		t.Errorf("NewOpenAI = %v, %v", o, err)
	}
}
