package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", errors.New("not in PATH")
	}
	t.Cleanup(func() { lookPath = orig })
}

func stubGOOS(t *testing.T, value string) {
	t.Helper()
	orig := goos
	goos = value
	t.Cleanup(func() { goos = orig })
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestResolveTool_SearchOrder(t *testing.T) {
	stubGOOS(t, OSLinux)
	stubLookPath(t, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})

	cwd := t.TempDir()

	// PATH when nothing is bundled
	p, err := FindFFmpeg(cwd)
	if err != nil || p != "/usr/bin/ffmpeg" {
		t.Fatalf("expected PATH hit, got %q, %v", p, err)
	}

	// ./ffmpeg beats PATH
	touch(t, filepath.Join(cwd, "ffmpeg"))
	p, _ = FindFFmpeg(cwd)
	if p != filepath.Join(cwd, "ffmpeg") {
		t.Errorf("expected cwd binary, got %q", p)
	}
}

func TestResolveTool_BundledFolderWins(t *testing.T) {
	stubGOOS(t, OSWindows)
	stubLookPath(t, nil)

	cwd := t.TempDir()
	touch(t, filepath.Join(cwd, "ffmpeg", "ffmpeg.exe"))
	touch(t, filepath.Join(cwd, "ffmpeg.exe"))

	p, err := FindFFmpeg(cwd)
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(cwd, "ffmpeg", "ffmpeg.exe") {
		t.Errorf("expected bundled folder binary, got %q", p)
	}
}

func TestResolveTool_NotFound(t *testing.T) {
	stubGOOS(t, OSLinux)
	stubLookPath(t, nil)

	_, err := FindFFprobe(t.TempDir())
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestResolveTool_Configured(t *testing.T) {
	stubLookPath(t, nil)
	explicit := filepath.Join(t.TempDir(), "my-ffmpeg")
	touch(t, explicit)

	p, err := ResolveTool(explicit, "", ToolFFmpeg)
	if err != nil || p != explicit {
		t.Errorf("expected configured path, got %q, %v", p, err)
	}

	if _, err := ResolveTool("/does/not/exist", "", ToolFFmpeg); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound for bad configured path, got %v", err)
	}
}

func TestCheckTools(t *testing.T) {
	stubGOOS(t, OSLinux)
	stubLookPath(t, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})

	statuses := CheckTools(t.TempDir(), []Requirement{
		{Name: "ffmpeg", Binary: ToolFFmpeg},
		{Name: "ffprobe", Binary: ToolFFprobe},
		{Name: "whisper.cpp", Binary: ToolWhisperCLI, Optional: true},
	})

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Found || statuses[0].Path != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg status = %+v", statuses[0])
	}
	if statuses[1].Found || statuses[2].Found {
		t.Error("ffprobe and whisper-cli should be missing")
	}

	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Binary != ToolFFprobe {
		t.Errorf("MissingRequired = %+v", missing)
	}
}
