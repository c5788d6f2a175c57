package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "My Video", "My Video"},
		{"accents folded", "Café Olé", "Cafe Ole"},
		{"forbidden chars", `a\b/c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"control chars", "line\none\ttab\x7f", "lineonetab"},
		{"leading and trailing dots", "...hidden title.. ", "hidden title"},
		{"non latin only", "Видео 動画", FallbackTitle},
		{"empty", "", FallbackTitle},
		{"only forbidden", `<>:"/\|?*`, FallbackTitle},
		{"emoji dropped", "Song 🎵 Live", "Song  Live"},
		{"fullwidth folded", "ＡＢＣ", "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.expected {
				t.Errorf("SanitizeTitle(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeTitle_Length(t *testing.T) {
	got := SanitizeTitle(strings.Repeat("a", 500))
	if len(got) != MaxTitleBytes {
		t.Errorf("expected %d bytes, got %d", MaxTitleBytes, len(got))
	}

	// a cut landing on a space is trimmed
	got = SanitizeTitle(strings.Repeat("a", MaxTitleBytes-1) + " tail")
	if strings.HasSuffix(got, " ") {
		t.Errorf("result should not end with a space: %q", got)
	}
}

func TestUniquePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/downloads"
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	first, err := UniquePath(fs, dir, "My: Song", "mp3")
	if err != nil {
		t.Fatal(err)
	}
	if first != filepath.Join(dir, "My Song.mp3") {
		t.Errorf("first = %s", first)
	}

	// deterministic for an unchanged directory
	again, _ := UniquePath(fs, dir, "My: Song", ".mp3")
	if again != first {
		t.Errorf("expected %s again, got %s", first, again)
	}

	for i := 0; i < 3; i++ {
		p, err := UniquePath(fs, dir, "My: Song", "mp3")
		if err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	next, _ := UniquePath(fs, dir, "My: Song", "mp3")
	if next != filepath.Join(dir, "My Song (3).mp3") {
		t.Errorf("expected counter 3, got %s", next)
	}

	other, _ := UniquePath(fs, dir, "My: Song", "mp4")
	if other != filepath.Join(dir, "My Song.mp4") {
		t.Errorf("different extension should not collide, got %s", other)
	}
}

func TestReservePath_Concurrent(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()
	lockPath := filepath.Join(dir, ".tubeloader.lock")

	const workers = 8
	var wg sync.WaitGroup
	paths := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = ReservePath(context.Background(), fs, lockPath, dir, "Same Title", "mp4")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if seen[paths[i]] {
			t.Fatalf("path %s reserved twice", paths[i])
		}
		seen[paths[i]] = true
		if ok, _ := afero.Exists(fs, paths[i]); !ok {
			t.Errorf("placeholder %s was not created", paths[i])
		}
	}

	if !seen[filepath.Join(dir, "Same Title.mp4")] {
		t.Error("base name was never handed out")
	}
	if !seen[filepath.Join(dir, fmt.Sprintf("Same Title (%d).mp4", workers-1))] {
		t.Error("expected counters up to workers-1")
	}
}

func TestReservePath_NoLock(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/out", 0755); err != nil {
		t.Fatal(err)
	}
	p1, err := ReservePath(context.Background(), fs, "", "/out", "clip", "mp4")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := ReservePath(context.Background(), fs, "", "/out", "clip", "mp4")
	if err != nil {
		t.Fatal(err)
	}
	if p1 == p2 {
		t.Errorf("expected distinct reservations, got %s twice", p1)
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("/out/My.Video.mp4"); got != "My.Video" {
		t.Errorf("BaseName = %s", got)
	}
}
