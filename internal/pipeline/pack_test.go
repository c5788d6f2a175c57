package pipeline

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestPack(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "Song.mp4")
	b := filepath.Join(dir, "Song.srt")
	_ = os.WriteFile(a, []byte("video"), 0644)
	_ = os.WriteFile(b, []byte("subs"), 0644)

	dest := filepath.Join(dir, PackName("Song"))
	if filepath.Base(dest) != "Song_pack.zip" {
		t.Errorf("PackName = %s", filepath.Base(dest))
	}
	if err := Pack([]string{a, b}, dest); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "Song.mp4" || names[1] != "Song.srt" {
		t.Errorf("entries = %v", names)
	}
}

func TestPack_MissingFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "x_pack.zip")
	if err := Pack([]string{filepath.Join(dir, "missing.mp4")}, dest); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed pack must not leave a zip behind")
	}
}
