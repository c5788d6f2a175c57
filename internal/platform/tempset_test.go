package platform

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestTempSet_NewAndCleanup(t *testing.T) {
	fs := afero.NewMemMapFs()
	set := NewTempSet(fs, "/work")

	a := set.New("mp4")
	b := set.New(".m4a")
	if a == b {
		t.Fatal("temp paths should be unique")
	}
	if filepath.Dir(a) != "/work" || !strings.HasSuffix(a, ".mp4") || !strings.HasSuffix(b, ".m4a") {
		t.Errorf("unexpected temp paths %s, %s", a, b)
	}

	for _, p := range []string{a, b} {
		if err := afero.WriteFile(fs, p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := set.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	for _, p := range []string{a, b} {
		if ok, _ := afero.Exists(fs, p); ok {
			t.Errorf("%s should be removed", p)
		}
	}
	if len(set.Tracked()) != 0 {
		t.Error("nothing should be tracked after cleanup")
	}

	// idempotent, and never-created paths are fine
	set.New("wav")
	if err := set.Cleanup(); err != nil {
		t.Errorf("second Cleanup: %v", err)
	}
}

func TestTempSet_Release(t *testing.T) {
	fs := afero.NewMemMapFs()
	set := NewTempSet(fs, "/work")

	p := set.New("mp4")
	_ = afero.WriteFile(fs, p, []byte("x"), 0644)

	if err := set.Release(p); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, p); ok {
		t.Error("released file should be gone")
	}
	if err := set.Release(p); err != nil {
		t.Errorf("releasing twice should not fail: %v", err)
	}
}

func TestTempSet_Promote(t *testing.T) {
	fs := afero.NewMemMapFs()
	set := NewTempSet(fs, "/work")

	src := set.New("mp4")
	_ = afero.WriteFile(fs, src, []byte("merged"), 0644)
	dst := "/work/Final.mp4"
	// reserved placeholder
	_ = afero.WriteFile(fs, dst, nil, 0644)

	if err := set.Promote(src, dst); err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(fs, dst)
	if err != nil || string(data) != "merged" {
		t.Fatalf("dst content = %q, err = %v", data, err)
	}

	if err := set.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, dst); !ok {
		t.Error("promoted file must survive cleanup")
	}
}
