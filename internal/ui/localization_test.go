package ui

import (
	"fmt"
	"testing"
)

func TestLocalization_Defaults(t *testing.T) {
	l := NewLocalization()
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("default language = %q, want en", l.GetCurrentLanguage())
	}
	if got := l.GetText(KeyAppTitle); got != "TubeLoader" {
		t.Errorf("app title = %q", got)
	}
	if got := fmt.Sprintf(l.GetText(KeyStatusStarting), 2); got != "Starting download (2 active)..." {
		t.Errorf("starting status = %q", got)
	}
}

func TestLocalization_SetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("ru")
	if l.GetCurrentLanguage() != "ru" {
		t.Fatalf("language = %q, want ru", l.GetCurrentLanguage())
	}
	if l.GetText(KeyDownload) == NewLocalization().GetText(KeyDownload) {
		t.Error("ru download label should differ from en")
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("unknown code changed language to %q", l.GetCurrentLanguage())
	}
}

func TestLocalization_Fallbacks(t *testing.T) {
	l := NewLocalization()
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("missing key = %q, want the key itself", got)
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	en := l.texts["en"]
	for code := range l.GetAvailableLanguages() {
		texts, ok := l.texts[code]
		if !ok {
			t.Errorf("language %q has no texts", code)
			continue
		}
		for key := range en {
			if _, ok := texts[key]; !ok {
				t.Errorf("language %q misses key %q", code, key)
			}
		}
	}
}

func TestFinishStatus(t *testing.T) {
	l := NewLocalization()
	if got := finishStatus(l, 0); got != "Ready for a new download." {
		t.Errorf("finishStatus(0) = %q", got)
	}
	if got := finishStatus(l, 2); got != "Done. 2 download(s) active." {
		t.Errorf("finishStatus(2) = %q", got)
	}
}
