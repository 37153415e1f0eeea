package snapshot

import (
	"testing"
	"time"
)

func TestFindChromeBinaryPrefersOverride(t *testing.T) {
	t.Setenv("CHROME_BIN", "/from/env/chrome")

	if got := findChromeBinary("/explicit/chrome"); got != "/explicit/chrome" {
		t.Errorf("findChromeBinary(override) = %q, want /explicit/chrome", got)
	}
	if got := findChromeBinary(""); got != "/from/env/chrome" {
		t.Errorf("findChromeBinary(\"\") = %q, want CHROME_BIN value", got)
	}
}

func TestThemedURL(t *testing.T) {
	tests := []struct {
		base string
		dark bool
		want string
	}{
		{"http://127.0.0.1:3000/", true, "http://127.0.0.1:3000/?theme=dark"},
		{"http://127.0.0.1:3000/", false, "http://127.0.0.1:3000/?theme=light"},
		{"http://localhost:3000/?theme=light", true, "http://localhost:3000/?theme=dark"},
	}
	for _, tt := range tests {
		got, err := themedURL(tt.base, tt.dark)
		if err != nil {
			t.Fatalf("themedURL(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("themedURL(%q, %v) = %q, want %q", tt.base, tt.dark, got, tt.want)
		}
	}
}

func TestThemedURLRejectsRelative(t *testing.T) {
	if _, err := themedURL("/dashboard", false); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Quality: 250}.withDefaults()

	if o.Timeout != 60*time.Second || o.Width != 1440 || o.Height != 900 || o.Quality != 90 {
		t.Errorf("withDefaults() = %+v", o)
	}
}
