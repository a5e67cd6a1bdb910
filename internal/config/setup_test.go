package config

import (
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	home := isolate(t)

	got, err := Normalize(Config{SessionsPath: "  ~/tracked ", LogFile: "~/tt.log", LogLevel: "info"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := Config{
		SessionsPath: filepath.Join(home, "tracked"),
		LogFile:      filepath.Join(home, "tt.log"),
		LogLevel:     "info",
	}
	if got != want {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeRejectsBadAnswers(t *testing.T) {
	cases := map[string]Config{
		"empty path":    {SessionsPath: "   ", LogLevel: "warn"},
		"unknown level": {SessionsPath: "/tmp/x", LogLevel: "loud"},
	}
	for name, cfg := range cases {
		if _, err := Normalize(cfg); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestSetupFormBindsConfig(t *testing.T) {
	cfg := Defaults()
	if form := SetupForm(&cfg); form == nil {
		t.Fatal("SetupForm returned nil")
	}
	if err := validatePath(""); err == nil {
		t.Error("empty sessions directory should not validate")
	}
}
