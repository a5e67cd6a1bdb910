package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"pgregory.net/rapid"
)

// Feature: timetracker, Property: config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	// Generator for a non-empty string field value.
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.~-]{1,20}`)

	// Each field is independently either empty or a non-empty value.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasSessionsPath") {
			cfg.SessionsPath = nonEmptyString.Draw(t, "sessionsPath")
		}
		if rapid.Bool().Draw(t, "hasLogFile") {
			cfg.LogFile = nonEmptyString.Draw(t, "logFile")
		}
		if rapid.Bool().Draw(t, "hasLogLevel") {
			cfg.LogLevel = rapid.SampledFrom([]string{"debug", "info", "warn", "error"}).Draw(t, "logLevel")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		var global, project *Config
		if rapid.Bool().Draw(t, "hasGlobal") {
			global = configGen.Draw(t, "global")
		}
		if rapid.Bool().Draw(t, "hasProject") {
			project = configGen.Draw(t, "project")
		}

		merged := Merge(global, project)
		defaults := Defaults()

		field := func(c *Config, get func(*Config) string) string {
			if c == nil {
				return ""
			}
			return get(c)
		}
		sessions := func(c *Config) string { return c.SessionsPath }
		logFile := func(c *Config) string { return c.LogFile }
		logLevel := func(c *Config) string { return c.LogLevel }

		checkStringField(t, "SessionsPath",
			field(global, sessions), field(project, sessions), defaults.SessionsPath,
			merged.SessionsPath)
		checkStringField(t, "LogFile",
			field(global, logFile), field(project, logFile), defaults.LogFile,
			merged.LogFile)
		checkStringField(t, "LogLevel",
			field(global, logLevel), field(project, logLevel), defaults.LogLevel,
			merged.LogLevel)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set, expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set, expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set, expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

// isolate points HOME, XDG_DATA_HOME and the working directory at fresh
// temp directories.
func isolate(t *testing.T) (home string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	return home
}

func TestDefaultsValues(t *testing.T) {
	home := isolate(t)
	d := Defaults()
	if want := filepath.Join(home, "data", "timetracker", "sessions"); d.SessionsPath != want {
		t.Errorf("SessionsPath: want %q, got %q", want, d.SessionsPath)
	}
	if d.LogLevel != "warn" {
		t.Errorf("LogLevel: want %q, got %q", "warn", d.LogLevel)
	}
	if d.LogFile != "" {
		t.Errorf("LogFile: want empty, got %q", d.LogFile)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if *cfg != Defaults() {
		t.Errorf("want defaults, got %+v", *cfg)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	isolate(t)

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	home := isolate(t)

	if err := os.WriteFile(filepath.Join(home, FileName), []byte("sessions_path = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid TOML, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestLoadMergesFilesAndEnvironment(t *testing.T) {
	home := isolate(t)

	global := "sessions_path = '~/tracked'\nlog_level = 'info'\n"
	if err := os.WriteFile(filepath.Join(home, FileName), []byte(global), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FileName, []byte("log_level = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIMETRACKER_LOG_FILE", "~/tt.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "tracked"); cfg.SessionsPath != want {
		t.Errorf("SessionsPath: want %q, got %q", want, cfg.SessionsPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: want project value, got %q", cfg.LogLevel)
	}
	if want := filepath.Join(home, "tt.log"); cfg.LogFile != want {
		t.Errorf("LogFile: want %q, got %q", want, cfg.LogFile)
	}
}

func TestEnsureGlobalWritesDefaultsOnce(t *testing.T) {
	home := isolate(t)

	created, err := EnsureGlobal()
	if err != nil {
		t.Fatalf("EnsureGlobal: %v", err)
	}
	if !created {
		t.Fatal("expected the global config to be created")
	}
	if _, err := os.Stat(filepath.Join(home, FileName)); err != nil {
		t.Fatalf("global config missing: %v", err)
	}

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if *cfg != Defaults() {
		t.Errorf("written config differs from defaults: %+v", *cfg)
	}

	created, err = EnsureGlobal()
	if err != nil {
		t.Fatalf("second EnsureGlobal: %v", err)
	}
	if created {
		t.Error("EnsureGlobal overwrote an existing file")
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)
	tests := map[string]string{
		"~":         home,
		"~/a/b":     filepath.Join(home, "a", "b"),
		"/abs/path": "/abs/path",
		"rel/~":     "rel/~",
		"~other":    "~other",
		"":          "",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
