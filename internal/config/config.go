package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// FileName is used for both the global (home) and project config.
	FileName = ".timetracker.toml"

	envPrefix = "TIMETRACKER"

	keySessionsPath = "sessions_path"
	keyLogFile      = "log_file"
	keyLogLevel     = "log_level"
)

// Config holds all configurable timetracker settings.
type Config struct {
	SessionsPath string `mapstructure:"sessions_path"`
	LogFile      string `mapstructure:"log_file"`  // empty logs to stderr
	LogLevel     string `mapstructure:"log_level"` // debug | info | warn | error
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		SessionsPath: filepath.Join(xdg.DataHome, "timetracker", "sessions"),
		LogLevel:     "warn",
	}
}

// GlobalPath returns ~/.timetracker.toml.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// LoadGlobal reads ~/.timetracker.toml.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .timetracker.toml in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(FileName, false)
}

// Load merges global, project and environment settings.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	cfg := Merge(global, project)
	applyEnv(&cfg)
	cfg.SessionsPath = ExpandHome(cfg.SessionsPath)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	return cfg, nil
}

// loadFile reads and parses a TOML config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// applyEnv overrides cfg with TIMETRACKER_* environment variables.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, field := range map[string]*string{
		keySessionsPath: &cfg.SessionsPath,
		keyLogFile:      &cfg.LogFile,
		keyLogLevel:     &cfg.LogLevel,
	} {
		if val := v.GetString(key); val != "" {
			*field = val
		}
	}
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.SessionsPath != "" {
			result.SessionsPath = c.SessionsPath
		}
		if c.LogFile != "" {
			result.LogFile = c.LogFile
		}
		if c.LogLevel != "" {
			result.LogLevel = c.LogLevel
		}
	}
	return result
}

// WriteGlobal stores cfg as the global config file and returns its path.
func WriteGlobal(cfg Config) (string, error) {
	path, err := GlobalPath()
	if err != nil {
		return "", err
	}
	v := viper.New()
	v.Set(keySessionsPath, cfg.SessionsPath)
	v.Set(keyLogLevel, cfg.LogLevel)
	if cfg.LogFile != "" {
		v.Set(keyLogFile, cfg.LogFile)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureGlobal writes the defaults to the global config file on first run.
// It reports whether a file was created.
func EnsureGlobal() (bool, error) {
	path, err := GlobalPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if _, err := WriteGlobal(Defaults()); err != nil {
		return false, err
	}
	return true, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
