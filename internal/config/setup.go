package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Levels lists the accepted log_level values.
var Levels = []string{"debug", "info", "warn", "error"}

// SetupForm builds the interactive setup wizard. Answers are written into
// cfg when the form completes; existing values are the defaults, which
// makes re-running setup an edit.
func SetupForm(cfg *Config) *huh.Form {
	levels := make([]huh.Option[string], 0, len(Levels))
	for _, l := range Levels {
		levels = append(levels, huh.NewOption(l, l))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sessions directory").
				Description("One markdown file per session is stored here.").
				Value(&cfg.SessionsPath).
				Validate(validatePath),
			huh.NewSelect[string]().
				Title("Log level").
				Options(levels...).
				Value(&cfg.LogLevel),
			huh.NewInput().
				Title("Log file").
				Description("Leave empty to log to stderr.").
				Value(&cfg.LogFile),
		),
	)
}

// RunSetup runs the setup wizard starting from existing and returns the
// answers with home directories expanded.
func RunSetup(existing Config) (Config, error) {
	cfg := existing
	if cfg.LogLevel == "" {
		cfg.LogLevel = Defaults().LogLevel
	}
	if err := SetupForm(&cfg).Run(); err != nil {
		return Config{}, err
	}
	return Normalize(cfg)
}

// Normalize trims and expands the answers of the setup wizard and checks
// the log level.
func Normalize(cfg Config) (Config, error) {
	cfg.SessionsPath = ExpandHome(strings.TrimSpace(cfg.SessionsPath))
	cfg.LogFile = ExpandHome(strings.TrimSpace(cfg.LogFile))
	if err := validatePath(cfg.SessionsPath); err != nil {
		return Config{}, err
	}
	for _, l := range Levels {
		if cfg.LogLevel == l {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("unknown log level %q", cfg.LogLevel)
}

func validatePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("sessions directory must not be empty")
	}
	return nil
}
