package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/navspy/internal/config/loader"
	"github.com/dshills/navspy/internal/spy"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "NAVSPY_"

// Config is the complete navspy configuration.
type Config struct {
	Spy    SpyConfig
	Log    LogConfig
	Viewer ViewerConfig
	Hooks  HooksConfig
}

// SpyConfig mirrors spy.Options with a string bezier.
type SpyConfig struct {
	Container     string
	ActiveClass   string
	Offset        float64
	ClickToScroll bool
	Duration      time.Duration
	AlwaysTrack   bool
	Bezier        string
	ModifyURL     bool
	Exact         bool
}

// LogConfig selects the log level and destination.
type LogConfig struct {
	Level string
	// File is the log destination; empty discards logs.
	File string
}

// ViewerConfig controls the terminal viewer.
type ViewerConfig struct {
	SidebarWidth  int
	ScrollStep    int
	FrameInterval time.Duration
}

// HooksConfig locates the optional Lua hook script.
type HooksConfig struct {
	Script string
}

// Default returns the built-in configuration.
func Default() Config {
	o := spy.DefaultOptions()
	return Config{
		Spy: SpyConfig{
			Container:     o.Container,
			ActiveClass:   o.ActiveClass,
			Offset:        o.Offset,
			ClickToScroll: o.ClickToScroll,
			Duration:      o.Duration,
			AlwaysTrack:   o.AlwaysTrack,
			Bezier:        o.Bezier,
			ModifyURL:     o.ModifyURL,
			Exact:         o.Exact,
		},
		Log: LogConfig{Level: "info"},
		Viewer: ViewerConfig{
			SidebarWidth:  28,
			ScrollStep:    3,
			FrameInterval: 16 * time.Millisecond,
		},
	}
}

// DefaultPath returns the per-user config file location, or "" when the
// user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "navspy", "config.toml")
}

// Loader assembles a Config from its layers.
type Loader struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// NewLoader returns a loader reading the OS file system and environment.
func NewLoader() *Loader {
	return &Loader{fs: loader.DefaultFS(), env: loader.NewEnvLoader(EnvPrefix)}
}

// Load builds a Config from defaults, the file at path, the environment
// and overrides, in increasing priority. An empty path or a missing file
// skips the file layer. Overrides map dotted setting paths to values.
func (l *Loader) Load(path string, overrides map[string]any) (Config, error) {
	cfg := Default()

	if path != "" {
		fl, err := loader.ForPath(l.fs, path)
		if err != nil {
			return cfg, err
		}
		m, err := fl.Load()
		if err != nil {
			return cfg, err
		}
		if err := cfg.Apply(m, true); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	env, err := l.env.Load()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Apply(env, false); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Apply(overrides, true); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Load is NewLoader().Load.
func Load(path string, overrides map[string]any) (Config, error) {
	return NewLoader().Load(path, overrides)
}

// Apply sets every leaf of m on c. With strict set, unknown settings are
// errors; otherwise they are skipped. All problems are reported together.
func (c *Config) Apply(m map[string]any, strict bool) error {
	var errs []error
	for path, v := range loader.Flatten(m) {
		s, ok := settings[path]
		if !ok {
			if strict {
				errs = append(errs, &ValidationError{Field: path, Message: "not a setting", Err: ErrUnknownSetting})
			}
			continue
		}
		if err := s(c, v); err != nil {
			errs = append(errs, &ValidationError{Field: path, Message: "invalid value", Err: err})
		}
	}
	return errors.Join(errs...)
}

// SpyOptions converts the spy section, validating it.
func (c Config) SpyOptions() (spy.Options, error) {
	o := spy.Options{
		Container:     c.Spy.Container,
		ActiveClass:   c.Spy.ActiveClass,
		Offset:        c.Spy.Offset,
		ClickToScroll: c.Spy.ClickToScroll,
		Duration:      c.Spy.Duration,
		AlwaysTrack:   c.Spy.AlwaysTrack,
		Bezier:        c.Spy.Bezier,
		ModifyURL:     c.Spy.ModifyURL,
		Exact:         c.Spy.Exact,
	}
	if err := o.Validate(); err != nil {
		return o, &ValidationError{Field: "spy", Message: "invalid options", Err: err}
	}
	return o, nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, &ValidationError{Field: "log.level", Message: "unknown level", Err: err}
	}
	return lvl, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.SpyOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Viewer.SidebarWidth < 8 {
		errs = append(errs, &ValidationError{Field: "viewer.sidebar_width", Message: "must be at least 8"})
	}
	if c.Viewer.ScrollStep < 1 {
		errs = append(errs, &ValidationError{Field: "viewer.scroll_step", Message: "must be at least 1"})
	}
	if c.Viewer.FrameInterval <= 0 {
		errs = append(errs, &ValidationError{Field: "viewer.frame_interval", Message: "must be positive"})
	}
	return errors.Join(errs...)
}
