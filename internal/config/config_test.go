package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/navspy/internal/spy"
	"github.com/dshills/navspy/internal/spy/animate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesSpyDefaults(t *testing.T) {
	opts, err := Default().SpyOptions()
	if err != nil {
		t.Fatalf("SpyOptions: %v", err)
	}
	if diff := cmp.Diff(spy.DefaultOptions(), opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "navspy.toml", `
[spy]
offset = 4
duration = 250
exact = true
click_to_scroll = false

[viewer]
sidebar_width = 32

[hooks]
script = "hooks.lua"
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Spy.Offset = 4
	want.Spy.Duration = 250 * time.Millisecond
	want.Spy.Exact = true
	want.Spy.ClickToScroll = false
	want.Viewer.SidebarWidth = 32
	want.Hooks.Script = "hooks.lua"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "navspy.yaml", `
spy:
  duration: 1.5s
  bezier: "0.25, 0.1, 0.25, 1"
log:
  level: debug
  file: /tmp/navspy.log
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Spy.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", cfg.Spy.Duration)
	}
	if cfg.Log.File != "/tmp/navspy.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("LogLevel = %v, %v, want debug", lvl, err)
	}
	opts, err := cfg.SpyOptions()
	if err != nil {
		t.Fatalf("SpyOptions: %v", err)
	}
	if opts.Bezier != "0.25, 0.1, 0.25, 1" {
		t.Errorf("Bezier = %q", opts.Bezier)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("navspy.json", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[spy\n")
	_, err := Load(path, nil)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
}

func TestLoadUnknownSetting(t *testing.T) {
	path := writeFile(t, "navspy.toml", "[spy]\nspeed = 3\n")
	_, err := Load(path, nil)
	if !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("error = %v, want ErrUnknownSetting", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "spy.speed" {
		t.Errorf("ValidationError = %+v, want field spy.speed", ve)
	}
}

func TestLoadInvalidBezier(t *testing.T) {
	path := writeFile(t, "navspy.toml", "[spy]\nbezier = \"1,2,3\"\n")
	_, err := Load(path, nil)
	if !errors.Is(err, animate.ErrInvalidBezier) {
		t.Errorf("error = %v, want ErrInvalidBezier", err)
	}
}

func TestLayerPrecedence(t *testing.T) {
	path := writeFile(t, "navspy.toml", "[spy]\noffset = 4\nexact = true\nactive_class = \"file\"\n")
	t.Setenv("NAVSPY_OFFSET", "8")
	t.Setenv("NAVSPY_ACTIVE_CLASS", "env")

	cfg, err := Load(path, map[string]any{"spy.offset": "12"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Spy.Offset != 12 {
		t.Errorf("Offset = %v, want 12 from overrides", cfg.Spy.Offset)
	}
	if cfg.Spy.ActiveClass != "env" {
		t.Errorf("ActiveClass = %q, want env", cfg.Spy.ActiveClass)
	}
	if !cfg.Spy.Exact {
		t.Error("Exact should come from the file")
	}
}

func TestEnvironmentBadValue(t *testing.T) {
	t.Setenv("NAVSPY_EXACT", "maybe")
	_, err := Load("", nil)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "spy.exact" {
		t.Errorf("error = %v, want ValidationError for spy.exact", err)
	}
}

func TestApplyConversions(t *testing.T) {
	tests := []struct {
		path  string
		value any
		check func(Config) bool
	}{
		{"spy.offset", int64(3), func(c Config) bool { return c.Spy.Offset == 3 }},
		{"spy.offset", "2.5", func(c Config) bool { return c.Spy.Offset == 2.5 }},
		{"spy.exact", "yes", func(c Config) bool { return c.Spy.Exact }},
		{"spy.modify_url", "off", func(c Config) bool { return !c.Spy.ModifyURL }},
		{"spy.duration", "2s", func(c Config) bool { return c.Spy.Duration == 2*time.Second }},
		{"spy.duration", 100, func(c Config) bool { return c.Spy.Duration == 100*time.Millisecond }},
		{"viewer.scroll_step", "5", func(c Config) bool { return c.Viewer.ScrollStep == 5 }},
		{"viewer.frame_interval", "8ms", func(c Config) bool { return c.Viewer.FrameInterval == 8*time.Millisecond }},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := cfg.Apply(map[string]any{tt.path: tt.value}, true); err != nil {
			t.Errorf("Apply(%s=%v): %v", tt.path, tt.value, err)
			continue
		}
		if !tt.check(cfg) {
			t.Errorf("Apply(%s=%v) produced %+v", tt.path, tt.value, cfg)
		}
	}
}

func TestApplyRejects(t *testing.T) {
	tests := []struct {
		path  string
		value any
	}{
		{"spy.offset", "far"},
		{"spy.container", 3},
		{"viewer.sidebar_width", 2.5},
		{"spy.duration", "soon"},
		{"spy.click_to_scroll", "sometimes"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := cfg.Apply(map[string]any{tt.path: tt.value}, true); err == nil {
			t.Errorf("Apply(%s=%v) succeeded, want error", tt.path, tt.value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"sidebar", func(c *Config) { c.Viewer.SidebarWidth = 2 }, "viewer.sidebar_width"},
		{"scroll step", func(c *Config) { c.Viewer.ScrollStep = 0 }, "viewer.scroll_step"},
		{"frame interval", func(c *Config) { c.Viewer.FrameInterval = 0 }, "viewer.frame_interval"},
		{"active class", func(c *Config) { c.Spy.ActiveClass = "" }, "spy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestSettingsListed(t *testing.T) {
	got := Settings()
	sort.Strings(got)
	if len(got) != 15 {
		t.Errorf("Settings() has %d entries, want 15", len(got))
	}
	if got[0] != "hooks.script" {
		t.Errorf("first setting = %q, want hooks.script", got[0])
	}
}
