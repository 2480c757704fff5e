package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type setter func(*Config, any) error

var settings = map[string]setter{
	"spy.container":         stringSetting(func(c *Config) *string { return &c.Spy.Container }),
	"spy.active_class":      stringSetting(func(c *Config) *string { return &c.Spy.ActiveClass }),
	"spy.offset":            floatSetting(func(c *Config) *float64 { return &c.Spy.Offset }),
	"spy.click_to_scroll":   boolSetting(func(c *Config) *bool { return &c.Spy.ClickToScroll }),
	"spy.duration":          durationSetting(func(c *Config) *time.Duration { return &c.Spy.Duration }),
	"spy.always_track":      boolSetting(func(c *Config) *bool { return &c.Spy.AlwaysTrack }),
	"spy.bezier":            stringSetting(func(c *Config) *string { return &c.Spy.Bezier }),
	"spy.modify_url":        boolSetting(func(c *Config) *bool { return &c.Spy.ModifyURL }),
	"spy.exact":             boolSetting(func(c *Config) *bool { return &c.Spy.Exact }),
	"log.level":             stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"log.file":              stringSetting(func(c *Config) *string { return &c.Log.File }),
	"viewer.sidebar_width":  intSetting(func(c *Config) *int { return &c.Viewer.SidebarWidth }),
	"viewer.scroll_step":    intSetting(func(c *Config) *int { return &c.Viewer.ScrollStep }),
	"viewer.frame_interval": durationSetting(func(c *Config) *time.Duration { return &c.Viewer.FrameInterval }),
	"hooks.script":          stringSetting(func(c *Config) *string { return &c.Hooks.Script }),
}

// Settings returns the known setting paths.
func Settings() []string {
	out := make([]string, 0, len(settings))
	for k := range settings {
		out = append(out, k)
	}
	return out
}

func stringSetting(field func(*Config) *string) setter {
	return func(c *Config, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want string, got %T", v)
		}
		*field(c) = s
		return nil
	}
}

func boolSetting(field func(*Config) *bool) setter {
	return func(c *Config, v any) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func floatSetting(field func(*Config) *float64) setter {
	return func(c *Config, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func intSetting(field func(*Config) *int) setter {
	return func(c *Config, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("want integer, got %v", v)
		}
		*field(c) = int(f)
		return nil
	}
}

// durationSetting accepts Go duration strings or a number of milliseconds.
func durationSetting(field func(*Config) *time.Duration) setter {
	return func(c *Config, v any) error {
		switch x := v.(type) {
		case time.Duration:
			*field(c) = x
			return nil
		case string:
			if d, err := time.ParseDuration(x); err == nil {
				*field(c) = d
				return nil
			}
		}
		ms, err := toFloat(v)
		if err != nil {
			return fmt.Errorf("want duration, got %v", v)
		}
		*field(c) = time.Duration(ms * float64(time.Millisecond))
		return nil
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("want bool, got %v", v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("want number, got %q", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("want number, got %T", v)
}
