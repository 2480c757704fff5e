// Package config loads navspy settings.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (NAVSPY_*)  │
//	├─────────────────────────────┤
//	│  2. Config file             │  ← TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each source is read into a nested map by the loader package, merged, and
// then applied setting by setting onto a Config. Values from files and
// flags keep their native types; environment values arrive as strings and
// are converted per setting.
//
// # Settings
//
//	spy.container         string    selector of the nav container
//	spy.active_class      string    marker class
//	spy.offset            number    boundary offset in rows
//	spy.click_to_scroll   bool
//	spy.duration          duration  "600ms" or milliseconds
//	spy.always_track      bool
//	spy.bezier            string    "x1,y1,x2,y2"
//	spy.modify_url        bool
//	spy.exact             bool
//	log.level             string    debug, info, warn or error
//	log.file              string
//	viewer.sidebar_width  int
//	viewer.scroll_step    int
//	viewer.frame_interval duration
//	hooks.script          string    Lua script path
package config
