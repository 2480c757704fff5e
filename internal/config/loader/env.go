package loader

import (
	"os"
	"strings"
)

// EnvLoader loads configuration from environment variables. Values are
// left as strings; the config package converts them per setting.
type EnvLoader struct {
	prefix  string            // e.g. "NAVSPY_"
	mapping map[string]string // env var -> config path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a loader with the default navspy mappings.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	m := map[string]string{
		"OFFSET":          "spy.offset",
		"DURATION":        "spy.duration",
		"EXACT":           "spy.exact",
		"ALWAYS_TRACK":    "spy.always_track",
		"CLICK_TO_SCROLL": "spy.click_to_scroll",
		"MODIFY_URL":      "spy.modify_url",
		"ACTIVE_CLASS":    "spy.active_class",
		"BEZIER":          "spy.bezier",
		"CONTAINER":       "spy.container",
		"LOG_LEVEL":       "log.level",
		"LOG_FILE":        "log.file",
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[prefix+k] = v
	}
	return out
}

// Load reads the environment. Mapped variables come first; any other
// prefixed variable is mapped by splitting its first word off as the
// section, so NAVSPY_VIEWER_SIDEBAR_WIDTH becomes viewer.sidebar_width.
// Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			SetByPath(config, path, val)
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		if path := l.envToPath(name); path != "" {
			SetByPath(config, path, value)
		}
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts NAVSPY_VIEWER_SIDEBAR_WIDTH to viewer.sidebar_width.
// Variables without a setting part yield "".
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// SetByPath sets a value in a nested map using a dot-separated path.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst; maps are merged recursively.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// Flatten returns the leaves of m keyed by dot-separated path.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flatten("", m, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(path, sub, out)
			continue
		}
		out[path] = v
	}
}
