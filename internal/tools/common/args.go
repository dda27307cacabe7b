package common

import (
	"fmt"
	"strings"
	"time"
)

// StringArg extracts an optional string argument. Missing or non-string
// values yield the empty string.
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// BoolArg extracts an optional boolean argument, returning def when the
// argument is missing or not a boolean.
func BoolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// IntArg extracts an optional integer argument, returning def when the
// argument is missing. MCP clients send numbers as JSON floats, so both
// forms are accepted.
func IntArg(args map[string]interface{}, key string, def int) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return def, false
	}
}

// TimeArg extracts an optional RFC3339 timestamp argument. The second
// return value reports whether the argument was present; a present but
// unparsable value is an error.
func TimeArg(args map[string]interface{}, key string) (time.Time, bool, error) {
	raw := StringArg(args, key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("invalid %s: %q is not an RFC3339 timestamp", key, raw)
	}
	return t, true, nil
}

// ListArg extracts an optional comma-separated list argument. The second
// return value reports whether the argument was present; an empty string is
// present and yields an empty list.
func ListArg(args map[string]interface{}, key string) ([]string, bool) {
	raw, ok := args[key].(string)
	if !ok {
		return nil, false
	}
	if strings.TrimSpace(raw) == "" {
		return []string{}, true
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, true
}
