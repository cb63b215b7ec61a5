// Package envutil reads typed settings from the environment. Unset, blank or
// unparsable values fall back to the supplied default.
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func parsed[T any](name string, def T, parse func(string) (T, bool)) T {
	raw, ok := lookup(name)
	if !ok {
		return def
	}
	if v, ok := parse(raw); ok {
		return v
	}
	return def
}

func String(name, def string) string {
	if v, ok := lookup(name); ok {
		return v
	}
	return def
}

func Int(name string, def int) int {
	return parsed(name, def, func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
}

// Bool understands 1/0, true/false, yes/no and on/off.
func Bool(name string, def bool) bool {
	return parsed(name, def, func(s string) (bool, bool) {
		switch strings.ToLower(s) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
		return false, false
	})
}

// Duration takes "90s"/"2h" style values or a bare count of seconds. Non-positive
// values are ignored.
func Duration(name string, def time.Duration) time.Duration {
	return parsed(name, def, func(s string) (time.Duration, bool) {
		if d, err := time.ParseDuration(s); err == nil {
			return d, d > 0
		}
		secs, err := strconv.Atoi(s)
		return time.Duration(secs) * time.Second, err == nil && secs > 0
	})
}

// List splits a comma separated value and drops empty entries.
func List(name string) []string {
	raw, ok := lookup(name)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
