package services

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ParseList normalizes a list-valued form field. It accepts a JSON array, or
// a string that itself holds a JSON array or a sep-separated list. Entries are
// trimmed and empty ones dropped; anything else yields an empty list.
func ParseList(raw json.RawMessage, sep string) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}
	}
	switch raw[0] {
	case '[':
		return decodeArray(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return []string{}
		}
		return ParseListString(s, sep)
	}
	return []string{}
}

// ParseListString applies the string rules of ParseList to an already decoded value.
func ParseListString(s, sep string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return decodeArray([]byte(s))
		}
	}
	return splitClean(strings.Split(s, sep))
}

func decodeArray(raw []byte) []string {
	var arr []interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return []string{}
	}
	parts := make([]string, 0, len(arr))
	for _, v := range arr {
		switch t := v.(type) {
		case string:
			parts = append(parts, t)
		case float64, bool:
			b, _ := json.Marshal(t)
			parts = append(parts, string(b))
		}
	}
	return splitClean(parts)
}

func splitClean(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
