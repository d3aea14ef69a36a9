package migration

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Accessors for loosely typed stored JSON. None of them fail: a missing or
// mistyped value reads as absent.

func getMap(raw map[string]any, key string) (map[string]any, bool) {
	m, ok := raw[key].(map[string]any)
	return m, ok
}

func getList(raw map[string]any, key string) []any {
	list, _ := raw[key].([]any)
	return list
}

// getMaps returns the object entries of a list, skipping anything else
func getMaps(raw map[string]any, key string) []map[string]any {
	list := getList(raw, key)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// getString reads a string; numbers and booleans are formatted
func getString(raw map[string]any, key string) (string, bool) {
	switch v := raw[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// getText reads a non-blank string
func getText(raw map[string]any, key string) (string, bool) {
	s, ok := getString(raw, key)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func getInt(raw map[string]any, key string) int {
	n, _ := toInt(raw[key])
	return n
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(math.Round(f)), true
		}
	case float64:
		return int(math.Round(n)), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getBool(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func getStrings(raw map[string]any, key string) []string {
	list := getList(raw, key)
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case json.Number:
			out = append(out, v.String())
		}
	}
	return out
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// getTime reads an RFC 3339 string (or a date) or an epoch-millisecond number
func getTime(raw map[string]any, key string) (time.Time, bool) {
	switch v := raw[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	case json.Number, float64, int64, int:
		if ms, ok := toInt(v); ok {
			return time.UnixMilli(int64(ms)).UTC(), true
		}
	}
	return time.Time{}, false
}

// extras copies every field not named in known
func extras(raw map[string]any, known map[string]bool) map[string]any {
	var out map[string]any
	for k, v := range raw {
		if known[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
