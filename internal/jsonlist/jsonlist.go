// Package jsonlist encodes string lists into the JSON text columns used by
// the catalog (symptoms, treatments, uses, side effects, contraindications).
// Reads are forgiving: null, empty or malformed stored text always comes back
// as an empty list, never an error.
package jsonlist

import (
	"encoding/json"
	"strings"
)

// Encode serializes items as a JSON array. A nil or empty slice encodes as "[]".
func Encode(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Decode parses a stored JSON array of strings. Anything unparsable, or any
// array containing non-string elements, normalizes to an empty list.
func Decode(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return []string{}
	}
	if items == nil {
		return []string{}
	}
	return items
}

// Parse accepts the two shapes importer datasets carry for list fields:
// a JSON array of strings, or a bare string. A bare non-JSON string becomes
// a single-item list; everything unparsable becomes an empty list.
func Parse(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}
	}
	if strings.HasPrefix(trimmed, "[") {
		return Decode(trimmed)
	}
	return []string{s}
}
