// Package access reads values out of nested research records by dotted path.
// Lookups never fail: a missing key, a non-mapping intermediate value, or an
// empty container all resolve to the caller's default.
package access

import (
	"strconv"
	"strings"

	"github.com/sells-group/agent-research/internal/model"
)

// Lookup walks path ("a.b.c") through nested mappings. It reports false when
// any step is not a mapping, a key is missing, or the final value is nil or an
// empty mapping or list. Empty containers count as absent.
func Lookup(data any, path string) (any, bool) {
	cur := data
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	if isEmpty(cur) {
		return nil, false
	}
	return cur, true
}

// Get returns the value at path if present and of type T, otherwise def.
func Get[T any](data any, path string, def T) T {
	v, ok := Lookup(data, path)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

// List returns the non-empty list at path, otherwise def. A nil def yields an
// empty, non-nil list.
func List(data any, path string, def []any) []any {
	if def == nil {
		def = []any{}
	}
	v, ok := Lookup(data, path)
	if !ok {
		return def
	}
	switch l := v.(type) {
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	return def
}

// Text renders the scalar at path as a string, otherwise def. Agents often
// return years and counts as JSON numbers, so numbers and booleans are
// formatted rather than rejected.
func Text(data any, path string, def string) string {
	v, ok := Lookup(data, path)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return def
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case model.Record:
		return m, true
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case model.Record:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	}
	return false
}
