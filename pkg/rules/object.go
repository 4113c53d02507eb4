package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Object exposes fields by name.
type Object interface {
	// Lookup returns the value of field and whether it is present.
	Lookup(field string) (any, bool)
}

// Map is a decoded document. Lookup accepts dotted paths; a path segment
// on a list selects the element at that index.
type Map map[string]any

// Lookup resolves a dotted path such as "owner.email" or "items.0.name".
func (m Map) Lookup(field string) (any, bool) {
	if v, ok := m[field]; ok {
		return v, true
	}

	var cur any = map[string]any(m)
	for _, part := range strings.Split(field, ".") {
		switch node := cur.(type) {
		case Map:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the field rendered as text, or "" when it is unset.
func (m Map) String(field string) string {
	v, ok := m.Lookup(field)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// List returns the field as a list, or nil when it is not one.
func (m Map) List(field string) []any {
	v, _ := m.Lookup(field)
	list, _ := v.([]any)
	return list
}

// IsSet reports whether field is present and non-nil.
func IsSet(obj Object, field string) bool {
	v, ok := obj.Lookup(field)
	return ok && v != nil
}
