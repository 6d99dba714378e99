package loader

import "strings"

// DeepMerge copies src into dst and returns dst, allocating it when nil.
// Nested maps merge key by key; any other value in src replaces the one
// in dst. Maps from src are copied, never aliased.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		into, _ := dst[k].(map[string]any)
		dst[k] = DeepMerge(into, sub)
	}
	return dst
}

// GetByPath looks up a dotted key such as "fold.marker".
func GetByPath(data map[string]any, path string) (any, bool) {
	parent, leaf := split(path)
	m := data
	for _, part := range parent {
		next, ok := m[part].(map[string]any)
		if !ok {
			return nil, false
		}
		m = next
	}
	v, ok := m[leaf]
	return v, ok
}

// SetByPath stores value under a dotted key, creating the maps on the way.
func SetByPath(data map[string]any, path string, value any) {
	parent, leaf := split(path)
	m := data
	for _, part := range parent {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[leaf] = value
}

func split(path string) (parent []string, leaf string) {
	parts := strings.Split(path, ".")
	return parts[:len(parts)-1], parts[len(parts)-1]
}
