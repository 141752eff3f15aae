package tool

import "encoding/json"

// AsMap converts a struct into the loosely typed map shape the envelope
// carries, honoring json tags. Unmarshalable values yield an empty map.
func AsMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// AsMapSlice converts a slice of structs into a slice of maps.
func AsMapSlice[T any](items []T) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, AsMap(items[i]))
	}
	return out
}
