package jsonx

import json "github.com/goccy/go-json"

// ToDynamicJSON converts any Go value to a dynamic JSON object represented as
// a map[string]any. It marshals the input to JSON bytes and unmarshals those
// bytes into a map. If either step fails, an error is returned.
func ToDynamicJSON(val any) (map[string]any, error) {
	result := make(map[string]any)
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ObjectOrRaw decodes raw as a JSON object. Input that does not parse as an
// object degrades to a single-key wrapper holding the raw text, so callers
// never have to deal with a decode failure. Empty input yields an empty map.
func ObjectOrRaw(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	result := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return map[string]any{"raw": raw}
	}
	return result
}
