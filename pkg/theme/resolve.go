package theme

import "strings"

// Overrides is the flat key/value map of admin color overrides. Preset
// payloads live in the same map under keys prefixed with PresetKeyPrefix.
type Overrides map[string]string

// Lookup returns the first value among keys that is present in overrides
// and non-blank after trimming.
func Lookup(overrides Overrides, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := overrides[k]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// Resolve is Lookup with a fallback. An empty fallback means black.
func Resolve(overrides Overrides, keys []string, fallback string) string {
	if v, ok := Lookup(overrides, keys); ok {
		return v
	}
	if fallback == "" {
		return Black.Hex()
	}
	return fallback
}
