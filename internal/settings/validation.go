package settings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/HerbHall/hostpanel/pkg/theme"
	"github.com/xeipuuv/gojsonschema"
)

// presetNamePattern restricts preset names to lowercase slugs so the stored
// key "presets:<name>" is stable and URL-safe.
var presetNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

const presetSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["modes"],
	"additionalProperties": false,
	"properties": {
		"modes": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"light": {"$ref": "#/definitions/tokens"},
				"dark":  {"$ref": "#/definitions/tokens"}
			}
		},
		"schedule": {
			"type": "object",
			"required": ["start"],
			"additionalProperties": false,
			"properties": {
				"start": {"type": "string", "minLength": 1},
				"end":   {"type": ["string", "null"]}
			}
		},
		"default": {"type": "boolean"}
	},
	"definitions": {
		"tokens": {
			"type": "object",
			"additionalProperties": {"type": "string", "minLength": 1}
		}
	}
}`

var presetSchema = mustSchema(presetSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile preset schema: %v", err))
	}
	return schema
}

// validatePreset checks raw against the preset schema, then decodes it and
// checks token keys, colors and the schedule window. The returned payload is
// safe to store.
func validatePreset(raw []byte) (theme.PresetPayload, error) {
	result, err := presetSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return theme.PresetPayload{}, fmt.Errorf("invalid preset JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return theme.PresetPayload{}, fmt.Errorf("invalid preset: %s", strings.Join(msgs, "; "))
	}

	p, err := theme.DecodePreset(string(raw))
	if err != nil {
		return theme.PresetPayload{}, err
	}

	for _, m := range theme.Modes {
		for key, value := range p.Modes.For(m) {
			if _, ok := theme.ParseToken(key); !ok {
				return theme.PresetPayload{}, fmt.Errorf("unknown token %q in %s mode", key, m)
			}
			if _, err := theme.Parse(value); err != nil {
				return theme.PresetPayload{}, fmt.Errorf("%s.%s: %w", m, key, err)
			}
		}
	}

	if s := p.Schedule; s != nil && s.End != nil && !s.End.After(s.Start.Time) {
		return theme.PresetPayload{}, fmt.Errorf("schedule end must be after start")
	}
	return p, nil
}

// validateColor checks one override entry. Preset keys are not color keys.
func validateColor(key, value string) error {
	if !theme.IsOverrideKey(key) {
		return fmt.Errorf("unknown color key %q", key)
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: empty value", key)
	}
	if _, err := theme.Parse(value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
