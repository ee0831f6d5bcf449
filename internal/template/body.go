package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/availability/internal/grid"
)

// MarshalTemplates renders templates as the JSON array the backend accepts
// for both create and delete requests.
func MarshalTemplates(templates []Wire) ([]byte, error) {
	if templates == nil {
		templates = []Wire{}
	}
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling templates: %w", err)
	}
	return data, nil
}

// UnmarshalTemplates parses a JSON array of templates.
func UnmarshalTemplates(data []byte) ([]Wire, error) {
	var out []Wire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return out, nil
}

// ReadFile loads templates from a JSON or YAML file, picked by extension.
// YAML files hold the same list under the same keys.
func ReadFile(path string) ([]Wire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var out []Wire
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return out, nil
	default:
		out, err := UnmarshalTemplates(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	}
}

// Encode renders templates as "json" or "yaml". JSON output ends with a
// newline; an empty list encodes as an empty array in both formats.
func Encode(format string, templates []Wire) ([]byte, error) {
	if templates == nil {
		templates = []Wire{}
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(templates)
		if err != nil {
			return nil, fmt.Errorf("encoding templates: %w", err)
		}
		return data, nil
	case "", "json":
		data, err := MarshalTemplates(templates)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, grid.Invalid("format", format, "must be json or yaml")
	}
}

// WriteFile stores templates as JSON or YAML, picked by extension.
func WriteFile(path string, templates []Wire) error {
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	data, err := Encode(format, templates)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing templates: %w", err)
	}
	return nil
}
