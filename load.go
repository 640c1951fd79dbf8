package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported pipeline file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadRequest reads a pipeline from a JSON or YAML file.
// The format is chosen from the file extension; anything other than
// .yaml or .yml is read as JSON.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", path, err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	return DecodeRequest(data, format)
}

// DecodeRequest parses a pipeline in the given format.
// YAML documents are re-encoded as JSON so that opaque position and data
// payloads end up in the same form as a JSON request.
func DecodeRequest(data []byte, format string) (*Request, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("pipeline: parse yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("pipeline: convert yaml: %w", err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("pipeline: unsupported format %q", format)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("pipeline: parse json: %w", err)
	}
	return &req, nil
}
