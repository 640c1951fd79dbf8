package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidationError reports a request field that is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: %s: %s", e.Field, e.Message)
}

// Validate checks that r has the shape the evaluator expects: every field
// present, position an object of numbers and data an object. Empty strings
// are valid values. Duplicate node IDs are allowed; they collapse into one vertex.
func (r *Request) Validate() error {
	if r.Nodes == nil {
		return &ValidationError{Field: "nodes", Message: "field required"}
	}
	if r.Edges == nil {
		return &ValidationError{Field: "edges", Message: "field required"}
	}

	for i, n := range r.Nodes {
		if len(n.missing) > 0 {
			return &ValidationError{Field: fmt.Sprintf("nodes[%d].%s", i, n.missing[0]), Message: "field required"}
		}
		if err := validatePosition(n.Position); err != nil {
			return &ValidationError{Field: fmt.Sprintf("nodes[%d].position", i), Message: err.Error()}
		}
		if err := validateData(n.Data); err != nil {
			return &ValidationError{Field: fmt.Sprintf("nodes[%d].data", i), Message: err.Error()}
		}
	}

	for i, e := range r.Edges {
		if len(e.missing) > 0 {
			return &ValidationError{Field: fmt.Sprintf("edges[%d].%s", i, e.missing[0]), Message: "field required"}
		}
	}

	return nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func validatePosition(raw json.RawMessage) error {
	if isAbsent(raw) {
		return fmt.Errorf("field required")
	}
	var pos map[string]float64
	if err := json.Unmarshal(raw, &pos); err != nil {
		return fmt.Errorf("must be an object of numbers")
	}
	return nil
}

func validateData(raw json.RawMessage) error {
	if isAbsent(raw) {
		return fmt.Errorf("field required")
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("must be an object")
	}
	return nil
}
