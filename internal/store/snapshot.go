// Package store - snapshot.go provides full-aggregate export and import.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed state.schema.json
var stateSchema string

// ImportError reports why a snapshot was rejected, with per-field detail
// when schema validation failed.
type ImportError struct {
	Message string
	Fields  []FieldError
	Cause   error
}

// FieldError is a single schema violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ImportError) Error() string {
	if len(e.Fields) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("import rejected: %s: %v", e.Message, e.Cause)
		}
		return fmt.Sprintf("import rejected: %s", e.Message)
	}
	var sb strings.Builder
	sb.WriteString("import rejected: ")
	sb.WriteString(e.Message)
	sb.WriteString(":\n")
	for i, fe := range e.Fields {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Export returns the current aggregate as indented JSON, suitable for
// backup and for re-import on another installation.
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDoc()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize state for export: %w", err)
	}
	return string(data), nil
}

// Import replaces the persisted aggregate with the given snapshot. The
// document must parse and must satisfy the state schema; a structurally
// invalid snapshot is rejected with field-level detail rather than
// silently accepted.
func (s *Store) Import(serialized string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(serialized), &doc); err != nil {
		return &ImportError{Message: "snapshot is not a JSON object", Cause: err}
	}

	if err := validateSnapshot(serialized); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to re-serialize snapshot: %w", err)
	}
	return s.write(data)
}

// validateSnapshot checks a snapshot document against the embedded state
// schema.
func validateSnapshot(serialized string) error {
	schemaLoader := gojsonschema.NewStringLoader(stateSchema)
	documentLoader := gojsonschema.NewStringLoader(serialized)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ImportError{Message: "schema validation could not run", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	importErr := &ImportError{
		Message: "snapshot does not match the state schema",
		Fields:  make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		importErr.Fields = append(importErr.Fields, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return importErr
}
