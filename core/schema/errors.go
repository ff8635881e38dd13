package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrorMap maps a field name to its error messages. Nested fields use
// dotted names.
type ErrorMap map[string][]string

// Add appends messages for a field.
func (m ErrorMap) Add(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	m[field] = append(m[field], msgs...)
}

// Merge copies other into m with every key placed under prefix.
func (m ErrorMap) Merge(prefix string, other ErrorMap) {
	for key, msgs := range other {
		switch {
		case prefix == "":
			m.Add(key, msgs...)
		case key == "":
			m.Add(prefix, msgs...)
		default:
			m.Add(prefix+"."+key, msgs...)
		}
	}
}

// Fields returns the field names with errors, sorted.
func (m ErrorMap) Fields() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether field has at least one message.
func (m ErrorMap) Has(field string) bool {
	return len(m[field]) > 0
}

func (m ErrorMap) String() string {
	parts := make([]string, 0, len(m))
	for _, name := range m.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(m[name], " ")))
	}
	return strings.Join(parts, "; ")
}

// ValidationError carries every field error found in one pass.
type ValidationError struct {
	Schema string
	Errors ErrorMap
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Schema, e.Errors)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
