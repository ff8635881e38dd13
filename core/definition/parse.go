package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artpar/modelkit/core/field"
	"gopkg.in/yaml.v3"
)

// ParseFile parses a model definition from a YAML file.
func ParseFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read file %s: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

// Parse parses a model definition from YAML bytes.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := Validate(def); err != nil {
		return Definition{}, fmt.Errorf("validate model %q: %w", def.Model, err)
	}

	return def, nil
}

// ParseDir parses all model definitions from a directory, including subdirectories.
func ParseDir(dir string) ([]Definition, error) {
	var defs []Definition

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			defs = append(defs, sub...)
			continue
		}

		if !IsDefinitionFile(entry.Name()) {
			continue
		}

		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// IsDefinitionFile reports whether name has a YAML extension.
func IsDefinitionFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// Validate validates a single definition. References to other definitions
// are checked by Build.
func Validate(def Definition) error {
	var errs []string

	if def.Model == "" {
		errs = append(errs, "model name is required")
	} else if !isValidIdentifier(def.Model) {
		errs = append(errs, fmt.Sprintf("model name %q is not a valid identifier", def.Model))
	}

	if def.Extends != "" && !isValidIdentifier(def.Extends) {
		errs = append(errs, fmt.Sprintf("extends %q is not a valid identifier", def.Extends))
	}

	if len(def.Fields) == 0 && def.Extends == "" {
		errs = append(errs, "fields must declare at least one field")
	}

	seen := make(map[string]bool, len(def.Fields))
	for _, fd := range def.Fields {
		if !isValidIdentifier(fd.Name) {
			errs = append(errs, fmt.Sprintf("field name %q is not a valid identifier", fd.Name))
		}
		if seen[fd.Name] {
			errs = append(errs, fmt.Sprintf("field %q declared twice", fd.Name))
		}
		seen[fd.Name] = true

		if err := validateField(fd); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateField validates a single field definition.
func validateField(fd FieldDef) error {
	if fd.IsNested() {
		if fd.To == "" {
			return fmt.Errorf("field %q: model type requires 'to' target", fd.Name)
		}
		if fd.Default != nil || fd.Missing != nil || len(fd.Constraints) > 0 {
			return fmt.Errorf("field %q: model fields take no default, missing or constraints", fd.Name)
		}
		return nil
	}

	if !field.IsKnownKind(fd.Type) {
		return fmt.Errorf("field %q: unknown type %q", fd.Name, fd.Type)
	}
	if fd.To != "" {
		return fmt.Errorf("field %q: 'to' is only valid for model fields", fd.Name)
	}

	for _, c := range fd.Constraints {
		if !field.IsKnownConstraint(c.Type) {
			return fmt.Errorf("field %q: unknown constraint %q", fd.Name, c.Type)
		}
	}

	f, err := field.ByKind(fd.Type, fd.constraints()...)
	if err != nil {
		return fmt.Errorf("field %q: %w", fd.Name, err)
	}

	// Default must serialize, missing must load. Factory references are
	// resolved at build time.
	if _, ref := FactoryRef(fd.Default); fd.Default != nil && !ref {
		if _, err := f.Serialize(fd.Default); err != nil {
			return fmt.Errorf("field %q: default %v is not a valid %s", fd.Name, fd.Default, fd.Type)
		}
	}
	if _, ref := FactoryRef(fd.Missing); fd.Missing != nil && !ref {
		if _, msgs := f.Deserialize(fd.Missing); len(msgs) > 0 {
			return fmt.Errorf("field %q: missing %v: %s", fd.Name, fd.Missing, strings.Join(msgs, " "))
		}
	}

	return nil
}

// isValidIdentifier checks if a string is a valid identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if i == 0 {
			if !isLetter(c) && c != '_' {
				return false
			}
		} else {
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
