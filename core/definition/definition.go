// Package definition loads model types from YAML documents.
//
// One document declares one model:
//
//	model: parent
//	extends: person
//	meta: {strict: false}
//	fields:
//	  num_children: {type: integer, required: true, constraints: [{type: min, value: 0}]}
//	  child:        {type: model, to: person}
//
// Field order in the document is the declaration order of the type.
package definition

import (
	"fmt"

	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/schema"
	"gopkg.in/yaml.v3"
)

// Definition is one parsed model document.
type Definition struct {
	// Model is the type name.
	Model string `yaml:"model"`

	// Extends names the parent definition.
	Extends string `yaml:"extends,omitempty"`

	// Meta is the options block. Nil inherits the parent's block.
	Meta *schema.Options `yaml:"meta,omitempty"`

	// Fields in declaration order.
	Fields Fields `yaml:"fields"`

	// Source is the file the definition was read from, if any.
	Source string `yaml:"-"`
}

// FieldDef declares one field.
type FieldDef struct {
	// Name is taken from the mapping key.
	Name string `yaml:"-"`

	// Type is a field kind, or "model" for a nested model.
	Type field.Kind `yaml:"type"`

	Required  bool `yaml:"required,omitempty"`
	AllowNone bool `yaml:"allow_none,omitempty"`

	// Default is the read-time fallback. Nil means none.
	Default any `yaml:"default,omitempty"`

	// Missing is the load-time fallback. Nil means none.
	Missing any `yaml:"missing,omitempty"`

	Constraints []field.Constraint `yaml:"constraints,omitempty"`

	// To names the nested model for type "model".
	To string `yaml:"to,omitempty"`
}

// IsNested reports whether the field holds a nested model.
func (f FieldDef) IsNested() bool {
	return f.Type == field.KindNested
}

// Fields is an ordered field list decoded from a YAML mapping.
type Fields []FieldDef

// UnmarshalYAML implements yaml.Unmarshaler, keeping mapping order.
func (fs *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}

	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var fd FieldDef
		if err := value.Decode(&fd); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
		fd.Name = key.Value
		out = append(out, fd)
	}

	*fs = out
	return nil
}

// MarshalYAML implements yaml.Marshaler, writing fields as an ordered
// mapping.
func (fs Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, fd := range fs {
		value := &yaml.Node{}
		if err := value.Encode(fd); err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: fd.Name},
			value,
		)
	}
	return node, nil
}

// Names returns the field names in order.
func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, fd := range fs {
		names[i] = fd.Name
	}
	return names
}

// References returns the names of other definitions d depends on: the
// parent first, then nested targets in field order.
func (d Definition) References() []string {
	var refs []string
	if d.Extends != "" {
		refs = append(refs, d.Extends)
	}
	for _, fd := range d.Fields {
		if fd.IsNested() && fd.To != "" {
			refs = append(refs, fd.To)
		}
	}
	return refs
}

// options builds the field options for a scalar field. "$name" defaults
// and missing values resolve through fs.
func (f FieldDef) options(fs Factories) ([]field.Option, error) {
	var opts []field.Option
	if f.Required {
		opts = append(opts, field.Required())
	}
	if f.AllowNone {
		opts = append(opts, field.AllowNone())
	}
	if f.Default != nil {
		v, err := fs.resolve(f.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		opts = append(opts, field.WithDefault(v))
	}
	if f.Missing != nil {
		v, err := fs.resolve(f.Missing)
		if err != nil {
			return nil, fmt.Errorf("missing: %w", err)
		}
		opts = append(opts, field.WithMissing(v))
	}
	return append(opts, f.constraints()...), nil
}

func (f FieldDef) constraints() []field.Option {
	if len(f.Constraints) == 0 {
		return nil
	}
	validators := make([]field.Validator, len(f.Constraints))
	for i, c := range f.Constraints {
		validators[i] = c
	}
	return []field.Option{field.WithValidators(validators...)}
}

// capability builds the scalar field capability.
func (f FieldDef) capability(fs Factories) (*field.Field, error) {
	opts, err := f.options(fs)
	if err != nil {
		return nil, err
	}
	return field.ByKind(f.Type, opts...)
}
