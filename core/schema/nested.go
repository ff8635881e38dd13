package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/artpar/modelkit/core/field"
)

// MsgInvalidNested is reported when nested input is not a mapping.
const MsgInvalidNested = "Invalid input type."

// Record is a value that can hand over its stored field data for dumping.
type Record interface {
	Data() map[string]any
}

// NestedField is the capability of a field whose value is another modeled
// record described by a Descriptor.
type NestedField struct {
	desc     *Descriptor
	required bool
}

// NewNested wraps desc as a field capability of kind "model".
func NewNested(desc *Descriptor, required bool) *NestedField {
	return &NestedField{desc: desc, required: required}
}

// Descriptor returns the descriptor of the nested record.
func (n *NestedField) Descriptor() *Descriptor { return n.desc }

func (n *NestedField) Kind() field.Kind { return field.KindNested }
func (n *NestedField) IsRequired() bool { return n.required }
func (n *NestedField) DefaultValue() any { return field.Missing }
func (n *NestedField) MissingValue() any { return field.Missing }
func (n *NestedField) String() string { return fmt.Sprintf("field.model(%s)", n.desc.Name()) }

// Serialize dumps a Record or mapping through the nested descriptor.
// Failures are joined *field.SerializationError values.
func (n *NestedField) Serialize(value any) (any, error) {
	out, errs := n.dump(value)
	if len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, err := range errs {
			joined[i] = err
		}
		return nil, errors.Join(joined...)
	}
	return out, nil
}

// Deserialize loads a mapping through the nested descriptor. Nested errors
// are flattened into "name: message" strings; Schema.Load reports them under
// dotted keys instead.
func (n *NestedField) Deserialize(raw any) (any, []string) {
	value, errs := n.load(raw)
	if len(errs) == 0 {
		return value, nil
	}

	var msgs []string
	for _, key := range errs.Fields() {
		for _, msg := range errs[key] {
			if key == "" {
				msgs = append(msgs, msg)
			} else {
				msgs = append(msgs, key+": "+msg)
			}
		}
	}
	return field.Missing, msgs
}

// load returns the loaded mapping, or Missing with errors keyed relative to
// the nested record. Top-level problems use the empty key.
func (n *NestedField) load(raw any) (any, ErrorMap) {
	errs := ErrorMap{}
	switch {
	case field.IsMissing(raw):
		if n.required {
			errs.Add("", field.MsgRequired)
		}
		return field.Missing, errs
	case raw == nil:
		errs.Add("", field.MsgNull)
		return field.Missing, errs
	}

	if rec, ok := raw.(Record); ok {
		plain, serrs := n.dump(rec)
		if len(serrs) > 0 {
			errs.Add("", MsgInvalidNested)
			return field.Missing, errs
		}
		raw = plain
	}

	mapping, ok := AsMapping(raw)
	if !ok {
		errs.Add("", MsgInvalidNested)
		return field.Missing, errs
	}

	data, nested, _ := New(n.desc, false).Load(mapping)
	if len(nested) > 0 {
		return field.Missing, nested
	}
	return data, errs
}

// dump serializes value through the nested descriptor. Returned errors have
// Field set to the path relative to the nested record.
func (n *NestedField) dump(value any) (any, []*field.SerializationError) {
	switch {
	case field.IsMissing(value):
		return field.Missing, nil
	case value == nil:
		return nil, nil
	}

	var data map[string]any
	if rec, ok := value.(Record); ok {
		data = rec.Data()
	} else if mapping, ok := AsMapping(value); ok {
		data = mapping
	} else {
		return nil, []*field.SerializationError{{
			Kind:  field.KindNested,
			Value: value,
			Err:   fmt.Errorf("cannot dump %T as %s", value, n.desc.Name()),
		}}
	}

	return New(n.desc, false).dump(data)
}

// AsMapping reports whether v is a map with string keys and returns it as
// map[string]any. The result is a new map unless v already has that type.
func AsMapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, true
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
