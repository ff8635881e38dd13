package model

import (
	"fmt"
	"time"
)

// Value reads a field or attribute and asserts its Go type.
func Value[T any](inst *Instance, name string) (T, error) {
	var zero T
	v, err := inst.Get(name)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &FieldTypeError{Type: inst.typ.name, Field: name, Want: fmt.Sprintf("%T", zero), Value: v}
	}
	return out, nil
}

// GetString reads a text field.
func (i *Instance) GetString(name string) (string, error) {
	return Value[string](i, name)
}

// GetInt reads an integer field.
func (i *Instance) GetInt(name string) (int, error) {
	return Value[int](i, name)
}

// GetFloat reads a float field. Integer values are widened.
func (i *Instance) GetFloat(name string) (float64, error) {
	v, err := i.Get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, &FieldTypeError{Type: i.typ.name, Field: name, Want: "float64", Value: v}
	}
}

// GetBool reads a boolean field.
func (i *Instance) GetBool(name string) (bool, error) {
	return Value[bool](i, name)
}

// GetTime reads a datetime field. Loaded values are time.Time; written
// values are stored in their RFC 3339 text form.
func (i *Instance) GetTime(name string) (time.Time, error) {
	v, err := i.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &FieldTypeError{Type: i.typ.name, Field: name, Want: "time.Time", Value: v}
}

// GetNested reads a nested model field.
func (i *Instance) GetNested(name string) (*Instance, error) {
	return Value[*Instance](i, name)
}
