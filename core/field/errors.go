package field

import "fmt"

// SerializationError reports a value that could not be coerced by its field.
type SerializationError struct {
	// Field is the declared name, filled in by the schema when known.
	Field string
	Kind  Kind
	Value any
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("serialize %s field %q: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("serialize %s value %v: %v", e.Kind, e.Value, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
