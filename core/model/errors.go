package model

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below with errors.Is.
var (
	ErrConstructorArgument = errors.New("invalid constructor argument")
	ErrFieldNotFound       = errors.New("field not found")
	ErrFieldType           = errors.New("field type mismatch")
)

// ConstructorArgumentError is returned by Type.New when the raw input is
// neither nil nor a mapping.
type ConstructorArgumentError struct {
	Type  string
	Value any
}

// Error returns the error message.
func (e *ConstructorArgumentError) Error() string {
	return fmt.Sprintf("%s constructor accepts a mapping or keyword arguments, got %T", e.Type, e.Value)
}

func (e *ConstructorArgumentError) Is(target error) bool {
	return target == ErrConstructorArgument
}

// FieldNotFoundError is returned when a read finds no stored value and no
// default, or names a field or attribute that does not exist.
type FieldNotFoundError struct {
	Type  string
	Field string
}

// Error returns the error message.
func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Type, e.Field)
}

func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// FieldTypeError is returned when a value does not have the Go type a
// field or typed helper expects.
type FieldTypeError struct {
	Type  string
	Field string
	Want  string
	Value any
}

// Error returns the error message.
func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s.%s: want %s, got %T", e.Type, e.Field, e.Want, e.Value)
}

func (e *FieldTypeError) Is(target error) bool {
	return target == ErrFieldType
}
