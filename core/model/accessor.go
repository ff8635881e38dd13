package model

import (
	"errors"

	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/schema"
)

// Accessor mediates reads, writes and deletes of one declared field.
type Accessor interface {
	Name() string
	Get(inst *Instance) (any, error)
	Set(inst *Instance, value any) error
	Delete(inst *Instance) error
}

// scalarAccessor coerces on write and resolves the default on a read miss.
type scalarAccessor struct {
	name  string
	field field.Capability
}

func (a *scalarAccessor) Name() string { return a.name }

func (a *scalarAccessor) Get(inst *Instance) (any, error) {
	if v, ok := inst.data[a.name]; ok {
		return v, nil
	}

	v, err := a.field.Serialize(field.Missing)
	if err != nil {
		return nil, a.fieldErr(inst, err)
	}
	if field.IsMissing(v) {
		return nil, &FieldNotFoundError{Type: inst.typ.name, Field: a.name}
	}

	inst.data[a.name] = v
	inst.typ.notify(func(o Observer) { o.DefaultResolved(inst.typ, a.name) })
	return v, nil
}

func (a *scalarAccessor) Set(inst *Instance, value any) error {
	v, err := a.field.Serialize(value)
	if err != nil {
		return a.fieldErr(inst, err)
	}
	if field.IsMissing(v) {
		delete(inst.data, a.name)
		return nil
	}
	inst.data[a.name] = v
	return nil
}

func (a *scalarAccessor) Delete(inst *Instance) error {
	delete(inst.data, a.name)
	return nil
}

func (a *scalarAccessor) fieldErr(inst *Instance, err error) error {
	var serr *field.SerializationError
	if errors.As(err, &serr) && serr.Field == "" {
		serr.Field = a.name
	}
	return err
}

// nestedAccessor stores instances of a nested model type. It has no default
// fallback.
type nestedAccessor struct {
	name string
	typ  *Type
}

func (a *nestedAccessor) Name() string { return a.name }

func (a *nestedAccessor) Get(inst *Instance) (any, error) {
	v, ok := inst.data[a.name]
	if !ok {
		return nil, &FieldNotFoundError{Type: inst.typ.name, Field: a.name}
	}
	return v, nil
}

// Set stores an *Instance of the nested type (or a subtype) by reference,
// and promotes a mapping through the nested type's constructor.
func (a *nestedAccessor) Set(inst *Instance, value any) error {
	switch v := value.(type) {
	case nil:
		inst.data[a.name] = nil
		return nil
	case *Instance:
		if v == nil || !v.typ.IsA(a.typ) {
			return &FieldTypeError{Type: inst.typ.name, Field: a.name, Want: a.typ.name, Value: value}
		}
		inst.data[a.name] = v
		return nil
	}

	mapping, ok := schema.AsMapping(value)
	if !ok {
		return &FieldTypeError{Type: inst.typ.name, Field: a.name, Want: a.typ.name, Value: value}
	}
	child, err := a.typ.New(mapping, nil)
	if err != nil {
		return err
	}
	inst.data[a.name] = child
	return nil
}

func (a *nestedAccessor) Delete(inst *Instance) error {
	delete(inst.data, a.name)
	return nil
}
