package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/artpar/modelkit/core/schema"
	"github.com/mohae/deepcopy"
)

// Instance is one record of a model type. It is not safe for concurrent
// mutation.
type Instance struct {
	typ    *Type
	data   map[string]any
	attrs  map[string]any
	schema *schema.Schema
}

// New constructs an instance from raw, or from kwargs when raw is nil or
// empty. raw must be nil or a map with string keys. Neither input is
// modified.
//
// Under the strict_constructor option any load error fails construction
// with a *schema.ValidationError. Otherwise invalid entries are dropped and
// reported by Validate.
func (t *Type) New(raw any, kwargs map[string]any) (*Instance, error) {
	var input map[string]any
	if raw != nil {
		m, ok := schema.AsMapping(raw)
		if !ok {
			err := &ConstructorArgumentError{Type: t.name, Value: raw}
			t.notify(func(o Observer) { o.Constructed(t, nil, err) })
			return nil, err
		}
		input = m
	}
	if len(input) == 0 {
		input = kwargs
	}
	input = maps.Clone(input)

	for k, v := range input {
		if nested, ok := v.(*Instance); ok && nested != nil {
			input[k] = nested.snapshot()
		}
	}

	loader := schema.New(t.desc, t.desc.Options().IsStrictConstructor())
	data, errs, err := loader.Load(input)
	if err != nil {
		t.notify(func(o Observer) { o.Constructed(t, errs, err) })
		return nil, err
	}

	inst := &Instance{
		typ:   t,
		data:  data,
		attrs: make(map[string]any),
	}

	for name, nt := range t.nested {
		mapping, ok := schema.AsMapping(input[name])
		if !ok {
			continue
		}
		child, err := nt.New(mapping, nil)
		if err != nil {
			err = fmt.Errorf("%s.%s: %w", t.name, name, err)
			t.notify(func(o Observer) { o.Constructed(t, errs, err) })
			return nil, err
		}
		inst.data[name] = child
	}

	inst.schema = schema.New(t.desc, t.desc.Options().IsStrict())
	t.notify(func(o Observer) { o.Constructed(t, errs, nil) })
	return inst, nil
}

// MustNew is like New but panics on error.
func (t *Type) MustNew(raw any, kwargs map[string]any) *Instance {
	inst, err := t.New(raw, kwargs)
	if err != nil {
		panic(err)
	}
	return inst
}

// Type returns the instance's model type.
func (i *Instance) Type() *Type { return i.typ }

// IsA reports whether the instance's type is t or extends it.
func (i *Instance) IsA(t *Type) bool { return i.typ.IsA(t) }

// Data returns a shallow copy of the field store.
func (i *Instance) Data() map[string]any {
	return maps.Clone(i.data)
}

// Accessor returns the accessor bound to a declared field.
func (i *Instance) Accessor(name string) (Accessor, bool) {
	return i.typ.Accessor(name)
}

// Get reads a field or plain attribute.
func (i *Instance) Get(name string) (any, error) {
	if a, ok := i.typ.accessors[name]; ok {
		return a.Get(i)
	}
	v, ok := i.attrs[name]
	if !ok {
		return nil, &FieldNotFoundError{Type: i.typ.name, Field: name}
	}
	return v, nil
}

// Set writes a field through its accessor. Undeclared names are stored as
// plain attributes without coercion.
func (i *Instance) Set(name string, value any) error {
	if a, ok := i.typ.accessors[name]; ok {
		return a.Set(i, value)
	}
	i.attrs[name] = value
	return nil
}

// Delete removes a field value so the next read resolves the default.
// Deleting an absent plain attribute is an error.
func (i *Instance) Delete(name string) error {
	if a, ok := i.typ.accessors[name]; ok {
		return a.Delete(i)
	}
	if _, ok := i.attrs[name]; !ok {
		return &FieldNotFoundError{Type: i.typ.name, Field: name}
	}
	delete(i.attrs, name)
	return nil
}

// Has reports whether a field or attribute currently holds a value,
// without resolving defaults.
func (i *Instance) Has(name string) bool {
	if _, ok := i.typ.accessors[name]; ok {
		_, ok = i.data[name]
		return ok
	}
	_, ok := i.attrs[name]
	return ok
}

// Validate dumps the store and runs the schema checks over the result.
// Dump failures are reported alongside the load checks. Under the strict
// option a non-empty result is also returned as a *schema.ValidationError.
func (i *Instance) Validate() (schema.ErrorMap, error) {
	plain, dumpErrs, err := i.Dump()
	if err != nil {
		i.typ.notify(func(o Observer) { o.Validated(i.typ, dumpErrs, err) })
		return dumpErrs, err
	}

	errs, err := i.schema.Validate(plain)
	errs.Merge("", dumpErrs)
	i.typ.notify(func(o Observer) { o.Validated(i.typ, errs, err) })
	return errs, err
}

// Dump serializes the store into a plain mapping. Defaults of absent fields
// are cached first, so repeated dumps and later reads agree. Dump does not
// validate.
func (i *Instance) Dump() (map[string]any, schema.ErrorMap, error) {
	i.resolveDefaults()
	return i.schema.Dump(i.data)
}

// DumpText dumps the store and encodes it with the named formatter.
func (i *Instance) DumpText(format string) ([]byte, schema.ErrorMap, error) {
	i.resolveDefaults()
	return i.schema.DumpText(i.data, format)
}

// DumpJSON dumps the store as compact JSON.
func (i *Instance) DumpJSON() ([]byte, schema.ErrorMap, error) {
	return i.DumpText("json")
}

// MarshalJSON implements json.Marshaler.
func (i *Instance) MarshalJSON() ([]byte, error) {
	plain, _, err := i.Dump()
	if err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}

// resolveDefaults reads every absent scalar field through its accessor,
// which caches the default, and recurses into nested instances.
func (i *Instance) resolveDefaults() {
	for _, name := range i.typ.desc.Fields() {
		if v, ok := i.data[name]; ok {
			if child, ok := v.(*Instance); ok && child != nil {
				child.resolveDefaults()
			}
			continue
		}
		if a, ok := i.typ.accessors[name].(*scalarAccessor); ok {
			// Failures resurface from the schema dump.
			_, _ = a.Get(i)
		}
	}
}

func (i *Instance) String() string {
	var parts []string
	for _, name := range i.typ.desc.Fields() {
		if v, ok := i.data[name]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", name, v))
		}
	}
	return fmt.Sprintf("%s{%s}", i.typ.name, strings.Join(parts, ", "))
}

// snapshot returns a recursive plain copy of the store. Nested instances
// become mappings; leaf values are deep-copied.
func (i *Instance) snapshot() map[string]any {
	out := make(map[string]any, len(i.data))
	for k, v := range i.data {
		if nested, ok := v.(*Instance); ok && nested != nil {
			out[k] = nested.snapshot()
			continue
		}
		out[k] = copyLeaf(v)
	}
	return out
}

// copyLeaf deep-copies containers. Other values are returned as is, since
// deepcopy drops unexported struct fields.
func copyLeaf(v any) any {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return deepcopy.Copy(v)
	default:
		return v
	}
}
