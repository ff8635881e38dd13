package schema

import (
	"github.com/artpar/modelkit/core/field"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Descriptor is the composed, read-only field set of one model type.
type Descriptor struct {
	name    string
	parent  *Descriptor
	fields  *linkedhashmap.Map // name -> field.Capability, declaration order
	options Options
}

// Name returns the model type name the descriptor was composed for.
func (d *Descriptor) Name() string { return d.name }

// Parent returns the descriptor this one was composed over, or nil.
func (d *Descriptor) Parent() *Descriptor { return d.parent }

// Len returns the number of fields.
func (d *Descriptor) Len() int { return d.fields.Size() }

// Options returns the resolved options block.
func (d *Descriptor) Options() Options { return d.options.Resolved() }

// Declared returns the options block as declared, without defaults.
func (d *Descriptor) Declared() Options { return d.options.clone() }

// Fields returns the field names in order.
func (d *Descriptor) Fields() []string {
	names := make([]string, 0, d.fields.Size())
	for _, k := range d.fields.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// Field returns the capability declared under name.
func (d *Descriptor) Field(name string) (field.Capability, bool) {
	v, ok := d.fields.Get(name)
	if !ok {
		return nil, false
	}
	return v.(field.Capability), true
}

// Nested returns the nested field declared under name, if it is one.
func (d *Descriptor) Nested(name string) (*NestedField, bool) {
	f, ok := d.Field(name)
	if !ok {
		return nil, false
	}
	nf, ok := f.(*NestedField)
	return nf, ok
}

// Each calls fn for every field in order.
func (d *Descriptor) Each(fn func(name string, f field.Capability)) {
	it := d.fields.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(field.Capability))
	}
}

// Extends reports whether d is ancestor or descends from it.
func (d *Descriptor) Extends(ancestor *Descriptor) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}
