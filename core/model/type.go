package model

import (
	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/schema"
)

// Type is a model type: a composed schema descriptor plus one bound
// accessor per declared field. A Type is immutable once defined and safe
// for concurrent use.
type Type struct {
	name      string
	parent    *Type
	desc      *schema.Descriptor
	nested    map[string]*Type
	accessors map[string]Accessor
	observer  Observer
}

// Decl is one declaration passed to Define or Extend.
type Decl func(*builder)

type builder struct {
	decls    []schema.Declaration
	nested   map[string]*Type
	scalars  map[string]bool
	options  *schema.Options
	observer Observer
}

// Field declares a scalar field.
func Field(name string, f field.Capability) Decl {
	return func(b *builder) {
		b.decls = append(b.decls, schema.Declaration{Name: name, Field: f})
		b.scalars[name] = true
		delete(b.nested, name)
	}
}

// Nested declares a field holding an instance of t.
func Nested(name string, t *Type) Decl {
	return nested(name, t, false)
}

// RequiredNested declares a nested field that must be present on load.
func RequiredNested(name string, t *Type) Decl {
	return nested(name, t, true)
}

func nested(name string, t *Type, required bool) Decl {
	return func(b *builder) {
		b.decls = append(b.decls, schema.Declaration{Name: name, Field: schema.NewNested(t.desc, required)})
		b.nested[name] = t
		delete(b.scalars, name)
	}
}

// Meta declares the options block. It replaces the parent's block whole.
func Meta(opts schema.Options) Decl {
	return func(b *builder) {
		b.options = &opts
	}
}

// Observe sets the type's observer. Without it a type inherits its
// parent's observer.
func Observe(o Observer) Decl {
	return func(b *builder) {
		b.observer = o
	}
}

// Define composes a root model type.
func Define(name string, decls ...Decl) *Type {
	return define(name, nil, decls)
}

// Extend composes a subtype of t. Fields of t come first; re-declared names
// take the new declaration.
func (t *Type) Extend(name string, decls ...Decl) *Type {
	return define(name, t, decls)
}

func define(name string, parent *Type, decls []Decl) *Type {
	b := &builder{
		nested:  make(map[string]*Type),
		scalars: make(map[string]bool),
	}
	for _, decl := range decls {
		decl(b)
	}

	var parentDesc *schema.Descriptor
	nestedTypes := make(map[string]*Type)
	if parent != nil {
		parentDesc = parent.desc
		for n, nt := range parent.nested {
			if !b.scalars[n] {
				nestedTypes[n] = nt
			}
		}
		if b.observer == nil {
			b.observer = parent.observer
		}
	}
	for n, nt := range b.nested {
		nestedTypes[n] = nt
	}

	t := &Type{
		name:      name,
		parent:    parent,
		desc:      schema.Compose(name, parentDesc, b.decls, b.options),
		nested:    nestedTypes,
		accessors: make(map[string]Accessor),
		observer:  b.observer,
	}
	t.desc.Each(func(n string, f field.Capability) {
		if nt, ok := nestedTypes[n]; ok {
			t.accessors[n] = &nestedAccessor{name: n, typ: nt}
			return
		}
		t.accessors[n] = &scalarAccessor{name: n, field: f}
	})

	if t.observer != nil {
		t.observer.TypeDefined(t)
	}
	return t
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Parent returns the type t extends, or nil.
func (t *Type) Parent() *Type { return t.parent }

// Descriptor returns the composed schema descriptor.
func (t *Type) Descriptor() *schema.Descriptor { return t.desc }

// Options returns the resolved options block.
func (t *Type) Options() schema.Options { return t.desc.Options() }

// Fields returns the declared field names in order.
func (t *Type) Fields() []string { return t.desc.Fields() }

// Field returns the capability declared under name.
func (t *Type) Field(name string) (field.Capability, error) {
	f, ok := t.desc.Field(name)
	if !ok {
		return nil, &FieldNotFoundError{Type: t.name, Field: name}
	}
	return f, nil
}

// NestedType returns the model type of a nested field.
func (t *Type) NestedType(name string) (*Type, bool) {
	nt, ok := t.nested[name]
	return nt, ok
}

// Accessor returns the accessor bound to a declared field.
func (t *Type) Accessor(name string) (Accessor, bool) {
	a, ok := t.accessors[name]
	return a, ok
}

// IsA reports whether t is other or extends it.
func (t *Type) IsA(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *Type) String() string { return t.name }

func (t *Type) notify(fn func(Observer)) {
	if t.observer != nil {
		fn(t.observer)
	}
}
