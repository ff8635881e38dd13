package schema

import (
	"github.com/artpar/modelkit/core/field"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Declaration is one field written on a model type.
type Declaration struct {
	Name  string
	Field field.Capability
}

// Compose builds the descriptor of a type from its parent's descriptor and
// its own declarations. Parent fields keep their order; a re-declared name
// keeps its position and takes the new field; new names are appended in
// declaration order. A nil opts inherits the parent's options block.
func Compose(name string, parent *Descriptor, decls []Declaration, opts *Options) *Descriptor {
	fields := linkedhashmap.New()

	var options Options
	if parent != nil {
		parent.Each(func(n string, f field.Capability) {
			fields.Put(n, f)
		})
		options = parent.options.clone()
	}

	for _, decl := range decls {
		fields.Put(decl.Name, decl.Field)
	}

	if opts != nil {
		options = opts.clone()
	}

	return &Descriptor{
		name:    name,
		parent:  parent,
		fields:  fields,
		options: options,
	}
}
