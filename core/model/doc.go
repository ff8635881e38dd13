/*
Package model turns schema descriptors into record types with coercing
field accessors.

	person := model.Define("Person",
		model.Field("name", field.String(field.Required())),
		model.Field("age", field.Integer(field.Required())),
	)
	parent := person.Extend("Parent",
		model.Field("num_children", field.Integer(field.Required())),
		model.Nested("child", person),
	)

	p, err := parent.New(map[string]any{
		"name": "Tester", "age": 40, "num_children": 1,
		"child": map[string]any{"name": "Child1", "age": 10},
	}, nil)

Writes coerce through the field (Set("age", "41") stores 41). A read of a
field with no stored value resolves the field default once and caches it;
with no default the read returns *FieldNotFoundError. Delete drops the
stored value so the next read resolves the default again.

The missing value of a field fills absent input at construction. The
default fills absent values at read and dump time. The two are
independent.
*/
package model
