/*
Package schema composes field declarations into descriptors and runs whole
records through them.

# Composition

Every model type owns exactly one Descriptor, built once by Compose from the
type's own declarations overlaid on its parent's descriptor:

	person := schema.Compose("Person", nil, []schema.Declaration{
		{Name: "name", Field: field.String(field.Required())},
		{Name: "age", Field: field.Integer(field.Required())},
	}, nil)

	parent := schema.Compose("Parent", person, []schema.Declaration{
		{Name: "num_children", Field: field.Integer(field.Required())},
	}, nil)

	parent.Fields() // [name age num_children]

Ancestor fields come first. A re-declared name keeps its ancestor position
and takes the new field whole; there is no field-level merge. A declared
Options block replaces the parent's block whole; a nil block inherits it.

# Options

	strict              (default true)  Load/Dump/Validate return a *ValidationError
	                                    (or joined *field.SerializationError) on failure
	strict_constructor  (default false) used by model construction

# Binding

New binds a descriptor to a strictness flag. A strict schema reports failures
as errors; a lenient one only returns the ErrorMap.

	s := schema.New(person, true)
	data, errs, err := s.Load(map[string]any{"name": "Tester"})
	plain, errs, err := s.Dump(data)
	text, errs, err := s.DumpText(data, "json")
	errs, err = s.Validate(plain)

# Nested records

NewNested wraps a descriptor as a field of kind "model". Nested load errors
are reported under dotted keys such as "child.name".
*/
package schema
