/*
Package field defines the per-field capability consumed by schemas and models.

A capability knows how to coerce one value on write (Serialize), how to
deserialize and validate one raw input value (Deserialize), and carries the
static metadata a schema needs: whether the field is required, its default
(read-time fallback) and its missing value (load-time fallback).

# Missing

Missing is a sentinel that stands for "no value". It is distinct from nil,
from zero values and from empty strings, so a field whose default is 0 or ""
can be told apart from a field with no default at all:

	age := field.Integer(field.WithDefault(0))
	v, _ := age.Serialize(field.Missing) // 0

	name := field.String()
	v, _ = name.Serialize(field.Missing) // field.Missing

# Default vs missing

The default is used when a value is absent at read/serialize time. The
missing value is used when a key is absent from deserialized input. The two
are independent: a field may declare one, both or neither.

	count := field.Integer(field.WithDefault(1), field.WithMissing(0))

# Built-in kinds

	string, integer, float, boolean, decimal, uuid, datetime, email, url, raw

Use ByKind to construct a field from a kind name, e.g. when reading
declarative definitions.
*/
package field
