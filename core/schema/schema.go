package schema

import (
	"bytes"
	"errors"

	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/formatter"
)

// Schema is a Descriptor bound to a strictness flag.
type Schema struct {
	desc   *Descriptor
	strict bool
}

// New binds desc. A strict schema returns failures as errors in addition
// to the ErrorMap.
func New(desc *Descriptor, strict bool) *Schema {
	return &Schema{desc: desc, strict: strict}
}

// Descriptor returns the bound descriptor.
func (s *Schema) Descriptor() *Descriptor { return s.desc }

// Strict reports the bound strictness.
func (s *Schema) Strict() bool { return s.strict }

// Load deserializes every declared field from raw. Undeclared keys are
// ignored. Absent fields without a missing value are left out of data.
func (s *Schema) Load(raw map[string]any) (map[string]any, ErrorMap, error) {
	data := make(map[string]any, s.desc.Len())
	errs := ErrorMap{}

	s.desc.Each(func(name string, f field.Capability) {
		in, ok := raw[name]
		if !ok {
			in = field.Missing
		}

		var value any
		if nf, ok := f.(*NestedField); ok {
			var nested ErrorMap
			value, nested = nf.load(in)
			errs.Merge(name, nested)
		} else {
			var msgs []string
			value, msgs = f.Deserialize(in)
			errs.Add(name, msgs...)
		}

		if !field.IsMissing(value) {
			data[name] = value
		}
	})

	if s.strict && len(errs) > 0 {
		return data, errs, &ValidationError{Schema: s.desc.Name(), Errors: errs}
	}
	return data, errs, nil
}

// Dump serializes every declared field of data. Absent entries resolve the
// field default; fields that stay Missing are omitted. Dump does not
// validate.
func (s *Schema) Dump(data map[string]any) (map[string]any, ErrorMap, error) {
	plain, failures := s.dump(data)

	errs := ErrorMap{}
	for _, f := range failures {
		errs.Add(f.Field, f.Err.Error())
	}

	if s.strict && len(failures) > 0 {
		joined := make([]error, len(failures))
		for i, f := range failures {
			joined[i] = f
		}
		return plain, errs, errors.Join(joined...)
	}
	return plain, errs, nil
}

// DumpText dumps data and encodes the result with the named formatter.
// An empty format uses the default formatter. The result carries no
// trailing newline.
func (s *Schema) DumpText(data map[string]any, format string) ([]byte, ErrorMap, error) {
	plain, errs, err := s.Dump(data)
	if err != nil {
		return nil, errs, err
	}

	f := formatter.Default()
	if format != "" {
		if f, err = formatter.Lookup(format); err != nil {
			return nil, errs, err
		}
	}

	var buf bytes.Buffer
	opts := formatter.FormatOptions{Columns: s.desc.Fields(), Compact: true}
	if err := f.FormatRecord(&buf, plain, opts); err != nil {
		return nil, errs, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), errs, nil
}

// Validate runs the load checks over a plain mapping, such as the output
// of Dump.
func (s *Schema) Validate(plain map[string]any) (ErrorMap, error) {
	_, errs, _ := New(s.desc, false).Load(plain)
	if s.strict && len(errs) > 0 {
		return errs, &ValidationError{Schema: s.desc.Name(), Errors: errs}
	}
	return errs, nil
}

func (s *Schema) dump(data map[string]any) (map[string]any, []*field.SerializationError) {
	plain := make(map[string]any, s.desc.Len())
	var failures []*field.SerializationError

	s.desc.Each(func(name string, f field.Capability) {
		value, ok := data[name]
		if !ok {
			value = field.Missing
		}

		if nf, ok := f.(*NestedField); ok {
			out, nested := nf.dump(value)
			for _, serr := range nested {
				serr.Field = joinPath(name, serr.Field)
				failures = append(failures, serr)
			}
			if field.IsMissing(out) || out == nil && len(nested) > 0 {
				return
			}
			plain[name] = out
			return
		}

		out, err := f.Serialize(value)
		if err != nil {
			var serr *field.SerializationError
			if !errors.As(err, &serr) {
				serr = &field.SerializationError{Kind: f.Kind(), Value: value, Err: err}
			}
			serr.Field = joinPath(name, serr.Field)
			failures = append(failures, serr)
			return
		}
		if !field.IsMissing(out) {
			plain[name] = out
		}
	})

	return plain, failures
}

func joinPath(prefix, name string) string {
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}
