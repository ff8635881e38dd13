package field

import "fmt"

// Kind identifies the coercion rules of a field.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBoolean  Kind = "boolean"
	KindDecimal  Kind = "decimal"
	KindUUID     Kind = "uuid"
	KindDateTime Kind = "datetime"
	KindEmail    Kind = "email"
	KindURL      Kind = "url"
	KindRaw      Kind = "raw"

	// KindNested marks a field whose value is another modeled record.
	// It is produced by the schema package, not by ByKind.
	KindNested Kind = "model"
)

// Messages reported by Deserialize for absent and null input.
const (
	MsgRequired = "Missing data for required field."
	MsgNull     = "Field may not be null."
)

type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing is the "no value" sentinel. Compare with IsMissing.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// Capability is the contract between a schema and one of its fields.
type Capability interface {
	// Kind returns the field kind.
	Kind() Kind

	// IsRequired reports whether absent input is an error on load.
	IsRequired() bool

	// DefaultValue returns the declared default or Missing.
	DefaultValue() any

	// MissingValue returns the declared missing value or Missing.
	MissingValue() any

	// Serialize coerces value for storage or output. Passing Missing
	// resolves the default; the result is Missing when there is none.
	Serialize(value any) (any, error)

	// Deserialize coerces and validates one raw input value. Passing
	// Missing means the key was absent from the input.
	Deserialize(raw any) (any, []string)
}

type coerceFunc func(any) (any, error)

// Field is the built-in Capability implementation.
type Field struct {
	kind       Kind
	required   bool
	allowNone  bool
	def        any
	missing    any
	validators []Validator

	// serialize and deserialize may differ: serialize is lenient about the
	// input type (it normalizes), deserialize is what input must satisfy.
	serialize   coerceFunc
	deserialize coerceFunc
	invalid     string
}

// Option configures a Field.
type Option func(*Field)

// Required makes absent input an error on load.
func Required() Option {
	return func(f *Field) { f.required = true }
}

// WithDefault sets the read-time fallback. A func() any is called on
// every resolution.
func WithDefault(v any) Option {
	return func(f *Field) { f.def = v }
}

// WithMissing sets the load-time fallback used when input omits the key.
// A func() any is called on every resolution.
func WithMissing(v any) Option {
	return func(f *Field) { f.missing = v }
}

// AllowNone accepts nil input on load.
func AllowNone() Option {
	return func(f *Field) { f.allowNone = true }
}

// WithValidators appends validators run after a successful load coercion.
func WithValidators(v ...Validator) Option {
	return func(f *Field) { f.validators = append(f.validators, v...) }
}

func newField(kind Kind, invalid string, serialize, deserialize coerceFunc, opts []Option) *Field {
	f := &Field{
		kind:        kind,
		def:         Missing,
		missing:     Missing,
		serialize:   serialize,
		deserialize: deserialize,
		invalid:     invalid,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) Kind() Kind { return f.kind }
func (f *Field) IsRequired() bool { return f.required }
func (f *Field) AllowsNone() bool { return f.allowNone }
func (f *Field) DefaultValue() any { return f.def }
func (f *Field) MissingValue() any { return f.missing }
func (f *Field) Validators() []Validator { return f.validators }
func (f *Field) String() string { return fmt.Sprintf("field.%s", f.kind) }
func (f *Field) HasDefault() bool { return !IsMissing(f.def) }
func (f *Field) HasMissing() bool { return !IsMissing(f.missing) }

// Serialize implements Capability.
func (f *Field) Serialize(value any) (any, error) {
	if IsMissing(value) {
		value = resolve(f.def)
		if IsMissing(value) {
			return Missing, nil
		}
	}
	if value == nil {
		return nil, nil
	}

	out, err := f.serialize(value)
	if err != nil {
		return nil, &SerializationError{Kind: f.kind, Value: value, Err: err}
	}
	return out, nil
}

// Deserialize implements Capability.
func (f *Field) Deserialize(raw any) (any, []string) {
	if IsMissing(raw) {
		if v := resolve(f.missing); !IsMissing(v) {
			return v, nil
		}
		if f.required {
			return Missing, []string{MsgRequired}
		}
		return Missing, nil
	}

	if raw == nil {
		if f.allowNone {
			return nil, nil
		}
		return Missing, []string{MsgNull}
	}

	value, err := f.deserialize(raw)
	if err != nil {
		return Missing, []string{f.invalid}
	}

	var msgs []string
	for _, v := range f.validators {
		if err := v.Validate(value); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return Missing, msgs
	}

	return value, nil
}

// resolve calls v if it is a value factory.
func resolve(v any) any {
	if fn, ok := v.(func() any); ok {
		return fn()
	}
	return v
}
