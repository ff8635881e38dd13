package schema

import (
	"fmt"

	"github.com/creasty/defaults"
)

// Options is the schema-level options block of a model type.
// Nil pointers mean "not declared" and resolve to the tag defaults.
type Options struct {
	// Strict makes validation and dump failures errors instead of return values.
	Strict *bool `yaml:"strict,omitempty" json:"strict,omitempty" default:"true"`

	// StrictConstructor makes construction fail on invalid input.
	StrictConstructor *bool `yaml:"strict_constructor,omitempty" json:"strict_constructor,omitempty" default:"false"`
}

// Bool returns a pointer to b, for use in Options literals.
func Bool(b bool) *bool {
	return &b
}

// Resolved returns a copy of o with undeclared options set to their defaults.
func (o Options) Resolved() Options {
	r := o.clone()
	if err := defaults.Set(&r); err != nil {
		panic(fmt.Sprintf("schema: options defaults: %v", err))
	}
	return r
}

// IsStrict reports the effective strict option.
func (o Options) IsStrict() bool {
	return *o.Resolved().Strict
}

// IsStrictConstructor reports the effective strict_constructor option.
func (o Options) IsStrictConstructor() bool {
	return *o.Resolved().StrictConstructor
}

func (o Options) clone() Options {
	var c Options
	if o.Strict != nil {
		c.Strict = Bool(*o.Strict)
	}
	if o.StrictConstructor != nil {
		c.StrictConstructor = Bool(*o.StrictConstructor)
	}
	return c
}
