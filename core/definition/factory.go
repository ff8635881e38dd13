package definition

import (
	"fmt"
	"regexp"
)

// Factory produces a fresh value each time a field default or missing
// value is resolved.
type Factory func() any

// Factories maps names to value factories. A definition refers to one by
// writing "$name" as a default or missing value.
type Factories map[string]Factory

var factoryRef = regexp.MustCompile(`^\$([a-z][a-z0-9_]*)$`)

// FactoryRef returns the factory name when v is a "$name" reference.
func FactoryRef(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	m := factoryRef.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Names returns the factory names as written in definitions.
func (fs Factories) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, "$"+name)
	}
	return names
}

// resolve replaces a factory reference with its factory. Other values are
// returned unchanged.
func (fs Factories) resolve(v any) (any, error) {
	name, ok := FactoryRef(v)
	if !ok {
		return v, nil
	}
	fn, ok := fs[name]
	if !ok {
		return nil, fmt.Errorf("unknown value factory %q", v)
	}
	return (func() any)(fn), nil
}

// BuildOption configures Build, LoadDir and NewWatcher.
type BuildOption func(*buildOptions)

type buildOptions struct {
	factories Factories
}

// WithFactories makes factories available to "$name" references.
func WithFactories(fs Factories) BuildOption {
	return func(o *buildOptions) {
		if o.factories == nil {
			o.factories = make(Factories, len(fs))
		}
		for name, fn := range fs {
			o.factories[name] = fn
		}
	}
}

func newBuildOptions(opts []BuildOption) buildOptions {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
