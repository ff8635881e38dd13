package definition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artpar/modelkit/core/model"
	"github.com/artpar/modelkit/core/registry"
)

// Build defines every definition into reg, parents and nested targets
// first. References may name definitions in defs or types already in reg.
// Unknown references and cycles are errors; on error nothing after the
// failing definition is registered.
func Build(reg *registry.Registry, defs []Definition, opts ...BuildOption) ([]*model.Type, error) {
	o := newBuildOptions(opts)

	order, err := Order(defs, func(name string) bool {
		_, ok := reg.Get(name)
		return ok
	})
	if err != nil {
		return nil, err
	}

	types := make([]*model.Type, 0, len(order))
	for _, def := range order {
		t, err := define(reg, def, o.factories)
		if err != nil {
			return types, fmt.Errorf("build model %q: %w", def.Model, err)
		}
		types = append(types, t)
	}
	return types, nil
}

// Order sorts defs so every definition follows the definitions it
// references. known reports names resolvable outside defs. Ties keep name
// order.
func Order(defs []Definition, known func(string) bool) ([]Definition, error) {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if prev, dup := byName[def.Model]; dup {
			return nil, fmt.Errorf("model %q defined twice (%s, %s)", def.Model, sourceOf(prev), sourceOf(def))
		}
		byName[def.Model] = def
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	order := make([]Definition, 0, len(names))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("reference cycle: %s", strings.Join(append(path, name), " -> "))
		}

		state[name] = visiting
		def := byName[name]
		for _, ref := range def.References() {
			if _, local := byName[ref]; local {
				if err := visit(ref, append(path, name)); err != nil {
					return err
				}
				continue
			}
			if known == nil || !known(ref) {
				return fmt.Errorf("model %q references unknown model %q", name, ref)
			}
		}
		state[name] = done
		order = append(order, def)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func define(reg *registry.Registry, def Definition, fs Factories) (*model.Type, error) {
	decls := make([]model.Decl, 0, len(def.Fields)+1)
	if def.Meta != nil {
		decls = append(decls, model.Meta(*def.Meta))
	}

	for _, fd := range def.Fields {
		if fd.IsNested() {
			target, ok := reg.Get(fd.To)
			if !ok {
				return nil, fmt.Errorf("field %q: model %q not registered", fd.Name, fd.To)
			}
			if fd.Required {
				decls = append(decls, model.RequiredNested(fd.Name, target))
			} else {
				decls = append(decls, model.Nested(fd.Name, target))
			}
			continue
		}

		f, err := fd.capability(fs)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		decls = append(decls, model.Field(fd.Name, f))
	}

	if def.Extends != "" {
		return reg.Extend(def.Extends, def.Model, decls...)
	}
	return reg.Define(def.Model, decls...)
}

func sourceOf(def Definition) string {
	if def.Source == "" {
		return "<inline>"
	}
	return def.Source
}

// LoadDir parses dir and builds every definition into reg.
func LoadDir(reg *registry.Registry, dir string, opts ...BuildOption) ([]*model.Type, error) {
	defs, err := ParseDir(dir)
	if err != nil {
		return nil, err
	}
	return Build(reg, defs, opts...)
}
