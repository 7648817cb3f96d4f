package eip712

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps type names to struct definitions rebuilt from a wire type table.
type Registry struct {
	catalog Catalog
	defs    map[string]*Definition
}

type pendingMember struct {
	name    string
	rawType string
}

// NewRegistry returns an empty registry resolving atomic types with catalog.
func NewRegistry(catalog Catalog) *Registry {
	return &Registry{
		catalog: catalog,
		defs:    make(map[string]*Definition),
	}
}

// Build declares one definition per entry of types and resolves the member
// types in two passes: atomic types are attached while declaring, struct
// references (plain or as array elements) once every struct is declared.
// Members may reference structs registered by an earlier Build. Nothing is
// registered unless every type resolves.
func (r *Registry) Build(types WireTypes) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: registry has no atomic type catalog", ErrConfiguration)
	}

	names := make([]string, 0, len(types))
	for name := range types {
		if _, ok := r.defs[name]; ok {
			return fmt.Errorf("%w: type %s is already registered", ErrConfiguration, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make(map[string]*Definition, len(names))
	for _, name := range names {
		defs[name] = newDefinition(name)
	}

	pending := make(map[string][]pendingMember)
	for _, name := range names {
		def := defs[name]
		for _, m := range types[name] {
			t, ok := r.catalog.Lookup(m.Type)
			if !ok {
				t = nil
				pending[name] = append(pending[name], pendingMember{name: m.Name, rawType: m.Type})
			}
			if err := def.addMember(m.Name, t); err != nil {
				return err
			}
		}
	}

	for _, name := range names {
		def := defs[name]
		for _, p := range pending[name] {
			t, err := r.resolve(p.rawType, defs)
			if err != nil {
				return fmt.Errorf("member %s.%s: %w", name, p.name, err)
			}
			def.setMemberType(p.name, t)
		}
	}

	if err := checkRecursion(names, defs); err != nil {
		return err
	}

	for name, def := range defs {
		r.defs[name] = def
	}
	return nil
}

// resolve parses identifier("[" digits? "]")* where identifier names a
// struct of the current build, a registered struct or an atomic type.
func (r *Registry) resolve(rawType string, defs map[string]*Definition) (Type, error) {
	base, dims, err := SplitTypeName(rawType)
	if err != nil {
		return nil, err
	}

	var t Type
	if def, ok := defs[base]; ok {
		t = def
	} else if def, ok := r.defs[base]; ok {
		t = def
	} else if atomic, ok := r.catalog.Lookup(base); ok {
		t = atomic
	} else {
		return nil, fmt.Errorf("%w: unknown type %q", ErrTypeResolution, rawType)
	}
	return WrapArrays(t, dims)
}

// checkRecursion rejects structs that contain themselves through plain or
// fixed size array members. Only a dynamic array, which may be empty, ends
// a recursive type.
func checkRecursion(names []string, defs map[string]*Definition) error {
	const (
		visiting = iota + 1
		visited
	)
	state := make(map[*Definition]int, len(defs))

	var visit func(d *Definition, path []string) error
	visit = func(d *Definition, path []string) error {
		path = append(path, d.name)
		switch state[d] {
		case visiting:
			return fmt.Errorf("%w: recursive type %s has no finite value", ErrTypeResolution, strings.Join(path, " -> "))
		case visited:
			return nil
		}

		state[d] = visiting
		for _, m := range d.members {
			if ref := inlineStruct(m.Type); ref != nil {
				if err := visit(ref, path); err != nil {
					return err
				}
			}
		}
		state[d] = visited
		return nil
	}

	for _, name := range names {
		if err := visit(defs[name], nil); err != nil {
			return err
		}
	}
	return nil
}

// inlineStruct returns the struct every value of t contains, looking through
// fixed size arrays.
func inlineStruct(t Type) *Definition {
	for {
		switch tt := t.(type) {
		case *Definition:
			return tt
		case *Array:
			if tt.length == 0 {
				return nil
			}
			t = tt.elem
		default:
			return nil
		}
	}
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
