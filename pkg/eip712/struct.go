package eip712

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var _ Type = (*Definition)(nil)

// Member is a named field of a struct definition.
type Member struct {
	Name string
	Type Type
}

// Definition is a named EIP-712 struct type. Members keep their declaration
// order, which fixes both the type signature and the data encoding.
//
// A Definition is immutable once built and can be shared between goroutines.
type Definition struct {
	name    string
	members []Member
	index   map[string]int

	mu       sync.Mutex
	typeHash *common.Hash
}

// Define creates a struct definition from an ordered member list.
func Define(name string, members ...Member) (*Definition, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: struct name is empty", ErrConfiguration)
	}

	d := newDefinition(name)
	for _, m := range members {
		if m.Type == nil {
			return nil, fmt.Errorf("%w: member %s.%s has no type", ErrConfiguration, name, m.Name)
		}
		if err := d.addMember(m.Name, m.Type); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefine is like Define but panics on error. It is intended for
// package level type declarations.
func MustDefine(name string, members ...Member) *Definition {
	d, err := Define(name, members...)
	if err != nil {
		panic(err)
	}
	return d
}

func newDefinition(name string) *Definition {
	return &Definition{
		name:  name,
		index: make(map[string]int),
	}
}

func (d *Definition) addMember(name string, t Type) error {
	if name == "" {
		return fmt.Errorf("%w: member of %s has an empty name", ErrConfiguration, d.name)
	}
	if _, ok := d.index[name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateMember, d.name, name)
	}
	d.index[name] = len(d.members)
	d.members = append(d.members, Member{Name: name, Type: t})
	return nil
}

// setMemberType is only used by the registry while resolving references.
func (d *Definition) setMemberType(name string, t Type) {
	d.members[d.index[name]].Type = t

	d.mu.Lock()
	d.typeHash = nil
	d.mu.Unlock()
}

// TypeName returns the struct name.
func (d *Definition) TypeName() string { return d.name }

// Members returns a copy of the ordered member list.
func (d *Definition) Members() []Member {
	out := make([]Member, len(d.members))
	copy(out, d.members)
	return out
}

// Member returns the member with the given name.
func (d *Definition) Member(name string) (Member, bool) {
	i, ok := d.index[name]
	if !ok {
		return Member{}, false
	}
	return d.members[i], true
}

// Instance holds the field values of one struct.
// Instances are not safe for concurrent mutation.
type Instance struct {
	def    *Definition
	values map[string]any
}

// New creates an instance from field values keyed by member name.
// Absent members are nil. A map given for a struct typed member, or a slice
// of maps given for an array of structs, is instantiated as the declared
// member type. Names that are not members are ignored.
func (d *Definition) New(values map[string]any) (*Instance, error) {
	inst := &Instance{
		def:    d,
		values: make(map[string]any, len(d.members)),
	}
	for _, m := range d.members {
		v, err := instantiate(m.Type, values[m.Name])
		if err != nil {
			return nil, fmt.Errorf("member %s.%s: %w", d.name, m.Name, err)
		}
		inst.values[m.Name] = v
	}
	return inst, nil
}

func instantiate(t Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch tt := t.(type) {
	case *Definition:
		switch v := value.(type) {
		case map[string]any:
			return tt.New(v)
		case *Instance:
			if v.def.name != tt.name {
				return nil, fmt.Errorf("%w: expected %s instance, got %s", ErrInvalidValue, tt.name, v.def.name)
			}
			return v, nil
		}
	case *Array:
		if structOf(tt) == nil {
			return value, nil
		}
		items, ok := asSlice(value)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := instantiate(tt.elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	return value, nil
}

// Definition returns the struct definition of the instance.
func (i *Instance) Definition() *Definition { return i.def }

// Get returns the value of a member, nil if it is unset or not declared.
func (i *Instance) Get(name string) any {
	return i.values[name]
}

// Set assigns the value of a member. Setting an undeclared member is a no-op.
func (i *Instance) Set(name string, value any) {
	if _, ok := i.def.index[name]; ok {
		i.values[name] = value
	}
}

// PlainData converts the instance into nested maps and slices of scalar
// values, the shape used for the "domain" and "message" wire entries.
func (i *Instance) PlainData() map[string]any {
	out := make(map[string]any, len(i.def.members))
	for _, m := range i.def.members {
		out[m.Name] = plainValue(i.values[m.Name])
	}
	return out
}

func plainValue(value any) any {
	switch v := value.(type) {
	case *Instance:
		return v.PlainData()
	case []*Instance:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item.PlainData()
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	}
	return value
}
