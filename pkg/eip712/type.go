package eip712

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
)

// DomainTypeName is the name of the domain separator struct.
const DomainTypeName = "EIP712Domain"

// Type is a field type of an EIP-712 struct.
type Type interface {
	// TypeName returns the solidity style name used in type signatures, e.g. "uint256" or "Person[]".
	TypeName() string
	// EncodeValue returns the 32-byte encoding of value.
	EncodeValue(value any) ([]byte, error)
}

// Catalog resolves atomic type names such as "address" or "bytes32".
// Lookup reports false for names it does not know, which marks them as
// struct references.
type Catalog interface {
	Lookup(typeName string) (Type, bool)
}

var typeNameRegex = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)((?:\[[0-9]*\])*)$`)
var dimensionRegex = regexp.MustCompile(`\[([0-9]*)\]`)

// SplitTypeName splits a type name into its base identifier and its array
// dimensions, outermost last. A dynamic dimension is reported as 0.
//
//	SplitTypeName("Person[2][]") // "Person", [2 0]
func SplitTypeName(typeName string) (string, []int, error) {
	m := typeNameRegex.FindStringSubmatch(typeName)
	if m == nil {
		return "", nil, fmt.Errorf("%w: malformed type name %q", ErrTypeResolution, typeName)
	}

	var dims []int
	for _, dm := range dimensionRegex.FindAllStringSubmatch(m[2], -1) {
		length := 0
		if dm[1] != "" {
			n, err := strconv.Atoi(dm[1])
			if err != nil {
				return "", nil, fmt.Errorf("%w: bad array length in %q", ErrTypeResolution, typeName)
			}
			length = n
		}
		dims = append(dims, length)
	}
	return m[1], dims, nil
}

// WrapArrays wraps base into one Array per dimension, innermost first.
func WrapArrays(base Type, dims []int) (Type, error) {
	t := base
	for _, length := range dims {
		arr, err := NewArray(t, length)
		if err != nil {
			return nil, err
		}
		t = arr
	}
	return t, nil
}

// structOf returns the struct definition at the bottom of t, looking through arrays.
func structOf(t Type) *Definition {
	for {
		switch tt := t.(type) {
		case *Definition:
			return tt
		case *Array:
			t = tt.elem
		default:
			return nil
		}
	}
}

// asSlice returns the elements of any slice or array value.
func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []byte:
		// byte slices are scalar values, never arrays
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
