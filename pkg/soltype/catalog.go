package soltype

import (
	"regexp"
	"strconv"

	"github.com/erc7824/eip712structs/pkg/eip712"
)

var _ eip712.Catalog = Catalog{}

// DefaultCatalog resolves atomic type names for eip712.FromWire.
var DefaultCatalog = Catalog{}

// Catalog adapts Lookup to the eip712.Catalog interface.
type Catalog struct{}

// Lookup implements eip712.Catalog.
func (Catalog) Lookup(typeName string) (eip712.Type, bool) {
	return Lookup(typeName)
}

var (
	intRegex   = regexp.MustCompile(`^(u?int)([0-9]+)$`)
	bytesRegex = regexp.MustCompile(`^bytes([0-9]+)$`)
)

// Lookup returns the atomic type named typeName, or an array of one when the
// name carries array dimensions. It reports false for anything else, such as
// struct names.
func Lookup(typeName string) (eip712.Type, bool) {
	base, dims, err := eip712.SplitTypeName(typeName)
	if err != nil {
		return nil, false
	}
	t, ok := lookupAtomic(base)
	if !ok {
		return nil, false
	}
	if len(dims) == 0 {
		return t, true
	}
	arr, err := eip712.WrapArrays(t, dims)
	if err != nil {
		return nil, false
	}
	return arr, true
}

func lookupAtomic(name string) (eip712.Type, bool) {
	switch name {
	case "bool":
		return Bool{}, true
	case "address":
		return Address{}, true
	case "string":
		return String{}, true
	case "bytes":
		return Bytes{}, true
	}

	if m := intRegex.FindStringSubmatch(name); m != nil {
		bits, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, false
		}
		if m[1] == "uint" {
			t, err := NewUint(bits)
			return t, err == nil
		}
		t, err := NewInt(bits)
		return t, err == nil
	}

	if m := bytesRegex.FindStringSubmatch(name); m != nil {
		size, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		t, err := NewFixedBytes(size)
		return t, err == nil
	}
	return nil, false
}
