package eip712

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
)

var _ Type = (*Array)(nil)

// Array is a fixed or dynamically sized array of another type.
type Array struct {
	elem   Type
	length int
}

// NewArray returns an array of elem. A length of 0 declares a dynamic array.
func NewArray(elem Type, length int) (*Array, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: array element type is nil", ErrConfiguration)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative array length %d", ErrConfiguration, length)
	}
	return &Array{elem: elem, length: length}, nil
}

// Elem returns the element type.
func (a *Array) Elem() Type { return a.elem }

// Len returns the declared length, 0 for dynamic arrays.
func (a *Array) Len() int { return a.length }

// TypeName renders "elem[]" for dynamic arrays and "elem[N]" otherwise.
func (a *Array) TypeName() string {
	if a.length == 0 {
		return a.elem.TypeName() + "[]"
	}
	return a.elem.TypeName() + "[" + strconv.Itoa(a.length) + "]"
}

// EncodeValue hashes the concatenated encodings of the elements.
// Elements of struct arrays contribute their struct hash.
func (a *Array) EncodeValue(value any) ([]byte, error) {
	var items []any
	if value == nil {
		items = make([]any, a.length)
	} else {
		var ok bool
		items, ok = asSlice(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a slice, got %T", ErrInvalidValue, a.TypeName(), value)
		}
	}
	if a.length > 0 && len(items) != a.length {
		return nil, fmt.Errorf("%w: %s expects %d elements, got %d", ErrInvalidValue, a.TypeName(), a.length, len(items))
	}

	buf := make([]byte, 0, 32*len(items))
	for i, item := range items {
		enc, err := a.elem.EncodeValue(item)
		if err != nil {
			return nil, fmt.Errorf("element %d of %s: %w", i, a.TypeName(), err)
		}
		buf = append(buf, enc...)
	}
	return crypto.Keccak256(buf), nil
}
