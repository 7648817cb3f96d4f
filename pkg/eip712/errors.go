package eip712

import "fmt"

var (
	// ErrConfiguration is returned when a type descriptor is constructed with invalid parameters.
	ErrConfiguration = fmt.Errorf("invalid type configuration")
	// ErrDuplicateMember is returned when a struct declares the same member name twice.
	ErrDuplicateMember = fmt.Errorf("duplicate struct member")
	// ErrTypeResolution is returned when a wire type string matches neither an atomic type nor a declared struct.
	ErrTypeResolution = fmt.Errorf("unresolvable type reference")
	// ErrMissingType is returned when the EIP712Domain or primary type is absent from a type table.
	ErrMissingType = fmt.Errorf("missing type definition")
	// ErrInvalidValue is returned when a value cannot be encoded as its declared type.
	ErrInvalidValue = fmt.Errorf("invalid value")
)
