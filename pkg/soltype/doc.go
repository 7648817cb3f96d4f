// Package soltype is the catalog of EIP-712 atomic types: uintN, intN, bool,
// address, bytesN, and the dynamic bytes and string types.
//
// Lookup resolves a solidity type name, including arrays of atomic types:
//
//	t, ok := soltype.Lookup("uint256[]")
//
// Every type implements eip712.Type. Values are accepted in the Go shapes
// produced by callers and by JSON or YAML decoding; nil encodes as the zero
// value of the type.
package soltype
