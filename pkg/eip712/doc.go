// Package eip712 implements EIP-712 typed structured data encoding and hashing.
//
// A struct type is described by a Definition: a name and an ordered list of
// members, each with a field Type. Types are atomic scalars (see package
// soltype), arrays built with NewArray, or other definitions.
//
// # Encoding
//
// For a definition the package computes:
//
//   - EncodeType: the canonical signature, e.g.
//     "Mail(Person from,Person to,string contents)Person(string name,address wallet)"
//   - TypeHash: keccak256 of the canonical signature
//
// and for an Instance of it:
//
//   - EncodeData: the 32-byte encodings of every member in declaration order
//   - HashStruct: keccak256(TypeHash || EncodeData)
//
// Referenced struct types are appended to the signature sorted by name, each
// exactly once.
//
// # Wire format
//
// ToWire turns a primary and a domain instance into the TypedData dictionary
// exchanged with wallets ("types", "primaryType", "domain", "message").
// FromWire rebuilds the definitions from the "types" table through a Registry
// and instantiates both structs again:
//
//	td, _, err := eip712.ToWire(mail, domain)
//	if err != nil {
//	    return err
//	}
//	mail2, domain2, err := eip712.FromWire(td, soltype.DefaultCatalog)
//
// TypedDataHash returns the digest wallets sign with eth_signTypedData_v4.
package eip712
