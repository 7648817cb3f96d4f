package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// WireMember is one member declaration of a wire type table.
type WireMember struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Type string `json:"type" yaml:"type" validate:"required"`
}

// WireTypes is the "types" table of a typed data dictionary.
type WireTypes map[string][]WireMember

// TypedData is the wire representation exchanged between signer and verifier.
type TypedData struct {
	PrimaryType string         `json:"primaryType" yaml:"primaryType" validate:"required"`
	Types       WireTypes      `json:"types" yaml:"types" validate:"required,dive,dive"`
	Domain      map[string]any `json:"domain" yaml:"domain"`
	Message     map[string]any `json:"message" yaml:"message"`
}

// ToWire builds the typed data dictionary for a primary struct and its
// domain, together with the hash
// keccak256(0x19 || 0x01 || TypeHash(domain) || TypeHash(primary)).
//
// The type table holds the domain, the primary struct and every struct
// reachable from either.
func ToWire(primary, domain *Instance) (*TypedData, common.Hash, error) {
	if primary == nil || domain == nil {
		return nil, common.Hash{}, fmt.Errorf("%w: primary and domain instances are required", ErrInvalidValue)
	}
	if domain.def.name != DomainTypeName {
		return nil, common.Hash{}, fmt.Errorf("%w: domain struct must be named %s, got %s", ErrConfiguration, DomainTypeName, domain.def.name)
	}

	defs := make(map[string]*Definition)
	for _, def := range []*Definition{domain.def, primary.def} {
		defs[def.name] = def
		def.gatherReferences(defs)
	}

	types := make(WireTypes, len(defs))
	for name, def := range defs {
		members := make([]WireMember, len(def.members))
		for i, m := range def.members {
			members[i] = WireMember{Name: m.Name, Type: m.Type.TypeName()}
		}
		types[name] = members
	}

	td := &TypedData{
		PrimaryType: primary.def.name,
		Types:       types,
		Domain:      domain.PlainData(),
		Message:     primary.PlainData(),
	}

	hash := crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		domain.def.TypeHash().Bytes(),
		primary.def.TypeHash().Bytes(),
	)
	return td, hash, nil
}

// FromWire rebuilds the struct definitions of td and returns the primary and
// domain instances populated from its message and domain entries.
func FromWire(td *TypedData, catalog Catalog) (*Instance, *Instance, error) {
	if td == nil {
		return nil, nil, fmt.Errorf("%w: typed data is nil", ErrInvalidValue)
	}
	if _, ok := td.Types[DomainTypeName]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingType, DomainTypeName)
	}
	if _, ok := td.Types[td.PrimaryType]; !ok {
		return nil, nil, fmt.Errorf("%w: primary type %q", ErrMissingType, td.PrimaryType)
	}

	reg := NewRegistry(catalog)
	if err := reg.Build(td.Types); err != nil {
		return nil, nil, err
	}

	domainDef, _ := reg.Get(DomainTypeName)
	primaryDef, _ := reg.Get(td.PrimaryType)

	domain, err := domainDef.New(td.Domain)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to instantiate domain: %w", err)
	}
	primary, err := primaryDef.New(td.Message)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to instantiate message: %w", err)
	}
	return primary, domain, nil
}
