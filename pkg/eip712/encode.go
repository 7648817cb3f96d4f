package eip712

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// signature renders the struct without its references: Name(type1 name1,type2 name2).
func (d *Definition) signature() string {
	var sb strings.Builder
	sb.WriteString(d.name)
	sb.WriteByte('(')
	for i, m := range d.members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.Type.TypeName())
		sb.WriteByte(' ')
		sb.WriteString(m.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// gatherReferences adds every struct reachable from d's members to seen.
// A definition already in seen is not walked again.
func (d *Definition) gatherReferences(seen map[string]*Definition) {
	for _, m := range d.members {
		ref := structOf(m.Type)
		if ref == nil {
			continue
		}
		if _, ok := seen[ref.name]; ok {
			continue
		}
		seen[ref.name] = ref
		ref.gatherReferences(seen)
	}
}

// References returns the struct definitions reachable from d, excluding d
// itself, sorted by type name.
func (d *Definition) References() []*Definition {
	seen := make(map[string]*Definition)
	d.gatherReferences(seen)
	delete(seen, d.name)
	return sortedDefinitions(seen)
}

func sortedDefinitions(defs map[string]*Definition) []*Definition {
	out := make([]*Definition, 0, len(defs))
	for _, def := range defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].name < out[j].name
	})
	return out
}

// EncodeType returns the canonical type signature: the struct's own
// signature followed by the signatures of all referenced structs in
// alphabetical order.
func (d *Definition) EncodeType() string {
	var sb strings.Builder
	sb.WriteString(d.signature())
	for _, ref := range d.References() {
		sb.WriteString(ref.signature())
	}
	return sb.String()
}

// TypeHash returns keccak256(EncodeType()).
func (d *Definition) TypeHash() common.Hash {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.typeHash == nil {
		h := crypto.Keccak256Hash([]byte(d.EncodeType()))
		d.typeHash = &h
	}
	return *d.typeHash
}

// EncodeValue returns the struct hash of value, which may be an *Instance of
// this definition, a map of member values, or nil for an all-zero struct.
func (d *Definition) EncodeValue(value any) ([]byte, error) {
	var inst *Instance
	switch v := value.(type) {
	case *Instance:
		if v.def.name != d.name {
			return nil, fmt.Errorf("%w: expected %s instance, got %s", ErrInvalidValue, d.name, v.def.name)
		}
		inst = v
	case map[string]any:
		var err error
		if inst, err = d.New(v); err != nil {
			return nil, err
		}
	case nil:
		var err error
		if inst, err = d.New(nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s expects a struct value, got %T", ErrInvalidValue, d.name, value)
	}

	h, err := inst.HashStruct()
	if err != nil {
		return nil, err
	}
	return h.Bytes(), nil
}

// EncodeData concatenates the 32-byte encodings of all members in
// declaration order.
func (i *Instance) EncodeData() ([]byte, error) {
	buf := make([]byte, 0, 32*len(i.def.members))
	for _, m := range i.def.members {
		enc, err := m.Type.EncodeValue(i.values[m.Name])
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", i.def.name, m.Name, err)
		}
		if len(enc) != 32 {
			return nil, fmt.Errorf("%w: %s.%s encoded to %d bytes", ErrInvalidValue, i.def.name, m.Name, len(enc))
		}
		buf = append(buf, enc...)
	}
	return buf, nil
}

// HashStruct returns keccak256(TypeHash || EncodeData).
func (i *Instance) HashStruct() (common.Hash, error) {
	data, err := i.EncodeData()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(i.def.TypeHash().Bytes(), data), nil
}

// TypedDataHash returns the EIP-712 signing digest
// keccak256(0x19 || 0x01 || HashStruct(domain) || HashStruct(primary)).
func TypedDataHash(primary, domain *Instance) (common.Hash, error) {
	domainSeparator, err := domain.HashStruct()
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	messageHash, err := primary.HashStruct()
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domainSeparator.Bytes(), messageHash.Bytes()), nil
}
