package soltype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/erc7824/eip712structs/pkg/eip712"
)

var (
	_ eip712.Type = Bool{}
	_ eip712.Type = Address{}
	_ eip712.Type = String{}
	_ eip712.Type = Bytes{}
	_ eip712.Type = FixedBytes{}
)

// Bytes32 is the bytes32 type, used for the domain salt.
var Bytes32 = MustFixedBytes(32)

// Bool encodes false as 0 and true as 1.
type Bool struct{}

func (Bool) TypeName() string { return "bool" }

func (t Bool) EncodeValue(value any) ([]byte, error) {
	var b bool
	switch v := value.(type) {
	case nil:
	case bool:
		b = v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", eip712.ErrInvalidValue, v)
		}
		b = parsed
	default:
		return nil, fmt.Errorf("%w: cannot use %T as bool", eip712.ErrInvalidValue, value)
	}

	out := make([]byte, 32)
	if b {
		out[31] = 1
	}
	return out, nil
}

// Address is a 20 byte account address, left padded to 32 bytes.
type Address struct{}

func (Address) TypeName() string { return "address" }

func (t Address) EncodeValue(value any) ([]byte, error) {
	var addr common.Address
	switch v := value.(type) {
	case nil:
	case common.Address:
		addr = v
	case *common.Address:
		if v != nil {
			addr = *v
		}
	case string:
		if !common.IsHexAddress(v) {
			return nil, fmt.Errorf("%w: %q is not a hex address", eip712.ErrInvalidValue, v)
		}
		addr = common.HexToAddress(v)
	case []byte:
		if len(v) != common.AddressLength {
			return nil, fmt.Errorf("%w: address must be %d bytes, got %d", eip712.ErrInvalidValue, common.AddressLength, len(v))
		}
		addr = common.BytesToAddress(v)
	default:
		return nil, fmt.Errorf("%w: cannot use %T as address", eip712.ErrInvalidValue, value)
	}
	return common.LeftPadBytes(addr.Bytes(), 32), nil
}

// String is encoded as the keccak256 hash of its UTF-8 bytes.
type String struct{}

func (String) TypeName() string { return "string" }

func (t String) EncodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return crypto.Keccak256(nil), nil
	case string:
		return crypto.Keccak256([]byte(v)), nil
	case []byte:
		return crypto.Keccak256(v), nil
	case fmt.Stringer:
		return crypto.Keccak256([]byte(v.String())), nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as string", eip712.ErrInvalidValue, value)
}

// Bytes is a dynamic byte string, encoded as its keccak256 hash.
type Bytes struct{}

func (Bytes) TypeName() string { return "bytes" }

func (t Bytes) EncodeValue(value any) ([]byte, error) {
	b, err := toBytes(value)
	if err != nil {
		return nil, fmt.Errorf("bytes: %w", err)
	}
	return crypto.Keccak256(b), nil
}

// FixedBytes is bytesN, right padded to 32 bytes.
type FixedBytes struct{ size int }

// NewFixedBytes returns the bytesN type for 1 <= size <= 32.
func NewFixedBytes(size int) (FixedBytes, error) {
	if size < 1 || size > 32 {
		return FixedBytes{}, fmt.Errorf("%w: bytes size %d is not in [1, 32]", eip712.ErrConfiguration, size)
	}
	return FixedBytes{size: size}, nil
}

// MustFixedBytes is like NewFixedBytes but panics on an invalid size.
func MustFixedBytes(size int) FixedBytes {
	t, err := NewFixedBytes(size)
	if err != nil {
		panic(err)
	}
	return t
}

func (t FixedBytes) TypeName() string { return fmt.Sprintf("bytes%d", t.size) }

func (t FixedBytes) EncodeValue(value any) ([]byte, error) {
	var b []byte
	switch v := value.(type) {
	case common.Hash:
		b = v.Bytes()
	case [32]byte:
		b = v[:]
	default:
		var err error
		if b, err = toBytes(value); err != nil {
			return nil, fmt.Errorf("%s: %w", t.TypeName(), err)
		}
	}
	if len(b) > t.size {
		return nil, fmt.Errorf("%w: %s holds at most %d bytes, got %d", eip712.ErrInvalidValue, t.TypeName(), t.size, len(b))
	}
	return common.RightPadBytes(b, 32), nil
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	case string:
		if !strings.HasPrefix(v, "0x") && !strings.HasPrefix(v, "0X") {
			return nil, fmt.Errorf("%w: %q is not 0x prefixed hex", eip712.ErrInvalidValue, v)
		}
		b, err := hexutil.Decode("0x" + v[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", eip712.ErrInvalidValue, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as bytes", eip712.ErrInvalidValue, value)
}
