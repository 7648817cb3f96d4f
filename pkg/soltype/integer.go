package soltype

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"

	"github.com/erc7824/eip712structs/pkg/eip712"
)

var (
	_ eip712.Type = Uint{}
	_ eip712.Type = Int{}
)

// Frequently used integer types.
var (
	// Uint8 is the uint8 type.
	Uint8 = MustUint(8)
	// Uint32 is the uint32 type.
	Uint32 = MustUint(32)
	// Uint64 is the uint64 type.
	Uint64 = MustUint(64)
	// Uint256 is the uint256 type, used for chainId.
	Uint256 = MustUint(256)
	// Int256 is the int256 type.
	Int256 = MustInt(256)
)

func checkBits(bits int) error {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return fmt.Errorf("%w: integer size %d is not a multiple of 8 in [8, 256]", eip712.ErrConfiguration, bits)
	}
	return nil
}

// Uint is an unsigned integer of the given bit size.
type Uint struct{ bits int }

// NewUint returns the uintN type.
func NewUint(bits int) (Uint, error) {
	if err := checkBits(bits); err != nil {
		return Uint{}, err
	}
	return Uint{bits: bits}, nil
}

// MustUint is like NewUint but panics on an invalid size.
func MustUint(bits int) Uint {
	t, err := NewUint(bits)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Uint) TypeName() string { return fmt.Sprintf("uint%d", t.bits) }

// EncodeValue left pads the big endian value to 32 bytes.
func (t Uint) EncodeValue(value any) ([]byte, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.TypeName(), err)
	}
	if n.Sign() < 0 || n.BitLen() > t.bits {
		return nil, fmt.Errorf("%w: %s out of range for %s", eip712.ErrInvalidValue, n, t.TypeName())
	}
	return common.LeftPadBytes(n.Bytes(), 32), nil
}

// Int is a two's complement signed integer of the given bit size.
type Int struct{ bits int }

// NewInt returns the intN type.
func NewInt(bits int) (Int, error) {
	if err := checkBits(bits); err != nil {
		return Int{}, err
	}
	return Int{bits: bits}, nil
}

// MustInt is like NewInt but panics on an invalid size.
func MustInt(bits int) Int {
	t, err := NewInt(bits)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Int) TypeName() string { return fmt.Sprintf("int%d", t.bits) }

// EncodeValue sign extends the value to 256 bits.
func (t Int) EncodeValue(value any) ([]byte, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.TypeName(), err)
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.bits-1))
	lower := new(big.Int).Neg(limit)
	if n.Cmp(lower) < 0 || n.Cmp(limit) >= 0 {
		return nil, fmt.Errorf("%w: %s out of range for %s", eip712.ErrInvalidValue, n, t.TypeName())
	}
	return math.U256Bytes(new(big.Int).Set(n)), nil
}

// toBigInt accepts the integer shapes produced by Go callers, JSON and YAML
// decoding and decimal amounts. A nil value is zero.
func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return new(big.Int), nil
	case *big.Int:
		if v == nil {
			return new(big.Int), nil
		}
		return v, nil
	case *math.HexOrDecimal256:
		if v == nil {
			return new(big.Int), nil
		}
		return (*big.Int)(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		f := new(big.Float).SetFloat64(v)
		if !f.IsInt() {
			return nil, fmt.Errorf("%w: %v is not an integer", eip712.ErrInvalidValue, v)
		}
		n, _ := f.Int(nil)
		return n, nil
	case json.Number:
		return parseInteger(v.String())
	case string:
		return parseInteger(v)
	case decimal.Decimal:
		if !v.IsInteger() {
			return nil, fmt.Errorf("%w: %s is not an integer", eip712.ErrInvalidValue, v)
		}
		return v.BigInt(), nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as an integer", eip712.ErrInvalidValue, value)
}

// parseInteger parses decimal or 0x prefixed hex strings with an optional sign.
func parseInteger(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	n, ok := math.ParseBig256(digits)
	if !ok || digits == "" {
		return nil, fmt.Errorf("%w: %q is not an integer", eip712.ErrInvalidValue, s)
	}
	if negative {
		n.Neg(n)
	}
	return n, nil
}
