package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Validate checks that the dictionary carries a primary type and a well
// formed type table.
func (td *TypedData) Validate() error {
	if err := validate.Struct(td); err != nil {
		return fmt.Errorf("invalid typed data: %w", err)
	}
	return nil
}

// ParseTypedData decodes a JSON typed data dictionary. Numbers are kept as
// json.Number so large integers survive decoding.
func ParseTypedData(data []byte) (*TypedData, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var td TypedData
	if err := dec.Decode(&td); err != nil {
		return nil, fmt.Errorf("failed to decode typed data: %w", err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return &td, nil
}

// LoadTypedData reads a typed data dictionary from a .json, .yaml or .yml file.
func LoadTypedData(path string) (*TypedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var td TypedData
		if err := yaml.Unmarshal(data, &td); err != nil {
			return nil, fmt.Errorf("failed to decode typed data: %w", err)
		}
		if err := td.Validate(); err != nil {
			return nil, err
		}
		return &td, nil
	default:
		return ParseTypedData(data)
	}
}

// APITypes converts the dictionary to go-ethereum's apitypes.TypedData, as
// accepted by eth_signTypedData_v4 implementations.
func (td *TypedData) APITypes() (apitypes.TypedData, error) {
	types := make(apitypes.Types, len(td.Types))
	for name, members := range td.Types {
		fields := make([]apitypes.Type, len(members))
		for i, m := range members {
			fields[i] = apitypes.Type{Name: m.Name, Type: m.Type}
		}
		types[name] = fields
	}

	domain, err := apiDomain(td.Domain)
	if err != nil {
		return apitypes.TypedData{}, err
	}

	return apitypes.TypedData{
		Types:       types,
		PrimaryType: td.PrimaryType,
		Domain:      domain,
		Message:     apiValue(td.Message).(map[string]any),
	}, nil
}

// apiValue rewrites json.Number leaves as strings, which apitypes parses as
// integers.
func apiValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = apiValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = apiValue(item)
		}
		return out
	}
	return value
}

func apiDomain(values map[string]any) (apitypes.TypedDataDomain, error) {
	var domain apitypes.TypedDataDomain
	for key, value := range values {
		if value == nil {
			continue
		}
		switch key {
		case "name":
			domain.Name = fmt.Sprint(value)
		case "version":
			domain.Version = fmt.Sprint(value)
		case "chainId":
			chainID, err := bigFromValue(value)
			if err != nil {
				return domain, fmt.Errorf("domain chainId: %w", err)
			}
			domain.ChainId = (*math.HexOrDecimal256)(chainID)
		case "verifyingContract":
			switch v := value.(type) {
			case common.Address:
				domain.VerifyingContract = v.Hex()
			default:
				domain.VerifyingContract = fmt.Sprint(v)
			}
		case "salt":
			switch v := value.(type) {
			case []byte:
				domain.Salt = hexutil.Encode(v)
			case common.Hash:
				domain.Salt = v.Hex()
			default:
				domain.Salt = fmt.Sprint(v)
			}
		default:
			return domain, fmt.Errorf("%w: unsupported domain field %q", ErrInvalidValue, key)
		}
	}
	return domain, nil
}

func bigFromValue(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case json.Number:
		return parseBig(v.String())
	case string:
		return parseBig(v)
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		f := new(big.Float).SetFloat64(v)
		if !f.IsInt() {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
		}
		n, _ := f.Int(nil)
		return n, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as an integer", ErrInvalidValue, value)
}

func parseBig(s string) (*big.Int, error) {
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	return n, nil
}
