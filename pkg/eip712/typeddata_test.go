package eip712_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erc7824/eip712structs/pkg/eip712"
	"github.com/erc7824/eip712structs/pkg/soltype"
)

func TestLoadTypedData(t *testing.T) {
	for _, file := range []string{"testdata/mail.json", "testdata/mail.yaml"} {
		t.Run(file, func(t *testing.T) {
			td, err := eip712.LoadTypedData(file)
			require.NoError(t, err)
			assert.Equal(t, "Mail", td.PrimaryType)
			assert.Equal(t, mailWireTypes(), td.Types)

			msg, domain, err := eip712.FromWire(td, soltype.DefaultCatalog)
			require.NoError(t, err)

			h, err := domain.HashStruct()
			require.NoError(t, err)
			assert.Equal(t, domainSeparator, h)

			digest, err := eip712.TypedDataHash(msg, domain)
			require.NoError(t, err)
			assert.Equal(t, mailDigest, digest)
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		_, err := eip712.LoadTypedData(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yml")
		require.NoError(t, os.WriteFile(path, []byte("types: [unterminated"), 0o600))

		_, err := eip712.LoadTypedData(path)
		assert.Error(t, err)
	})
}

func TestParseTypedData(t *testing.T) {
	t.Run("Large integers survive decoding", func(t *testing.T) {
		td, err := eip712.ParseTypedData([]byte(`{
			"primaryType": "Transfer",
			"types": {
				"EIP712Domain": [{"name": "chainId", "type": "uint256"}],
				"Transfer": [{"name": "amount", "type": "uint256"}]
			},
			"domain": {"chainId": 1},
			"message": {"amount": 115792089237316195423570985008687907853269984665640564039457584007913129639935}
		}`))
		require.NoError(t, err)

		msg, _, err := eip712.FromWire(td, soltype.DefaultCatalog)
		require.NoError(t, err)

		data, err := msg.EncodeData()
		require.NoError(t, err)
		assert.Equal(t, math.MaxBig256.Bytes(), data)
	})

	tests := []struct {
		name string
		data string
	}{
		{"Invalid JSON", `{"primaryType":`},
		{"Missing primary type", `{"types": {"EIP712Domain": []}}`},
		{"Missing types", `{"primaryType": "Mail"}`},
		{"Member without type", `{"primaryType": "Mail", "types": {"Mail": [{"name": "contents"}]}}`},
		{"Member without name", `{"primaryType": "Mail", "types": {"Mail": [{"type": "string"}]}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := eip712.ParseTypedData([]byte(test.data))
			assert.Error(t, err)
		})
	}
}

func TestAPITypes(t *testing.T) {
	t.Run("Mail example", func(t *testing.T) {
		td, err := eip712.LoadTypedData("testdata/mail.json")
		require.NoError(t, err)

		apiTD, err := td.APITypes()
		require.NoError(t, err)
		assert.Equal(t, "Ether Mail", apiTD.Domain.Name)
		assert.Equal(t, big.NewInt(1), (*big.Int)(apiTD.Domain.ChainId))

		hash, _, err := apitypes.TypedDataAndHash(apiTD)
		require.NoError(t, err)
		assert.Equal(t, mailDigest.Bytes(), hash)

		typeHash := apiTD.TypeHash("Mail")
		assert.Equal(t, mailTypeHash.Bytes(), []byte(typeHash))
	})

	t.Run("Session policy with allowances", func(t *testing.T) {
		wallet := common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
		td := &eip712.TypedData{
			PrimaryType: "Policy",
			Types: eip712.WireTypes{
				"EIP712Domain": {{Name: "name", Type: "string"}},
				"Policy": {
					{Name: "challenge", Type: "string"},
					{Name: "scope", Type: "string"},
					{Name: "wallet", Type: "address"},
					{Name: "session_key", Type: "address"},
					{Name: "expires_at", Type: "uint64"},
					{Name: "allowances", Type: "Allowance[]"},
				},
				"Allowance": {
					{Name: "asset", Type: "string"},
					{Name: "amount", Type: "string"},
				},
			},
			Domain: map[string]any{"name": "Yellow App Store"},
			Message: map[string]any{
				"challenge":   "a9d5b4fd-ef30-4bb6-b9b6-4f2778f004fd",
				"scope":       "console",
				"wallet":      wallet.Hex(),
				"session_key": "0x6966978ce78df3228993aa46984eab6d68bbe195",
				"expires_at":  big.NewInt(1748608702),
				"allowances": []any{
					map[string]any{"asset": "usdc", "amount": "123.45"},
				},
			},
		}
		require.NoError(t, td.Validate())

		apiTD, err := td.APITypes()
		require.NoError(t, err)
		want, _, err := apitypes.TypedDataAndHash(apiTD)
		require.NoError(t, err)

		msg, domain, err := eip712.FromWire(td, soltype.DefaultCatalog)
		require.NoError(t, err)
		assert.Equal(t, "Policy(string challenge,string scope,address wallet,address session_key,uint64 expires_at,Allowance[] allowances)Allowance(string asset,string amount)",
			msg.Definition().EncodeType())

		digest, err := eip712.TypedDataHash(msg, domain)
		require.NoError(t, err)
		assert.Equal(t, want, digest.Bytes())
	})

	t.Run("Unsupported domain field", func(t *testing.T) {
		td := &eip712.TypedData{
			PrimaryType: "Mail",
			Types:       mailWireTypes(),
			Domain:      map[string]any{"name": "Ether Mail", "owner": "cow"},
		}
		_, err := td.APITypes()
		assert.ErrorIs(t, err, eip712.ErrInvalidValue)
	})

	t.Run("Invalid chain id", func(t *testing.T) {
		td := &eip712.TypedData{
			PrimaryType: "Mail",
			Types:       mailWireTypes(),
			Domain:      map[string]any{"chainId": "one"},
		}
		_, err := td.APITypes()
		assert.ErrorIs(t, err, eip712.ErrInvalidValue)
	})
}
