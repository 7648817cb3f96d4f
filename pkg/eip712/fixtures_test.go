package eip712_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/erc7824/eip712structs/pkg/eip712"
	"github.com/erc7824/eip712structs/pkg/soltype"
)

var (
	person = eip712.MustDefine("Person",
		eip712.Member{Name: "name", Type: soltype.String{}},
		eip712.Member{Name: "wallet", Type: soltype.Address{}},
	)
	mail = eip712.MustDefine("Mail",
		eip712.Member{Name: "from", Type: person},
		eip712.Member{Name: "to", Type: person},
		eip712.Member{Name: "contents", Type: soltype.String{}},
	)
	mailDomain = eip712.MustDefine(eip712.DomainTypeName,
		eip712.Member{Name: "name", Type: soltype.String{}},
		eip712.Member{Name: "version", Type: soltype.String{}},
		eip712.Member{Name: "chainId", Type: soltype.Uint256},
		eip712.Member{Name: "verifyingContract", Type: soltype.Address{}},
	)
)

// Values of the "Ether Mail" example from EIP-712.
var (
	cowWallet = common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")
	bobWallet = common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")

	mailTypeHash    = common.HexToHash("0xa0cedeb2dc280ba39b857546d74f5549c3a1d7bdc2dd96bf881f76108e23dac2")
	domainTypeHash  = common.HexToHash("0x8b73c3c69bb8fe3d512ecc4cf759cc79239f7b179b0ffacaa9a75d522b39400f")
	personTypeHash  = common.HexToHash("0xb9d8c78acf9b987311de6c7b45bb6a9c8e1bf361fa7fd3467a2163f994c79500")
	mailHash        = common.HexToHash("0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e")
	domainSeparator = common.HexToHash("0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f")
	mailDigest      = common.HexToHash("0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2")
	mailWireHash    = common.HexToHash("0x8e975d00bf6fb66f817f17fb46e7008df3ecaf21844b7cb5cbde2f2fa246f7bc")
)

func newMail(t *testing.T) (*eip712.Instance, *eip712.Instance) {
	t.Helper()

	msg, err := mail.New(map[string]any{
		"from":     map[string]any{"name": "Cow", "wallet": cowWallet},
		"to":       map[string]any{"name": "Bob", "wallet": bobWallet.Hex()},
		"contents": "Hello, Bob!",
	})
	require.NoError(t, err)

	domain, err := mailDomain.New(map[string]any{
		"name":              "Ether Mail",
		"version":           "1",
		"chainId":           1,
		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
	})
	require.NoError(t, err)
	return msg, domain
}
