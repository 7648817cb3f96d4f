package sign

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SignatureLength is the size of an r || s || v signature.
const SignatureLength = 65

// Signer signs 32-byte digests.
type Signer interface {
	Address() common.Address
	// Sign signs a hash, not a raw message.
	Sign(hash []byte) (Signature, error)
}

// Signature is an r || s || v signature with v in {27, 28}.
type Signature []byte

// String returns the 0x prefixed hex encoding.
func (s Signature) String() string {
	return hexutil.Encode(s)
}

// MarshalJSON encodes the signature as a hex string.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a hex string.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	decoded, err := ParseSignature(hexStr)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ParseSignature decodes a 0x prefixed 65 byte signature.
func ParseSignature(hexStr string) (Signature, error) {
	decoded, err := hexutil.Decode(hexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(decoded) != SignatureLength {
		return nil, fmt.Errorf("invalid signature length: got %d, want %d", len(decoded), SignatureLength)
	}
	return Signature(decoded), nil
}
