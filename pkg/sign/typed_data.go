package sign

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/erc7824/eip712structs/pkg/eip712"
)

// SignTypedData signs the EIP-712 digest of primary under domain and
// returns the signature together with the digest.
func SignTypedData(signer Signer, primary, domain *eip712.Instance) (Signature, common.Hash, error) {
	digest, err := eip712.TypedDataHash(primary, domain)
	if err != nil {
		return nil, common.Hash{}, err
	}
	sig, err := signer.Sign(digest.Bytes())
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to sign typed data: %w", err)
	}
	return sig, digest, nil
}

// RecoverTypedDataSigner returns the address that signed primary under domain.
func RecoverTypedDataSigner(primary, domain *eip712.Instance, sig Signature) (common.Address, error) {
	digest, err := eip712.TypedDataHash(primary, domain)
	if err != nil {
		return common.Address{}, err
	}
	return RecoverAddressFromHash(digest.Bytes(), sig)
}
