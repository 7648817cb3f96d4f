// Package sign signs and verifies EIP-712 typed data digests.
//
// A Signer produces recoverable secp256k1 signatures over 32-byte hashes:
//
//	signer, err := sign.NewEthereumSigner(privateKeyHex)
//	if err != nil {
//	    return err
//	}
//	sig, digest, err := sign.SignTypedData(signer, mail, domain)
//
// RecoverTypedDataSigner returns the address that produced such a signature.
// Private keys never leave the Signer implementation.
package sign
