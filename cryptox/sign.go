package cryptox

import (
	"crypto/ed25519"

	"verity.dev/core/cube"
)

// PublicKeySize, PrivateKeySize and SignatureSize re-export ed25519's key sizes under Verity's own
// names so callers never need to import crypto/ed25519 directly.
const (
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.PrivateKeySize
	SignatureSize  = ed25519.SignatureSize
)

// Sign produces a 64-byte Ed25519 signature over prefix using priv. It is an
// ApiMisuseError for priv to be the wrong length — that indicates a
// programmer error, not untrusted input.
func Sign(priv ed25519.PrivateKey, prefix []byte) ([]byte, error) {
	if len(priv) != PrivateKeySize {
		return nil, cube.NewError(cube.ErrApiMisuse, "sign: private key must be 64 bytes")
	}
	return ed25519.Sign(priv, prefix), nil
}

// Verify reports whether sig is a valid Ed25519 signature over prefix under
// pub. A malformed public key is a CryptoError, not a panic.
func Verify(pub ed25519.PublicKey, prefix, sig []byte) error {
	if len(pub) != PublicKeySize {
		return cube.NewError(cube.ErrCrypto, "verify: public key must be 32 bytes")
	}
	if len(sig) != SignatureSize {
		return cube.NewError(cube.ErrSignature, "signature must be 64 bytes")
	}
	if !ed25519.Verify(pub, prefix, sig) {
		return cube.NewError(cube.ErrSignature, "signature verification failed")
	}
	return nil
}

// GenerateKeypair produces a fresh Ed25519 keypair for tests and tooling.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, cube.NewError(cube.ErrCrypto, "generate keypair: "+err.Error())
	}
	return pub, priv, nil
}
