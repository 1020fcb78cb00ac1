package cryptox

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"verity.dev/core/cube"
)

// BoxKeySize, BoxNonceSize and SharedKeySize mirror NaCl's fixed widths.
const (
	BoxKeySize   = 32
	BoxNonceSize = 24
	SharedKeySize = 32
)

// SharedKey derives the authenticated shared key used by Continuation's
// Encrypt/Decrypt, via NaCl's box_beforenm (spec §4.3).
func SharedKey(priv *[BoxKeySize]byte, pub *[BoxKeySize]byte) [SharedKeySize]byte {
	var shared [SharedKeySize]byte
	box.Precompute(&shared, pub, priv)
	return shared
}

// RandomNonce draws a fresh 24-byte nonce suitable for SealWithSharedKey.
func RandomNonce() ([BoxNonceSize]byte, error) {
	var n [BoxNonceSize]byte
	if _, err := rand.Read(n[:]); err != nil {
		return n, cube.NewError(cube.ErrCrypto, "nonce: "+err.Error())
	}
	return n, nil
}

// SealWithSharedKey authenticates and encrypts plaintext under the given
// precomputed shared key and nonce (NaCl's secretbox_easy).
func SealWithSharedKey(plaintext []byte, nonce [BoxNonceSize]byte, shared [SharedKeySize]byte) []byte {
	return secretbox.Seal(nil, plaintext, &nonce, &shared)
}

// OpenWithSharedKey reverses SealWithSharedKey. Callers must treat any
// error as "not addressed to me" per spec §4.3/§7 — never log key material.
func OpenWithSharedKey(ciphertext []byte, nonce [BoxNonceSize]byte, shared [SharedKeySize]byte) ([]byte, error) {
	out, ok := secretbox.Open(nil, ciphertext, &nonce, &shared)
	if !ok {
		return nil, cube.NewError(cube.ErrCrypto, "secretbox: authentication failed")
	}
	return out, nil
}

// GenerateBoxKeypair produces a fresh X25519 keypair for encryption.
func GenerateBoxKeypair() (*[BoxKeySize]byte, *[BoxKeySize]byte, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, cube.NewError(cube.ErrCrypto, "generate box keypair: "+err.Error())
	}
	return pub, priv, nil
}
