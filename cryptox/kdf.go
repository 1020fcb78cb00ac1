package cryptox

import (
	"crypto/ed25519"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"

	"verity.dev/core/cube"
)

// Argon2id interactive parameters (spec §6: "Argon2id (interactive params)").
const (
	argon2Time    = 2
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 1
	MasterKeySize = 32
)

// SaltSize is the width truncated from hash(username) to seed Argon2id.
const SaltSize = 16

// DeriveMasterKey derives a 32-byte master key from password and salt
// (salt = hash(username)[:SaltSize] per spec §6).
func DeriveMasterKey(password []byte, salt [SaltSize]byte) [MasterKeySize]byte {
	out := argon2.IDKey(password, salt[:], argon2Time, argon2Memory, argon2Threads, MasterKeySize)
	var key [MasterKeySize]byte
	copy(key[:], out)
	return key
}

// SaltFromUsername computes the salt spec §6 requires: hash(username)
// truncated to SaltSize bytes.
func SaltFromUsername(username string) [SaltSize]byte {
	h := CubeHash([]byte(username))
	var salt [SaltSize]byte
	copy(salt[:], h[:SaltSize])
	return salt
}

// DeriveSubkey implements kdf_derive_from_key(master, index, context): a
// keyed Blake2b hash over a domain-separated message, standing in for
// libsodium's crypto_kdf_derive_from_key.
func DeriveSubkey(master [MasterKeySize]byte, index uint64, context string) ([32]byte, error) {
	h, err := blake2b.New256(master[:])
	if err != nil {
		return [32]byte{}, cube.NewError(cube.ErrCrypto, "kdf: "+err.Error())
	}
	_, _ = h.Write([]byte(context))
	var idxBuf [8]byte
	for i := 0; i < 8; i++ {
		idxBuf[i] = byte(index >> (8 * uint(i)))
	}
	_, _ = h.Write(idxBuf[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// SignSeedKeypair derives an Ed25519 keypair from a 32-byte seed (libsodium's
// sign_seed_keypair via Go's ed25519.NewKeyFromSeed).
func SignSeedKeypair(seed [32]byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}

// BoxSeedKeypair derives an X25519 keypair from a 32-byte seed (libsodium's
// box_seed_keypair): the seed is clamped into the scalar directly and the
// public key is its basepoint multiple.
func BoxSeedKeypair(seed [32]byte) (pub *[BoxKeySize]byte, priv *[BoxKeySize]byte, err error) {
	priv = &[BoxKeySize]byte{}
	copy(priv[:], seed[:])
	pubBytes, kerr := curve25519.X25519(priv[:], curve25519.Basepoint)
	if kerr != nil {
		return nil, nil, cube.NewError(cube.ErrCrypto, "box seed keypair: "+kerr.Error())
	}
	pub = &[BoxKeySize]byte{}
	copy(pub[:], pubBytes)
	return pub, priv, nil
}
