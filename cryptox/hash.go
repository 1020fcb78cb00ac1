// Package cryptox wires Verity's cryptographic primitives onto
// golang.org/x/crypto: a Blake-style content hash and trailing-zero-bit
// difficulty counter for proof-of-work, Ed25519 signing for MUC-family
// cubes, authenticated NaCl box/secretbox encryption for Continuation, and
// an Argon2id + keyed-hash KDF for identity subkey derivation.
package cryptox

import "golang.org/x/crypto/blake2b"

// HashSize is the width of the content hash used for cube keys and PoW.
const HashSize = 32

// CubeHash computes the Blake-style content hash of a compiled cube's bytes.
// It is used both as the PoW input and, for non-MUC-family cubes, as the
// cube's key.
func CubeHash(b []byte) [HashSize]byte {
	return blake2b.Sum256(b)
}

// TrailingZeroBits counts the number of trailing zero bits in h, read as a
// big-endian bit string (i.e. zero bits accumulate from the last byte
// forward). This is the difficulty measure required by spec §3/§4.1.1.
func TrailingZeroBits(h [HashSize]byte) int {
	count := 0
	for i := len(h) - 1; i >= 0; i-- {
		b := h[i]
		if b == 0 {
			count += 8
			continue
		}
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				return count + bit
			}
		}
	}
	return count
}

// MeetsDifficulty reports whether h has at least difficulty trailing zero
// bits.
func MeetsDifficulty(h [HashSize]byte, difficulty int) bool {
	return TrailingZeroBits(h) >= difficulty
}
