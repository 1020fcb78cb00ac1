// Package identity derives a user's signing and encryption subkeys from a
// single password-derived master key (spec §6), and owns the debounced
// rebuild policy for the identity root MUC (spec §9's "coalesce pending
// rebuilds into one" decision).
package identity

import (
	"crypto/ed25519"

	"verity.dev/core/cryptox"
)

// RootContext is the domain-separator string passed to DeriveSubkey when
// deriving the Identity root MUC's signing keypair.
const RootContext = "verity-identity-root-v1"

// Identity is one user's key hierarchy: a master key derived once from a
// password and a stable per-user salt, and any number of subkeys derived
// from it by index and context string.
type Identity struct {
	Username string
	master   [cryptox.MasterKeySize]byte
}

// New derives an Identity's master key from password and username (salt =
// hash(username), per spec §6).
func New(username string, password []byte) Identity {
	salt := cryptox.SaltFromUsername(username)
	return Identity{Username: username, master: cryptox.DeriveMasterKey(password, salt)}
}

// SigningSubkey derives the Ed25519 keypair for a MUC owned by this
// identity at the given index/context (spec §6: kdf_derive_from_key then
// sign_seed_keypair).
func (id Identity) SigningSubkey(index uint64, context string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	seed, err := cryptox.DeriveSubkey(id.master, index, context)
	if err != nil {
		return nil, nil, err
	}
	pub, priv := cryptox.SignSeedKeypair(seed)
	return pub, priv, nil
}

// EncryptionSubkey derives the X25519 keypair for this identity at the
// given index/context (spec §6: kdf_derive_from_key then box_seed_keypair).
func (id Identity) EncryptionSubkey(index uint64, context string) (pub, priv *[cryptox.BoxKeySize]byte, err error) {
	seed, err := cryptox.DeriveSubkey(id.master, index, context)
	if err != nil {
		return nil, nil, err
	}
	return cryptox.BoxSeedKeypair(seed)
}

// RootMUCKeypair derives this identity's root MUC signing keypair: index 0
// under RootContext.
func (id Identity) RootMUCKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return id.SigningSubkey(0, RootContext)
}
