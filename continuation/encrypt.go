package continuation

import (
	"log/slog"

	"verity.dev/core/cci"
	"verity.dev/core/cryptox"
)

// EncryptOptions carries the keypair halves and the optional set of field
// types that must stay in the clear alongside CRYPTO_NONCE/ENCRYPTED — spec
// §4.3's "to-preserve" set, beyond the positionals and raw content that
// never reach this package's field-list representation in the first place.
type EncryptOptions struct {
	SenderPrivate   *[cryptox.BoxKeySize]byte
	RecipientPublic *[cryptox.BoxKeySize]byte
	PreserveInClear []cci.FieldType
}

func preserves(t cci.FieldType, keep []cci.FieldType) bool {
	for _, k := range keep {
		if k == t {
			return true
		}
	}
	return false
}

// Encrypt implements spec §4.3's Encrypt, meant to run on a Veritum's field
// set before Split (encrypt-then-split: splitting after encryption means
// the same-type adjacency rule only ever has to reason about the opaque
// ENCRYPTED blob, never about what is inside it).
func Encrypt(fields []cci.Field, opts EncryptOptions) ([]cci.Field, error) {
	var toEncrypt, preserved []cci.Field
	for _, f := range fields {
		if preserves(f.Type, opts.PreserveInClear) {
			preserved = append(preserved, f)
		} else {
			toEncrypt = append(toEncrypt, f)
		}
	}

	blob, err := cci.Compile(toEncrypt, encodedLenSum(toEncrypt))
	if err != nil {
		return nil, err
	}

	nonce, err := cryptox.RandomNonce()
	if err != nil {
		return nil, err
	}
	shared := cryptox.SharedKey(opts.SenderPrivate, opts.RecipientPublic)
	ciphertext := cryptox.SealWithSharedKey(blob, nonce, shared)

	out := make([]cci.Field, 0, len(preserved)+2)
	out = append(out, cci.Field{Type: cci.FieldCryptoNonce, Value: nonce[:]})
	out = append(out, cci.Field{Type: cci.FieldEncrypted, Value: ciphertext})
	out = append(out, preserved...)
	return out, nil
}

// DecryptOptions is Encrypt's mirror: the recipient's own private half and
// the sender's public half.
type DecryptOptions struct {
	RecipientPrivate *[cryptox.BoxKeySize]byte
	SenderPublic     *[cryptox.BoxKeySize]byte
	Log              *slog.Logger
}

// Decrypt implements spec §4.3's Decrypt. Per spec §7, failure to open the
// box — including "this cube was not addressed to me" — is never an error
// the caller must handle: the input field set is returned unchanged and the
// event is logged at debug level.
func Decrypt(fields []cci.Field, opts DecryptOptions) []cci.Field {
	logger := opts.Log
	if logger == nil {
		logger = slog.Default()
	}

	nonceIdx, cipherIdx := -1, -1
	for i, f := range fields {
		switch f.Type {
		case cci.FieldCryptoNonce:
			nonceIdx = i
		case cci.FieldEncrypted:
			cipherIdx = i
		}
	}
	if cipherIdx < 0 {
		return fields
	}

	var nonce [cryptox.BoxNonceSize]byte
	if nonceIdx >= 0 {
		copy(nonce[:], fields[nonceIdx].Value)
	}

	shared := cryptox.SharedKey(opts.RecipientPrivate, opts.SenderPublic)
	plaintext, err := cryptox.OpenWithSharedKey(fields[cipherIdx].Value, nonce, shared)
	if err != nil {
		logger.Debug("continuation: decrypt failed, treating cube as not addressed to this key")
		return fields
	}

	inner, _, _, err := cci.Decompile(plaintext)
	if err != nil {
		logger.Debug("continuation: decrypted blob was not well-formed CCI", "error", err)
		return fields
	}

	out := make([]cci.Field, 0, len(fields)-2+len(inner))
	for i, f := range fields {
		if i == nonceIdx || i == cipherIdx {
			continue
		}
		out = append(out, f)
	}
	// Splice the decrypted fields in at the position the ENCRYPTED field
	// held among the preserved set.
	spliceAt := cipherIdx
	if nonceIdx >= 0 && nonceIdx < cipherIdx {
		spliceAt--
	}
	if spliceAt > len(out) {
		spliceAt = len(out)
	}
	result := make([]cci.Field, 0, len(out)+len(inner))
	result = append(result, out[:spliceAt]...)
	result = append(result, inner...)
	result = append(result, out[spliceAt:]...)
	return result
}
