package continuation

import (
	"bytes"
	"context"
	"testing"

	"verity.dev/core/cci"
	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// Scenario 6 (spec §8): Encrypt -> Split -> Recombine -> Decrypt, single
// chunk case, plus the unauthorized-key path returning input unchanged.
func TestEncryptSplitRecombineDecrypt_SingleChunk(t *testing.T) {
	senderPub, senderPriv, err := cryptox.GenerateBoxKeypair()
	if err != nil {
		t.Fatalf("GenerateBoxKeypair (sender): %v", err)
	}
	recipientPub, recipientPriv, err := cryptox.GenerateBoxKeypair()
	if err != nil {
		t.Fatalf("GenerateBoxKeypair (recipient): %v", err)
	}

	fields := []cci.Field{{Type: cci.FieldPayload, Value: []byte("secret")}}
	encrypted, err := Encrypt(fields, EncryptOptions{
		SenderPrivate:   senderPriv,
		RecipientPublic: recipientPub,
	})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var sawNonce, sawCipher, sawPayload bool
	for _, f := range encrypted {
		switch f.Type {
		case cci.FieldCryptoNonce:
			sawNonce = true
		case cci.FieldEncrypted:
			sawCipher = true
		case cci.FieldPayload:
			sawPayload = true
		}
	}
	if !sawNonce || !sawCipher {
		t.Fatalf("expected CRYPTO_NONCE and ENCRYPTED fields after Encrypt")
	}
	if sawPayload {
		t.Fatalf("plaintext PAYLOAD should not survive Encrypt")
	}

	chunks, err := Split(context.Background(), encrypted, splitOpts(cube.TypeFrozen))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 for a short encrypted payload", len(chunks))
	}

	recombined := Recombine(chunks)

	decrypted := Decrypt(recombined, DecryptOptions{
		RecipientPrivate: recipientPriv,
		SenderPublic:     senderPub,
	})

	var gotPayload []byte
	for _, f := range decrypted {
		if f.Type == cci.FieldPayload {
			gotPayload = f.Value
		}
	}
	if !bytes.Equal(gotPayload, []byte("secret")) {
		t.Fatalf("decrypted PAYLOAD=%q, want %q", gotPayload, "secret")
	}

	// Unauthorized key yields the input unchanged.
	_, wrongPriv, err := cryptox.GenerateBoxKeypair()
	if err != nil {
		t.Fatalf("GenerateBoxKeypair (attacker): %v", err)
	}
	unchanged := Decrypt(recombined, DecryptOptions{
		RecipientPrivate: wrongPriv,
		SenderPublic:     senderPub,
	})
	if len(unchanged) != len(recombined) {
		t.Fatalf("expected unauthorized decrypt to return input unchanged in length")
	}
	var stillHasCipher bool
	for _, f := range unchanged {
		if f.Type == cci.FieldEncrypted {
			stillHasCipher = true
		}
	}
	if !stillHasCipher {
		t.Fatalf("unauthorized decrypt should leave the ENCRYPTED field untouched")
	}
}

func TestDecrypt_NoEncryptedFieldReturnsUnchanged(t *testing.T) {
	fields := []cci.Field{{Type: cci.FieldPayload, Value: []byte("plain")}}
	out := Decrypt(fields, DecryptOptions{})
	if len(out) != 1 || out[0].Type != cci.FieldPayload || string(out[0].Value) != "plain" {
		t.Fatalf("Decrypt without ENCRYPTED field should return input unchanged, got %+v", out)
	}
}

func TestEncrypt_PreservesClearFields(t *testing.T) {
	senderPub, senderPriv, _ := cryptox.GenerateBoxKeypair()
	_ = senderPub
	recipientPub, _, _ := cryptox.GenerateBoxKeypair()

	fields := []cci.Field{
		{Type: cci.FieldPayload, Value: []byte("secret")},
		{Type: cci.FieldUsername, Value: []byte("alice")},
	}
	out, err := Encrypt(fields, EncryptOptions{
		SenderPrivate:   senderPriv,
		RecipientPublic: recipientPub,
		PreserveInClear: []cci.FieldType{cci.FieldUsername},
	})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	var sawUsername bool
	for _, f := range out {
		if f.Type == cci.FieldUsername && string(f.Value) == "alice" {
			sawUsername = true
		}
	}
	if !sawUsername {
		t.Fatalf("USERNAME listed in PreserveInClear should survive Encrypt in the clear")
	}
}
