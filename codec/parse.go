package codec

import (
	"crypto/ed25519"

	"verity.dev/core/cci"
	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// Parse decompiles and validates a received 1024-byte Cube, per spec §4.1's
// five-step Parse algorithm. The result is read-only (state Parsed); callers
// that want to modify it must go through Mutate.
//
// Parse always decodes the payload region as CCI TLVs. A cube compiled with
// CompileOptions.RawContent (bare-core, non-CCI) does not round-trip through
// Parse: the wire format carries no core-vs-CCI discriminator bit (spec §3
// treats family selection as a construction-time choice, not an on-wire
// flag), so nothing at Parse time can tell the two apart. Verity's CCI layer
// is this implementation's only consumer of RawContent-free cubes; bare-core
// round-tripping would need an explicit family tag and is out of scope here.
func Parse(b []byte, difficulty int) (*Cube, error) {
	if len(b) != cube.Size {
		return nil, cube.NewError(cube.ErrBinaryLength, "cube must be exactly 1024 bytes")
	}
	typ := cube.Type(b[0])
	layout, ok := cube.LayoutFor(typ)
	if !ok {
		return nil, cube.NewError(cube.ErrUnknownCubeType, "unknown cube type")
	}

	cur := cube.NewCursor(b)
	if _, err := cur.ReadExact(cube.TypeSize); err != nil {
		return nil, err
	}
	var notify [cube.NotifySize]byte
	if layout.HasNotify {
		nb, err := cur.ReadExact(cube.NotifySize)
		if err != nil {
			return nil, err
		}
		copy(notify[:], nb)
	}
	var pmucCount uint32
	if layout.HasPMUCCount {
		v, err := cur.ReadU32BE()
		if err != nil {
			return nil, err
		}
		pmucCount = v
	}
	var pubKey [32]byte
	if layout.HasPublicKey {
		pb, err := cur.ReadExact(cube.PublicKeySize)
		if err != nil {
			return nil, err
		}
		copy(pubKey[:], pb)
	}

	capacity := layout.PayloadSize()
	payload, err := cur.ReadExact(capacity)
	if err != nil {
		return nil, err
	}

	sigOffset := cur.Pos()
	var sig []byte
	if layout.Signed {
		sig, err = cur.ReadExact(cube.SignatureSize)
		if err != nil {
			return nil, err
		}
	}
	date, err := cur.ReadU40BE()
	if err != nil {
		return nil, err
	}
	if _, err := cur.ReadExact(cube.NonceSize); err != nil { // NONCE itself carries no semantic value once parsed
		return nil, err
	}

	if cur.Pos() != cube.Size {
		return nil, cube.NewError(cube.ErrBinaryData, "positional layout did not consume exactly 1024 bytes")
	}

	hash := cryptox.CubeHash(b)
	if !cryptox.MeetsDifficulty(hash, difficulty) {
		return nil, cube.NewError(cube.ErrInsufficientPow, "proof-of-work below required difficulty")
	}

	if layout.Signed {
		if err := cryptox.Verify(ed25519.PublicKey(pubKey[:]), b[:sigOffset], sig); err != nil {
			return nil, err
		}
	}

	fields, _, err := cci.DecompileStrict(payload)
	if err != nil {
		return nil, err
	}

	c := &Cube{
		state:     stateParsed,
		typ:       typ,
		fields:    fields,
		isCCI:     true,
		notify:    notify,
		hasNotify: layout.HasNotify,
		pmucCount: pmucCount,
		publicKey: pubKey,
		hasPubKey: layout.HasPublicKey,
		date:      date,
		binary:    b,
		hash:      hash,
	}
	if layout.KeyedByPubkey {
		c.key = CubeID(pubKey)
	} else {
		c.key = CubeID(hash)
	}
	return c, nil
}
