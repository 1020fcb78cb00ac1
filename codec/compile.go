package codec

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"

	"verity.dev/core/cci"
	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// CompileOptions carries everything Compile needs beyond the field list
// itself: positional values, signing material, and the proof-of-work floor.
type CompileOptions struct {
	Difficulty int

	Notify    [cube.NotifySize]byte
	HasNotify bool

	// PMUCUpdateCount is used verbatim; auto-increment against a Store
	// happens one layer up, in package veritum (spec §4.1.2).
	PMUCUpdateCount uint32

	PublicKey  [32]byte
	PrivateKey ed25519.PrivateKey

	Date uint64

	// RawContent, when set, compiles a bare-core (non-CCI) cube whose
	// entire payload region is this opaque byte run. Mutually exclusive
	// with passing fields to Compile.
	RawContent []byte
}

// Compile assembles, pads, signs, and mines fields into a 1024-byte Cube of
// the given type, per spec §4.1's six-step Compile algorithm.
func Compile(ctx context.Context, typ cube.Type, fields []cci.Field, opts CompileOptions) (*Cube, error) {
	layout, buf, _, resign, err := prepareCompile(typ, fields, opts)
	if err != nil {
		return nil, err
	}

	hash, _, err := searchNonce(ctx, buf, opts.Difficulty, resign)
	if err != nil {
		return nil, err
	}

	return finishCompile(typ, layout, fields, opts, buf, hash), nil
}

// CompileParallel is the opt-in fan-out variant of Compile (spec §5: parallel
// PoW offload is permitted but never required). It assembles and signs the
// same positional buffer as Compile, then hands the nonce search to n worker
// goroutines, each scanning a distinct residue class of the nonce space on
// its own buffer copy so workers never race on shared memory; the first
// worker to meet the difficulty target wins and the rest are cancelled.
// n <= 1 degrades to the sequential search.
func CompileParallel(ctx context.Context, n int, typ cube.Type, fields []cci.Field, opts CompileOptions) (*Cube, error) {
	if n <= 1 {
		return Compile(ctx, typ, fields, opts)
	}

	layout, buf, _, resign, err := prepareCompile(typ, fields, opts)
	if err != nil {
		return nil, err
	}

	winner, hash, err := searchNonceParallel(ctx, buf, opts.Difficulty, resign, n)
	if err != nil {
		return nil, err
	}

	return finishCompile(typ, layout, fields, opts, winner, hash), nil
}

// prepareCompile validates the field set against typ's schema, lays out and
// pads the payload region, writes every positional field into a fresh
// 1024-byte buffer, and — for signed types — produces the first signature
// and a resign closure later nonce attempts call after each rewrite (a
// signed cube's PoW predicate covers the SIGNATURE bytes, so the signature
// must be current before each hash attempt; spec §4.1.1).
func prepareCompile(typ cube.Type, fields []cci.Field, opts CompileOptions) (cube.Layout, []byte, int, func([]byte) error, error) {
	schema, err := cci.SchemaFor(typ)
	if err != nil {
		return cube.Layout{}, nil, 0, nil, err
	}
	layout := schema.Layout

	if layout.HasPublicKey {
		if len(opts.PrivateKey) != ed25519.PrivateKeySize {
			return cube.Layout{}, nil, 0, nil, cube.NewError(cube.ErrApiMisuse, "compile: signed cube type requires a private key")
		}
		derived := opts.PrivateKey.Public().(ed25519.PublicKey)
		var zero [32]byte
		if opts.PublicKey == zero {
			copy(opts.PublicKey[:], derived)
		} else if string(derived) != string(opts.PublicKey[:]) {
			return cube.Layout{}, nil, 0, nil, cube.NewError(cube.ErrApiMisuse, "compile: public_key does not match private_key")
		}
	}

	capacity := schema.PayloadCapacity()

	var payload []byte
	if opts.RawContent != nil {
		if fields != nil {
			return cube.Layout{}, nil, 0, nil, cube.NewError(cube.ErrApiMisuse, "compile: RawContent and fields are mutually exclusive")
		}
		if len(opts.RawContent) > capacity {
			return cube.Layout{}, nil, 0, nil, cube.NewError(cube.ErrFieldSize, "raw content exceeds payload region")
		}
		payload = make([]byte, capacity)
		copy(payload, opts.RawContent)
	} else {
		// The field set is allowed to fill the payload region exactly, with
		// no room left for CCI_END: spec §8 scenario 4 builds a chunk whose
		// RELATES_TO+PAYLOAD sum to precisely PayloadSize, and cci.Decompile
		// already treats an exactly-full region as a legal decode. CCI_END
		// is only inserted when strictly less than capacity is used.
		body, err := cci.Compile(fields, capacity)
		if err != nil {
			return cube.Layout{}, nil, 0, nil, err
		}
		payload = make([]byte, capacity)
		copy(payload, body)
		if len(body) < capacity {
			payload[len(body)] = byte(cci.FieldCCIEnd)
			if _, err := rand.Read(payload[len(body)+1:]); err != nil {
				return cube.Layout{}, nil, 0, nil, cube.NewError(cube.ErrCrypto, "padding: "+err.Error())
			}
		}
	}

	buf := make([]byte, cube.Size)
	cur := cube.NewCursor(buf)
	if err := cur.WriteExact([]byte{byte(typ)}); err != nil {
		return cube.Layout{}, nil, 0, nil, err
	}
	if layout.HasNotify {
		if err := cur.WriteExact(opts.Notify[:]); err != nil {
			return cube.Layout{}, nil, 0, nil, err
		}
	}
	if layout.HasPMUCCount {
		if err := cur.WriteU32BE(opts.PMUCUpdateCount); err != nil {
			return cube.Layout{}, nil, 0, nil, err
		}
	}
	if layout.HasPublicKey {
		if err := cur.WriteExact(opts.PublicKey[:]); err != nil {
			return cube.Layout{}, nil, 0, nil, err
		}
	}
	if err := cur.WriteExact(payload); err != nil {
		return cube.Layout{}, nil, 0, nil, err
	}

	sigOffset := cur.Pos()
	if layout.Signed {
		if err := cur.Skip(cube.SignatureSize); err != nil { // reserve the SIGNATURE slot; resign fills it below
			return cube.Layout{}, nil, 0, nil, err
		}
	}
	if err := cur.WriteU40BE(opts.Date); err != nil {
		return cube.Layout{}, nil, 0, nil, err
	}

	var resign func([]byte) error
	if layout.Signed {
		resign = func(b []byte) error {
			sig, err := cryptox.Sign(opts.PrivateKey, b[:sigOffset])
			if err != nil {
				return err
			}
			copy(b[sigOffset:sigOffset+cube.SignatureSize], sig)
			return nil
		}
		if err := resign(buf); err != nil {
			return cube.Layout{}, nil, 0, nil, err
		}
	}

	return layout, buf, sigOffset, resign, nil
}

// finishCompile wraps a mined-and-signed buffer into the Compiled-state
// Cube view shared by Compile and CompileParallel.
func finishCompile(typ cube.Type, layout cube.Layout, fields []cci.Field, opts CompileOptions, buf []byte, hash [32]byte) *Cube {
	c := &Cube{
		state:      stateCompiled,
		typ:        typ,
		fields:     cci.CloneFields(fields),
		isCCI:      opts.RawContent == nil,
		rawContent: append([]byte(nil), opts.RawContent...),
		notify:     opts.Notify,
		hasNotify:  layout.HasNotify,
		pmucCount:  opts.PMUCUpdateCount,
		publicKey:  opts.PublicKey,
		hasPubKey:  layout.HasPublicKey,
		privateKey: opts.PrivateKey,
		date:       opts.Date,
		binary:     buf,
		hash:       hash,
	}
	if layout.KeyedByPubkey {
		c.key = CubeID(opts.PublicKey)
	} else {
		c.key = CubeID(hash)
	}
	return c
}
