// Package veritum orchestrates Continuation and CubeCodec against a Store
// to compile and retrieve a Veritum: a logical content unit that may span
// one or many chunk Cubes. Grounded on the teacher's node/sync.go
// ApplyBlock-style orchestration (parse -> validate -> index-update
// sequenced end to end in one function), generalized here to
// split/sign/mine -> store and get -> recombine -> decrypt.
package veritum

import (
	"context"
	"crypto/ed25519"
	"log/slog"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/continuation"
	"verity.dev/core/cube"
	"verity.dev/core/store"
)

// Veritum is a logical content unit: an ordered CCI field sequence realized
// as one or more linked chunk Cubes. Its key is its first chunk's key.
type Veritum struct {
	typ    cube.Type
	fields []cci.Field
	chunks []*codec.Cube
}

func (v *Veritum) Type() cube.Type       { return v.typ }
func (v *Veritum) Fields() []cci.Field   { return v.fields }
func (v *Veritum) Chunks() []*codec.Cube { return v.chunks }

// Key is the Veritum's identity: its first chunk's key.
func (v *Veritum) Key() codec.CubeID { return v.chunks[0].Key() }

// CompileOptions carries Continuation's per-chunk compile parameters plus
// an optional Store, consulted only to resolve PMUC auto-increment (spec
// §4.1.2).
type CompileOptions struct {
	Split continuation.SplitOptions
	Store store.CubeStore
}

// Compile builds a Veritum: resolves PMUC auto-increment against Store if
// applicable, then delegates to Continuation.Split (which in turn drives
// CubeCodec.Compile per chunk).
func Compile(ctx context.Context, fields []cci.Field, opts CompileOptions) (*Veritum, error) {
	layout, ok := cube.LayoutFor(opts.Split.CubeType)
	if !ok {
		return nil, cube.NewError(cube.ErrUnknownCubeType, "veritum: unknown cube type")
	}

	if layout.HasPMUCCount && opts.Split.Compile.PMUCUpdateCount == 0 {
		resolvePMUCCount(ctx, &opts)
	}

	chunks, err := continuation.Split(ctx, fields, opts.Split)
	if err != nil {
		return nil, err
	}
	return &Veritum{typ: opts.Split.CubeType, fields: cci.CloneFields(fields), chunks: chunks}, nil
}

// resolvePMUCCount implements spec §4.1.2: a locally sculpted PMUC whose
// count is still the zero-value gets bumped to stored_count+1 when the
// Store already holds a cube at this key. Without a held private key there
// is no way to know the eventual key ahead of compilation, so the count is
// left at 0 and a warning is logged — the cube may then lose its contest,
// which is the documented, accepted consequence.
func resolvePMUCCount(ctx context.Context, opts *CompileOptions) {
	if len(opts.Split.Compile.PrivateKey) != ed25519.PrivateKeySize {
		slog.Default().Warn("veritum: compiling a pmuc without holding its private key; update_count left at 0")
		return
	}
	if opts.Store == nil {
		return
	}
	pub := opts.Split.Compile.PublicKey
	var zero [32]byte
	if pub == zero {
		copy(pub[:], opts.Split.Compile.PrivateKey.Public().(ed25519.PublicKey))
	}
	existing, found, err := opts.Store.Get(ctx, codec.CubeID(pub))
	if err != nil || !found {
		return
	}
	opts.Split.Compile.PMUCUpdateCount = existing.PMUCUpdateCount() + 1
}

// DecompileOptions carries the Store chunks are fetched from and, when the
// Veritum is encrypted, the keys needed to undo it.
type DecompileOptions struct {
	Store   store.CubeStore
	Decrypt *continuation.DecryptOptions
}

// Decompile retrieves a Veritum by its first chunk's key: follows every
// CONTINUED_IN reference through Store in the order the references appear
// (Split may place several in one chunk), recombines the fields, and
// optionally decrypts. The walk carries a visited-key set, the same guard spec
// §9's design notes prescribe for cyclic annotation traversal, ported here
// to a cyclic or self-referential chunk chain.
func Decompile(ctx context.Context, firstKey codec.CubeID, opts DecompileOptions) (*Veritum, error) {
	var chunks []*codec.Cube
	seen := map[codec.CubeID]bool{}
	queue := []codec.CubeID{firstKey}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if seen[key] {
			return nil, cube.NewError(cube.ErrCube, "veritum: cyclic continuation chain")
		}
		seen[key] = true

		c, ok, err := opts.Store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, cube.NewError(cube.ErrCube, "veritum: missing chunk in continuation chain")
		}
		chunks = append(chunks, c)
		queue = append(queue, continuedInKeys(c)...)
	}

	fields := continuation.Recombine(chunks)
	if opts.Decrypt != nil {
		fields = continuation.Decrypt(fields, *opts.Decrypt)
	}
	return &Veritum{typ: chunks[0].Type(), fields: fields, chunks: chunks}, nil
}

func continuedInKeys(c *codec.Cube) []codec.CubeID {
	var keys []codec.CubeID
	for _, f := range c.Fields() {
		if f.Type != cci.FieldRelatesTo {
			continue
		}
		r, err := cci.UnpackRelationship(f.Value)
		if err != nil || r.Type != cci.RelationContinuedIn {
			continue
		}
		keys = append(keys, codec.CubeID(r.RemoteKey))
	}
	return keys
}
