package identity

import (
	"context"
	"log/slog"
	"time"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/continuation"
	"verity.dev/core/cube"
	"verity.dev/core/store"
	"verity.dev/core/veritum"
)

// DefaultRebuildCooloff is the minimum gap enforced between successive root
// MUC rebuilds, replacing the source's ad hoc "no more than once every 5
// seconds" rule with an explicit, named constant.
const DefaultRebuildCooloff = 5 * time.Second

// RootMUC publishes and republishes one identity's root MUC: a PMUC-family
// cube whose payload is fields supplied by FieldSource, signed with the
// identity's root signing subkey and kept in Store.
type RootMUC struct {
	id         Identity
	store      store.CubeStore
	difficulty int
	typ        cube.Type

	// FieldSource returns the current field set to publish. Rebuild calls
	// it fresh each run so late-arriving changes are picked up by whichever
	// run ends up executing.
	FieldSource func() []cci.Field

	rebuilder *Rebuilder
}

// NewRootMUC builds a RootMUC that rebuilds through st at the given
// proof-of-work difficulty, using typ (ordinarily cube.TypePMUC, so the
// auto-increment update_count in spec §4.1.2 applies). fieldSource is
// called on every rebuild to get the fields to publish.
func NewRootMUC(id Identity, st store.CubeStore, difficulty int, typ cube.Type, fieldSource func() []cci.Field, log *slog.Logger) *RootMUC {
	r := &RootMUC{id: id, store: st, difficulty: difficulty, typ: typ, FieldSource: fieldSource}
	r.rebuilder = NewRebuilder(r.rebuild, DefaultRebuildCooloff, log)
	return r
}

// Trigger requests a rebuild, coalescing with any already in flight or
// pending (see Rebuilder).
func (r *RootMUC) Trigger(ctx context.Context) {
	r.rebuilder.Trigger(ctx)
}

func (r *RootMUC) rebuild(ctx context.Context) error {
	_, priv, err := r.id.RootMUCKeypair()
	if err != nil {
		return err
	}

	fields := r.FieldSource()
	v, err := veritum.Compile(ctx, fields, veritum.CompileOptions{
		Store: r.store,
		Split: continuation.SplitOptions{
			CubeType: r.typ,
			Compile: codec.CompileOptions{
				Difficulty: r.difficulty,
				PrivateKey: priv,
				Date:       uint64(time.Now().Unix()),
			},
		},
	})
	if err != nil {
		return err
	}

	for _, chunk := range v.Chunks() {
		if _, err := r.store.Put(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}
