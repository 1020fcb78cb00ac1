// Package continuation implements Split/Recombine, converting between a
// single logical Veritum field sequence and a linked chain of chunk Cubes
// that each fit in 1024 bytes (spec §4.3).
package continuation

import (
	"context"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/cube"
)

// MinChunkPayload is the minimum remaining space a chunk must have before a
// variable-length field is worth splitting into it; below this, rolling over
// to a fresh chunk wastes less than the TLV overhead of a two-byte sliver.
const MinChunkPayload = 10

// SplitOptions carries the per-chunk compile parameters (every chunk in a
// continuation is compiled independently, so each needs its own
// proof-of-work, date, and — for signed families — its own signature).
type SplitOptions struct {
	CubeType cube.Type
	Compile  codec.CompileOptions

	// MaxChunkSize bounds a chunk's total serialized size (spec §8: "caller
	// supplied maxChunkSize <= 1024"). Zero means the full 1024-byte cube.
	MaxChunkSize int
}

type chunkPlan struct {
	fields []cci.Field
	used   int
}

// excludeDefault drops positional/raw-content concerns and any pre-existing
// CONTINUED_IN relationship — Split always plans its own (spec §4.3 "the
// default exclusion").
func excludeDefault(fields []cci.Field) []cci.Field {
	out := make([]cci.Field, 0, len(fields))
	for _, f := range fields {
		if isContinuedInPlaceholder(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func perCubePayload(typ cube.Type, maxChunkSize int) (int, error) {
	schema, err := cci.SchemaFor(typ)
	if err != nil {
		return 0, err
	}
	capacity := schema.PayloadCapacity()
	if maxChunkSize <= 0 || maxChunkSize >= cube.Size {
		return capacity, nil
	}
	shrunk := capacity - (cube.Size - maxChunkSize)
	if shrunk < MinChunkPayload {
		return 0, cube.NewError(cube.ErrApiMisuse, "split: maxChunkSize too small for this cube type")
	}
	return shrunk, nil
}

func encodedLenSum(fields []cci.Field) int {
	total := 0
	for _, f := range fields {
		total += cci.EncodedLen(f)
	}
	return total
}

func sumUsed(chunks []*chunkPlan) int {
	total := 0
	for _, c := range chunks {
		total += c.used
	}
	return total
}

func isContinuedInPlaceholder(f cci.Field) bool {
	if f.Type != cci.FieldRelatesTo || len(f.Value) != cci.RelationshipSize {
		return false
	}
	r, err := cci.UnpackRelationship(f.Value)
	return err == nil && r.Type == cci.RelationContinuedIn
}

// Split implements spec §4.3's Split: preprocess, budget-account field
// placement across a lazily grown chunk list, then compile every chunk in
// reverse order so each CONTINUED_IN placeholder can be filled with the
// following chunk's real key before that chunk is itself compiled.
//
// The budget-planning step (spec's step 3, growing the chunk list ahead of
// need) and the per-field rollover step (step 4c, advancing which chunk is
// actively being filled) are distinct: curIdx tracks the latter, while
// len(chunks) tracks the former. A placeholder inserted by budget planning
// is just another field handed to the same step-4 placement logic — it may
// land in the chunk that is about to fill up, not the one planning created
// room in.
func Split(ctx context.Context, fields []cci.Field, opts SplitOptions) ([]*codec.Cube, error) {
	budget, err := perCubePayload(opts.CubeType, opts.MaxChunkSize)
	if err != nil {
		return nil, err
	}

	input := cci.InsertAdjacencyPadding(excludeDefault(fields))

	chunks := []*chunkPlan{{}}
	curIdx := 0
	var refChunk []int // index into chunks whose ref field is the CONTINUED_IN placeholder to backfill
	var refField []int // field index within that chunk

	i := 0
	for i < len(input) {
		spaceRemaining := len(chunks)*budget - sumUsed(chunks)
		minBytesRequired := encodedLenSum(input[i:])

		for spaceRemaining < minBytesRequired {
			placeholder := cci.RelatesTo(cci.Relationship{Type: cci.RelationContinuedIn})
			input = append(input[:i], append([]cci.Field{placeholder}, input[i:]...)...)
			chunks = append(chunks, &chunkPlan{})
			spaceRemaining += budget
			minBytesRequired += cci.EncodedLen(placeholder)
		}

		cur := chunks[curIdx]
		f := input[i]
		encLen := cci.EncodedLen(f)
		remainInCur := budget - cur.used

		switch {
		case encLen <= remainInCur:
			if isContinuedInPlaceholder(f) {
				refChunk = append(refChunk, curIdx)
				refField = append(refField, len(cur.fields))
			}
			cur.fields = append(cur.fields, f)
			cur.used += encLen
			i++

		case remainInCur >= MinChunkPayload && cci.IsVariable(f.Type):
			header := 2
			valueRoom := remainInCur - header
			chunk1 := cci.Field{Type: f.Type, Value: f.Value[:valueRoom]}
			chunk2 := cci.Field{Type: f.Type, Value: f.Value[valueRoom:]}
			cur.fields = append(cur.fields, chunk1)
			cur.used += remainInCur
			input[i] = chunk2

		default:
			cur.used = budget // leftover space is wasted, not reclaimed
			curIdx++
			if curIdx == len(chunks) {
				chunks = append(chunks, &chunkPlan{})
			}
		}
	}
	chunks = chunks[:curIdx+1] // drop any over-planned, never-reached trailing chunks

	if len(refChunk) != len(chunks)-1 {
		return nil, cube.NewError(cube.ErrCube, "split: ref/chunk count invariant violated")
	}

	out := make([]*codec.Cube, len(chunks))
	for idx := len(chunks) - 1; idx >= 0; idx-- {
		compiled, err := codec.Compile(ctx, opts.CubeType, chunks[idx].fields, opts.Compile)
		if err != nil {
			return nil, err
		}
		out[idx] = compiled
		if idx > 0 {
			rc, rf := refChunk[idx-1], refField[idx-1]
			chunks[rc].fields[rf] = cci.RelatesTo(cci.Relationship{
				Type:      cci.RelationContinuedIn,
				RemoteKey: compiled.Key(),
			})
		}
	}
	return out, nil
}
