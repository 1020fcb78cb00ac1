package cci

import "verity.dev/core/cube"

// Schema binds a cube type's positional layout to the TLV rules in this
// package. It is the "schema per cube type" spec §4.2 calls for: front/back
// positional sizes come from cube.Layout, fixed-vs-variable field-type rules
// come from this package's shared table.
type Schema struct {
	CubeType cube.Type
	Layout   cube.Layout
}

// SchemaFor returns the Schema for t, or an UnknownCubeType error.
func SchemaFor(t cube.Type) (Schema, error) {
	l, ok := cube.LayoutFor(t)
	if !ok {
		return Schema{}, cube.NewError(cube.ErrUnknownCubeType, "unknown cube type")
	}
	return Schema{CubeType: t, Layout: l}, nil
}

// PayloadCapacity is the number of bytes available to TLV fields for this
// schema, before CCI_END and PADDING are added.
func (s Schema) PayloadCapacity() int {
	return s.Layout.PayloadSize()
}

// InsertAdjacencyPadding applies the same-type adjacency rule (spec §4.2):
// whenever two adjacent fields share the same variable-length type, a
// zero-length PADDING marker is inserted between them so a later Decompile
// will not merge them into one value.
func InsertAdjacencyPadding(fields []Field) []Field {
	if len(fields) < 2 {
		return fields
	}
	out := make([]Field, 0, len(fields)+len(fields)/2)
	for i, f := range fields {
		out = append(out, f)
		if i+1 >= len(fields) {
			continue
		}
		next := fields[i+1]
		if f.Type == next.Type && IsVariable(f.Type) {
			out = append(out, Field{Type: FieldPadding, Value: nil})
		}
	}
	return out
}

// StripPadding removes every PADDING marker from fields, the second pass
// Recombine performs after merging split runs back together.
func StripPadding(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == FieldPadding {
			continue
		}
		out = append(out, f)
	}
	return out
}
