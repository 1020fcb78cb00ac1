package continuation

import (
	"verity.dev/core/cci"
	"verity.dev/core/codec"
)

// Recombine implements spec §4.3's Recombine: walk the chunks in order,
// dropping CONTINUED_IN relationships, re-joining adjacent same-type
// variable-length runs that Split produced by slicing a single field across
// a chunk boundary, then stripping the PADDING markers that were only ever
// needed to keep same-type fields from merging when they were NOT supposed
// to be rejoined.
func Recombine(chunks []*codec.Cube) []cci.Field {
	var out []cci.Field
	for _, c := range chunks {
		for _, f := range c.Fields() {
			if isContinuedInPlaceholder(f) {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Type == f.Type && f.Type != cci.FieldPadding && cci.IsVariable(f.Type) {
				out[n-1] = cci.Field{Type: f.Type, Value: append(append([]byte(nil), out[n-1].Value...), f.Value...)}
				continue
			}
			out = append(out, f.Clone())
		}
	}
	return cci.StripPadding(out)
}
