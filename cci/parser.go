package cci

import "verity.dev/core/cube"

// Compile serializes fields in order into the TLV payload region. It never
// emits CCI_END or PADDING — CubeCodec appends those once it knows how much
// of the payload region is left to fill. Compile rejects a field set whose
// serialized length exceeds capacity (spec's FieldSizeError).
func Compile(fields []Field, capacity int) ([]byte, error) {
	out := make([]byte, 0, capacity)
	for _, f := range fields {
		n, err := appendField(out, f)
		if err != nil {
			return nil, err
		}
		out = n
		if len(out) > capacity {
			return nil, cube.NewError(cube.ErrFieldSize, "payload region overflow")
		}
	}
	return out, nil
}

func appendField(out []byte, f Field) ([]byte, error) {
	out = append(out, byte(f.Type))
	if fixed, ok := FixedLength(f.Type); ok {
		if fixed == 0 {
			return out, nil
		}
		if len(f.Value) != fixed {
			return nil, cube.NewError(cube.ErrFieldSize, "field value length disagrees with fixed schema")
		}
		out = append(out, f.Value...)
		return out, nil
	}
	if len(f.Value) > 0x3ff {
		return nil, cube.NewError(cube.ErrFieldSize, "variable field value exceeds 1023 bytes")
	}
	// The length is 10 bits: its top two bits ride in the type byte's low
	// two bits (every field type ID is a multiple of 4), the rest in the
	// length byte.
	out[len(out)-1] |= byte(len(f.Value) >> 8)
	out = append(out, byte(len(f.Value)))
	out = append(out, f.Value...)
	return out, nil
}

// EncodedLen returns the number of bytes f occupies when serialized, without
// actually serializing it — used by Continuation's budget accounting.
func EncodedLen(f Field) int {
	if fixed, ok := FixedLength(f.Type); ok {
		return 1 + fixed
	}
	return 2 + len(f.Value)
}

// Decompile reads a TLV stream out of region. It stops at the first
// CCI_END marker, returning the decoded fields so far, the bytes that
// followed CCI_END (informational padding/remainder, never a field), and
// sawEnd=true. A field set that exactly fills the payload region (no room
// left for a terminator, as Continuation's chunk splitter sometimes
// produces) is also a legal decode: sawEnd is false but err is nil. A
// truncated TLV — a header with no room for its value — is always a
// BinaryDataError.
func Decompile(region []byte) (fields []Field, trailing []byte, sawEnd bool, err error) {
	pos := 0
	for pos < len(region) {
		raw := region[pos]
		t := FieldType(raw &^ 0x03)
		pos++
		if t == FieldCCIEnd {
			return fields, region[pos:], true, nil
		}
		if fixed, ok := FixedLength(t); ok {
			if pos+fixed > len(region) {
				return nil, nil, false, cube.NewError(cube.ErrBinaryData, "truncated fixed-length field")
			}
			v := region[pos : pos+fixed]
			pos += fixed
			fields = append(fields, Field{Type: t, Value: v})
			continue
		}
		if pos >= len(region) {
			return nil, nil, false, cube.NewError(cube.ErrBinaryData, "truncated field length byte")
		}
		length := int(raw&0x03)<<8 | int(region[pos])
		pos++
		if pos+length > len(region) {
			return nil, nil, false, cube.NewError(cube.ErrBinaryData, "truncated variable-length field value")
		}
		v := region[pos : pos+length]
		pos += length
		fields = append(fields, Field{Type: t, Value: v})
	}
	return fields, nil, false, nil
}

// DecompileStrict is Decompile without the sawEnd/trailing detail, for
// callers that only want the field list and are willing to accept either a
// CCI_END-terminated or an exactly-full region as well-formed.
func DecompileStrict(region []byte) ([]Field, []byte, error) {
	fields, trailing, _, err := Decompile(region)
	if err != nil {
		return nil, nil, err
	}
	return fields, trailing, nil
}
