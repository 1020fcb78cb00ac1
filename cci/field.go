package cci

import (
	"verity.dev/core/cube"
)

// Field is a single decoded TLV value: a type tag and its raw bytes. After
// Decompile, Value is a zero-copy slice into the cube's compiled buffer;
// after Compile-time construction it is caller-owned.
type Field struct {
	Type  FieldType
	Value []byte
}

// Relationship is the decoded form of a RELATES_TO field value: a typed
// pointer to another cube's key.
type Relationship struct {
	Type      RelationType
	RemoteKey [32]byte
}

// PackRelationship encodes a Relationship into its 33-byte RELATES_TO value.
func PackRelationship(r Relationship) []byte {
	out := make([]byte, RelationshipSize)
	out[0] = byte(r.Type)
	copy(out[1:], r.RemoteKey[:])
	return out
}

// UnpackRelationship decodes a RELATES_TO field value. It fails if v is not
// exactly RelationshipSize bytes.
func UnpackRelationship(v []byte) (Relationship, error) {
	if len(v) != RelationshipSize {
		return Relationship{}, cube.NewError(cube.ErrBinaryData, "relates_to: wrong length")
	}
	var r Relationship
	r.Type = RelationType(v[0])
	copy(r.RemoteKey[:], v[1:])
	return r, nil
}

// RelatesTo builds a ready-to-use RELATES_TO Field for the given
// relationship.
func RelatesTo(r Relationship) Field {
	return Field{Type: FieldRelatesTo, Value: PackRelationship(r)}
}

// Clone returns a deep copy of f, safe to hold after the source buffer is
// discarded or mutated.
func (f Field) Clone() Field {
	v := make([]byte, len(f.Value))
	copy(v, f.Value)
	return Field{Type: f.Type, Value: v}
}

// CloneFields deep-copies a field slice.
func CloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}
