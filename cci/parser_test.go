package cci

import (
	"bytes"
	"testing"
)

func TestCompileDecompile_RoundTrip(t *testing.T) {
	fields := []Field{
		{Type: FieldPayload, Value: []byte("hello")},
		{Type: FieldUsername, Value: []byte("Alice")},
		{Type: FieldMediaType, Value: []byte{byte(MediaTypeText)}},
	}
	region, err := Compile(fields, 1024)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	region = append(region, byte(FieldCCIEnd))

	got, trailing, sawEnd, err := Decompile(region)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	if !sawEnd {
		t.Fatalf("expected sawEnd")
	}
	if len(trailing) != 0 {
		t.Fatalf("unexpected trailing bytes: %v", trailing)
	}
	if len(got) != len(fields) {
		t.Fatalf("got %d fields, want %d", len(got), len(fields))
	}
	for i, f := range got {
		if f.Type != fields[i].Type || !bytes.Equal(f.Value, fields[i].Value) {
			t.Errorf("field %d = %+v, want %+v", i, f, fields[i])
		}
	}
}

func TestDecompile_ExactlyFullRegionNoEnd(t *testing.T) {
	// A region that exactly fills to capacity with no room for CCI_END is
	// still a legal decode (spec §8 scenario 4): sawEnd is false, err is nil.
	fields := []Field{{Type: FieldPayload, Value: bytes.Repeat([]byte("x"), 10)}}
	region, err := Compile(fields, 12)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(region) != 12 {
		t.Fatalf("len(region)=%d, want 12", len(region))
	}
	got, trailing, sawEnd, err := Decompile(region)
	if err != nil {
		t.Fatalf("unexpected error on exactly-full region: %v", err)
	}
	if sawEnd {
		t.Fatalf("did not expect sawEnd on exactly-full region")
	}
	if trailing != nil {
		t.Fatalf("expected nil trailing, got %v", trailing)
	}
	if len(got) != 1 || !bytes.Equal(got[0].Value, fields[0].Value) {
		t.Fatalf("got %+v", got)
	}
}

func TestDecompile_TruncatedVariableLength(t *testing.T) {
	region := []byte{byte(FieldPayload), 5, 'h', 'i'} // length=5 but only 2 bytes follow
	if _, _, _, err := Decompile(region); err == nil {
		t.Fatalf("expected BinaryDataError on truncated field")
	}
}

func TestDecompile_TruncatedFixedLength(t *testing.T) {
	region := []byte{byte(FieldRelatesTo), 0x01, 0x02} // RELATES_TO needs 33 bytes
	if _, _, _, err := Decompile(region); err == nil {
		t.Fatalf("expected BinaryDataError on truncated fixed field")
	}
}

func TestDecompile_TruncatedLengthByte(t *testing.T) {
	region := []byte{byte(FieldPayload)} // variable field with no length byte
	if _, _, _, err := Decompile(region); err == nil {
		t.Fatalf("expected BinaryDataError on missing length byte")
	}
}

func TestCompile_FixedLengthMismatch(t *testing.T) {
	fields := []Field{{Type: FieldMediaType, Value: []byte{1, 2}}}
	if _, err := Compile(fields, 1024); err == nil {
		t.Fatalf("expected FieldSizeError on fixed-length mismatch")
	}
}

func TestCompile_OverflowsCapacity(t *testing.T) {
	fields := []Field{{Type: FieldPayload, Value: bytes.Repeat([]byte("x"), 100)}}
	if _, err := Compile(fields, 10); err == nil {
		t.Fatalf("expected FieldSizeError when payload exceeds capacity")
	}
}

func TestEncodedLen(t *testing.T) {
	if got := EncodedLen(Field{Type: FieldRelatesTo, Value: make([]byte, RelationshipSize)}); got != 1+RelationshipSize {
		t.Errorf("fixed field EncodedLen=%d, want %d", got, 1+RelationshipSize)
	}
	if got := EncodedLen(Field{Type: FieldPayload, Value: []byte("hi")}); got != 2+2 {
		t.Errorf("variable field EncodedLen=%d, want %d", got, 4)
	}
}

func TestInsertAdjacencyPadding(t *testing.T) {
	fields := []Field{
		{Type: FieldPayload, Value: []byte("a")},
		{Type: FieldPayload, Value: []byte("b")},
		{Type: FieldUsername, Value: []byte("bob")},
	}
	out := InsertAdjacencyPadding(fields)
	if len(out) != 4 {
		t.Fatalf("got %d fields, want 4 (one PADDING inserted)", len(out))
	}
	if out[1].Type != FieldPadding {
		t.Fatalf("expected PADDING at index 1, got %+v", out[1])
	}
}

func TestInsertAdjacencyPadding_NoPaddingWhenDifferentTypes(t *testing.T) {
	fields := []Field{
		{Type: FieldPayload, Value: []byte("a")},
		{Type: FieldUsername, Value: []byte("b")},
	}
	out := InsertAdjacencyPadding(fields)
	if len(out) != 2 {
		t.Fatalf("got %d fields, want 2 (no padding needed)", len(out))
	}
}

func TestStripPadding(t *testing.T) {
	fields := []Field{
		{Type: FieldPayload, Value: []byte("a")},
		{Type: FieldPadding},
		{Type: FieldUsername, Value: []byte("b")},
	}
	out := StripPadding(fields)
	if len(out) != 2 {
		t.Fatalf("got %d fields, want 2", len(out))
	}
	for _, f := range out {
		if f.Type == FieldPadding {
			t.Fatalf("padding survived strip")
		}
	}
}

func TestIsCustom(t *testing.T) {
	if !IsCustom(FieldCustom1) {
		t.Fatalf("CUSTOM1 should be custom")
	}
	if !IsCustom(FieldCustom1 + 15*CustomFieldStep) {
		t.Fatalf("CUSTOM16 should be custom")
	}
	if IsCustom(FieldCustom1 + 15*CustomFieldStep + 1) {
		t.Fatalf("one past CUSTOM16 should not be custom")
	}
	if IsCustom(FieldPayload) {
		t.Fatalf("PAYLOAD should not be custom")
	}
}

func TestFixedLength_IsVariable(t *testing.T) {
	if n, ok := FixedLength(FieldRelatesTo); !ok || n != RelationshipSize {
		t.Fatalf("RELATES_TO fixed length = %d,%v", n, ok)
	}
	if !IsVariable(FieldPayload) {
		t.Fatalf("PAYLOAD should be variable")
	}
	if IsVariable(FieldMediaType) {
		t.Fatalf("MEDIA_TYPE should be fixed")
	}
}
