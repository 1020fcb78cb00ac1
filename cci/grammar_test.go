package cci

import (
	"testing"

	"verity.dev/core/cube"
)

func TestSchemaFor_KnownType(t *testing.T) {
	s, err := SchemaFor(cube.TypeFrozen)
	if err != nil {
		t.Fatalf("SchemaFor(TypeFrozen): %v", err)
	}
	if s.CubeType != cube.TypeFrozen {
		t.Fatalf("CubeType=%v, want %v", s.CubeType, cube.TypeFrozen)
	}
	if s.PayloadCapacity() != s.Layout.PayloadSize() {
		t.Fatalf("PayloadCapacity()=%d, want %d", s.PayloadCapacity(), s.Layout.PayloadSize())
	}
	if s.PayloadCapacity() <= 0 || s.PayloadCapacity() >= cube.Size {
		t.Fatalf("PayloadCapacity()=%d out of range", s.PayloadCapacity())
	}
}

func TestSchemaFor_UnknownType(t *testing.T) {
	_, err := SchemaFor(cube.Type(0xEE))
	if err == nil {
		t.Fatalf("expected UnknownCubeType error")
	}
	if code, ok := cube.CodeOf(err); !ok || code != cube.ErrUnknownCubeType {
		t.Fatalf("got %v, want UnknownCubeType", err)
	}
}

func TestPayloadCapacity_VariesByType(t *testing.T) {
	frozen, _ := SchemaFor(cube.TypeFrozen)
	muc, _ := SchemaFor(cube.TypeMUC)
	if frozen.PayloadCapacity() == muc.PayloadCapacity() {
		// Both schemas reserve different positional space (MUC adds
		// PUBLIC_KEY and SIGNATURE), so their payload capacities must differ.
		t.Fatalf("expected FROZEN and MUC payload capacities to differ")
	}
	if muc.PayloadCapacity() >= frozen.PayloadCapacity() {
		t.Fatalf("MUC reserves more positional space than FROZEN, so its payload capacity must be smaller")
	}
}
