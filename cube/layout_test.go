package cube

import "testing"

func TestLayoutFor_Unknown(t *testing.T) {
	if _, ok := LayoutFor(Type(0xEE)); ok {
		t.Fatalf("expected unknown type to fail lookup")
	}
}

func TestLayout_FrontBackPayloadSizes(t *testing.T) {
	cases := []struct {
		typ        Type
		wantFront  int
		wantBack   int
		wantLoad   int
	}{
		{TypeFrozen, 1, 5 + 4, Size - 1 - 9},
		{TypeFrozenNotify, 1 + 32, 5 + 4, Size - 33 - 9},
		{TypePIC, 1, 9, Size - 1 - 9},
		{TypeMUC, 1 + 32, 64 + 5 + 4, Size - 33 - 73},
		{TypePMUC, 1 + 4 + 32, 64 + 5 + 4, Size - 37 - 73},
		{TypePMUCNotify, 1 + 32 + 4 + 32, 64 + 5 + 4, Size - 69 - 73},
	}
	for _, c := range cases {
		l, ok := LayoutFor(c.typ)
		if !ok {
			t.Fatalf("%v: layout not found", c.typ)
		}
		if got := l.FrontSize(); got != c.wantFront {
			t.Errorf("%v: FrontSize=%d, want %d", c.typ, got, c.wantFront)
		}
		if got := l.BackSize(); got != c.wantBack {
			t.Errorf("%v: BackSize=%d, want %d", c.typ, got, c.wantBack)
		}
		if got := l.PayloadSize(); got != c.wantLoad {
			t.Errorf("%v: PayloadSize=%d, want %d", c.typ, got, c.wantLoad)
		}
		if l.FrontSize()+l.BackSize()+l.PayloadSize() != Size {
			t.Errorf("%v: front+back+payload != %d", c.typ, Size)
		}
	}
}

func TestType_String(t *testing.T) {
	if TypeMUC.String() != "MUC" {
		t.Fatalf("got %q", TypeMUC.String())
	}
	if Type(0xEE).String() != "UNKNOWN" {
		t.Fatalf("got %q", Type(0xEE).String())
	}
}
