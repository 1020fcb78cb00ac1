package cube

import "testing"

func TestCursor_ReadWriteRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	w := NewCursor(buf)
	if err := w.WriteExact([]byte{0x07}); err != nil {
		t.Fatalf("WriteExact: %v", err)
	}
	if err := w.WriteU32BE(0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32BE: %v", err)
	}
	if err := w.WriteU40BE(1700000000); err != nil {
		t.Fatalf("WriteU40BE: %v", err)
	}
	if err := w.Skip(4); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if w.Pos() != 14 {
		t.Fatalf("Pos=%d, want 14", w.Pos())
	}

	r := NewCursor(buf)
	b, err := r.ReadU8()
	if err != nil || b != 0x07 {
		t.Fatalf("ReadU8 = %d, %v", b, err)
	}
	u32, err := r.ReadU32BE()
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("ReadU32BE = %x, %v", u32, err)
	}
	u40, err := r.ReadU40BE()
	if err != nil || u40 != 1700000000 {
		t.Fatalf("ReadU40BE = %d, %v", u40, err)
	}
}

func TestCursor_ReadExactTruncated(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	if _, err := c.ReadExact(3); err == nil {
		t.Fatalf("expected truncated read to fail")
	}
	if c.Pos() != 0 {
		t.Fatalf("failed read must not advance the cursor, got pos=%d", c.Pos())
	}
}

func TestCursor_WriteExactOverrun(t *testing.T) {
	c := NewCursor(make([]byte, 2))
	if err := c.WriteExact([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected overrunning write to fail")
	}
	if c.Pos() != 0 {
		t.Fatalf("failed write must not advance the cursor, got pos=%d", c.Pos())
	}
}

func TestPutU32BE_PutU40BE(t *testing.T) {
	var b4 [4]byte
	PutU32BE(b4[:], 1)
	if b4 != [4]byte{0, 0, 0, 1} {
		t.Fatalf("PutU32BE = %v", b4)
	}
	var b5 [5]byte
	PutU40BE(b5[:], 1)
	if b5 != [5]byte{0, 0, 0, 0, 1} {
		t.Fatalf("PutU40BE = %v", b5)
	}
}
