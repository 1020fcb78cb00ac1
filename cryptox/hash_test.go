package cryptox

import "testing"

func TestTrailingZeroBits(t *testing.T) {
	cases := []struct {
		h    [HashSize]byte
		want int
	}{
		{[HashSize]byte{}, HashSize * 8}, // all zero bytes: max trailing zeros
		{func() [HashSize]byte { var h [HashSize]byte; h[HashSize-1] = 0x01; return h }(), 0},
		{func() [HashSize]byte { var h [HashSize]byte; h[HashSize-1] = 0x02; return h }(), 1},
		{func() [HashSize]byte { var h [HashSize]byte; h[HashSize-1] = 0x80; return h }(), 7},
		{func() [HashSize]byte { var h [HashSize]byte; h[HashSize-2] = 0x01; return h }(), 8},
	}
	for i, c := range cases {
		if got := TrailingZeroBits(c.h); got != c.want {
			t.Errorf("case %d: got %d, want %d", i, got, c.want)
		}
	}
}

func TestMeetsDifficulty(t *testing.T) {
	var h [HashSize]byte
	h[HashSize-1] = 0x04 // 2 trailing zero bits
	if !MeetsDifficulty(h, 2) {
		t.Fatalf("expected difficulty 2 to be met")
	}
	if MeetsDifficulty(h, 3) {
		t.Fatalf("did not expect difficulty 3 to be met")
	}
}

func TestCubeHash_Deterministic(t *testing.T) {
	b := []byte("some cube bytes")
	h1 := CubeHash(b)
	h2 := CubeHash(b)
	if h1 != h2 {
		t.Fatalf("CubeHash is not deterministic")
	}
	if h1 == CubeHash([]byte("different bytes")) {
		t.Fatalf("different inputs hashed to the same value")
	}
}
