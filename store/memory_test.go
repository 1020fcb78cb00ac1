package store

import (
	"context"
	"testing"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

func compileFrozen(t *testing.T, date uint64, notify *[32]byte, payload string) *codec.Cube {
	t.Helper()
	opts := codec.CompileOptions{Date: date}
	typ := cube.TypeFrozen
	if notify != nil {
		opts.HasNotify = true
		opts.Notify = *notify
		typ = cube.TypeFrozenNotify
	}
	c, err := codec.Compile(context.Background(), typ, []cci.Field{
		{Type: cci.FieldPayload, Value: []byte(payload)},
	}, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return c
}

func TestMemory_PutGetHas(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	c := compileFrozen(t, 1, nil, "hello")

	winner, err := m.Put(ctx, c)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if winner.Key() != c.Key() {
		t.Fatalf("winner key mismatch")
	}

	got, ok, err := m.Get(ctx, c.Key())
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Key() != c.Key() {
		t.Fatalf("got wrong cube back")
	}

	has, err := m.Has(ctx, c.Key())
	if err != nil || !has {
		t.Fatalf("Has: %v, %v", has, err)
	}

	var missing codec.CubeID
	missing[0] = 0xFF
	if has, _ := m.Has(ctx, missing); has {
		t.Fatalf("Has reported true for a key never stored")
	}
}

func TestMemory_PutAppliesCubeContest(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	rawPub, priv, err := cryptox.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	var pub [32]byte
	copy(pub[:], rawPub)

	older, err := codec.Compile(ctx, cube.TypeMUC, []cci.Field{{Type: cci.FieldUsername, Value: []byte("v1")}}, codec.CompileOptions{
		PublicKey: pub, PrivateKey: priv, Date: 100,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	newer, err := codec.Compile(ctx, cube.TypeMUC, []cci.Field{{Type: cci.FieldUsername, Value: []byte("v2")}}, codec.CompileOptions{
		PublicKey: pub, PrivateKey: priv, Date: 200,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := m.Put(ctx, older); err != nil {
		t.Fatalf("Put older: %v", err)
	}
	winner, err := m.Put(ctx, newer)
	if err != nil {
		t.Fatalf("Put newer: %v", err)
	}
	if winner.Date() != 200 {
		t.Fatalf("expected newer DATE to win the contest, got date=%d", winner.Date())
	}

	got, _, _ := m.Get(ctx, codec.CubeID(pub))
	if got.Date() != 200 {
		t.Fatalf("stored cube should be the contest winner")
	}
}

func TestMemory_SubscribeFiresOnNewCube(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var fired int
	sub := m.Subscribe(func(c *codec.Cube) { fired++ })

	c := compileFrozen(t, 1, nil, "a")
	if _, err := m.Put(ctx, c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected subscriber to fire once, fired=%d", fired)
	}

	// Re-putting the identical cube at the same key should not re-fire:
	// the winner is unchanged.
	if _, err := m.Put(ctx, c); err != nil {
		t.Fatalf("Put (again): %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected no additional fire on an unchanged winner, fired=%d", fired)
	}

	sub.Unsubscribe()
	c2 := compileFrozen(t, 2, nil, "b")
	if _, err := m.Put(ctx, c2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected no fire after Unsubscribe, fired=%d", fired)
	}
}

func TestMemory_IterKeysOrderAndLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		c := compileFrozen(t, uint64(i+1), nil, string(rune('a'+i)))
		if _, err := m.Put(ctx, c); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	var keys []codec.CubeID
	if err := m.IterKeys(ctx, nil, 3, func(k codec.CubeID) bool {
		keys = append(keys, k)
		return true
	}); err != nil {
		t.Fatalf("IterKeys: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3 (limit respected)", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if string(keys[i-1].Bytes()) > string(keys[i].Bytes()) {
			t.Fatalf("keys not returned in byte order")
		}
	}
}

func TestMemory_IterNotificationsByRecipient(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var alice, bob [32]byte
	alice[0] = 0xA1
	bob[0] = 0xB0

	a1 := compileFrozen(t, 10, &alice, "a1")
	a2 := compileFrozen(t, 20, &alice, "a2")
	b1 := compileFrozen(t, 15, &bob, "b1")
	for _, c := range []*codec.Cube{a1, a2, b1} {
		if _, err := m.Put(ctx, c); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	var gotDates []uint64
	if err := m.IterNotifications(ctx, alice, ByTime, 0, func(c *codec.Cube) bool {
		gotDates = append(gotDates, c.Date())
		return true
	}); err != nil {
		t.Fatalf("IterNotifications: %v", err)
	}
	if len(gotDates) != 2 {
		t.Fatalf("got %d notifications for alice, want 2", len(gotDates))
	}
	if gotDates[0] != 10 || gotDates[1] != 20 {
		t.Fatalf("notifications not in time order: %v", gotDates)
	}
}

func TestMemory_PutRejectsUncompiledOrNilCube(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.Put(ctx, nil); err == nil {
		t.Fatalf("expected ApiMisuseError on nil cube")
	}
	uncompiled := &codec.Cube{}
	if _, err := m.Put(ctx, uncompiled); err == nil {
		t.Fatalf("expected ApiMisuseError on uncompiled cube")
	}
}
