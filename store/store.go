// Package store implements the CubeStore façade spec §6 describes: put
// (applying CubeContest), get, has, key/notification iteration, and a
// cubeAdded subscription — against either an in-memory map or an on-disk
// bbolt database.
package store

import (
	"context"

	"verity.dev/core/codec"
	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// NotifyOrder selects which secondary index IterNotifications walks.
type NotifyOrder int

const (
	// ByTime orders by DATE ascending, per spec §5's
	// (notify_recipient||timestamp||cube_key) index.
	ByTime NotifyOrder = iota
	// ByDifficulty orders by trailing-zero-bit count ascending, per spec
	// §5's (notify_recipient||difficulty_byte||cube_key) index.
	ByDifficulty
)

// Subscription is the owning handle spec §9's design notes call for in
// place of the source's ad hoc event listeners: dropping it (calling
// Unsubscribe) is the only way to stop receiving cubeAdded events.
type Subscription interface {
	Unsubscribe()
}

// CubeStore is the contract the rest of the core consumes (spec §6); it is
// deliberately synchronous — cooperative suspension happens at the
// context.Context boundary, not via goroutines/channels, matching this
// module's single-threaded-by-default concurrency model (spec §5).
type CubeStore interface {
	// Put applies CubeContest between c and any existing cube at c.Key(),
	// persists the winner, and returns it. Fires cubeAdded exactly when the
	// stored cube actually changed (first write, or a contest the new cube
	// won against a different binary).
	Put(ctx context.Context, c *codec.Cube) (*codec.Cube, error)

	Get(ctx context.Context, key codec.CubeID) (*codec.Cube, bool, error)
	Has(ctx context.Context, key codec.CubeID) (bool, error)

	// IterKeys walks, in byte order, the keys that begin with prefix (every
	// key when prefix is empty), calling visit for each; it stops early if visit returns false. limit
	// <= 0 means unbounded.
	IterKeys(ctx context.Context, prefix []byte, limit int, visit func(codec.CubeID) bool) error

	// IterNotifications walks cubes addressed to recipient via the
	// requested secondary index, calling visit for each in index order.
	IterNotifications(ctx context.Context, recipient [32]byte, by NotifyOrder, limit int, visit func(*codec.Cube) bool) error

	// Subscribe registers fn to be called synchronously, inline with Put,
	// whenever a cube is newly stored or a contest changes the winner.
	Subscribe(fn func(*codec.Cube)) Subscription

	Close() error
}

// difficultyByte returns a clamped 0-255 index value for a cube's
// trailing-zero-bit count — the secondary-index byte spec §5 calls
// "difficulty_byte".
func difficultyByte(hash [32]byte) byte {
	bits := cryptox.TrailingZeroBits(hash)
	if bits > 255 {
		bits = 255
	}
	return byte(bits)
}

// validatePut is a defensive guard shared by both implementations: a nil cube
// or a cube without a compiled key cannot be stored.
func validatePut(c *codec.Cube) error {
	if c == nil {
		return cube.NewError(cube.ErrApiMisuse, "store: put requires a non-nil cube")
	}
	if !c.IsCompiled() {
		return cube.NewError(cube.ErrApiMisuse, "store: put requires a compiled cube")
	}
	return nil
}
