package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"sort"
	"sync"

	"verity.dev/core/codec"
)

// Memory is an in-process CubeStore: a map for primary storage plus two
// sorted-slice secondary indices for notification retrieval. It backs the
// test suite; the CLI always opens a Bolt store and has no in-memory mode.
type Memory struct {
	mu sync.Mutex

	cubes map[codec.CubeID]*codec.Cube

	byTime       []indexEntry
	byDifficulty []indexEntry

	subs   map[int]func(*codec.Cube)
	nextID int
}

type indexEntry struct {
	indexKey []byte
	cubeKey  codec.CubeID
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		cubes: make(map[codec.CubeID]*codec.Cube),
		subs:  make(map[int]func(*codec.Cube)),
	}
}

func (m *Memory) Put(_ context.Context, c *codec.Cube) (*codec.Cube, error) {
	if err := validatePut(c); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := c.Key()
	existing, had := m.cubes[key]
	winner := codec.Winner(existing, c)
	changed := !had || winner != existing
	m.cubes[key] = winner
	if changed {
		m.indexNotification(winner)
		for _, fn := range m.subs {
			fn(winner)
		}
	}
	return winner, nil
}

func (m *Memory) indexNotification(c *codec.Cube) {
	recipient, ok := c.Notify()
	if !ok {
		return
	}
	var timeKey [8]byte
	binary.BigEndian.PutUint64(timeKey[:], c.Date())
	tk := append(append([]byte(nil), recipient[:]...), timeKey[:]...)
	tk = append(tk, c.Key().Bytes()...)
	m.byTime = insertSorted(m.byTime, indexEntry{indexKey: tk, cubeKey: c.Key()})

	dk := append(append([]byte(nil), recipient[:]...), difficultyByte(c.Hash()))
	dk = append(dk, c.Key().Bytes()...)
	m.byDifficulty = insertSorted(m.byDifficulty, indexEntry{indexKey: dk, cubeKey: c.Key()})
}

func insertSorted(s []indexEntry, e indexEntry) []indexEntry {
	i := sort.Search(len(s), func(i int) bool { return bytes.Compare(s[i].indexKey, e.indexKey) >= 0 })
	if i < len(s) && bytes.Equal(s[i].indexKey, e.indexKey) {
		s[i] = e
		return s
	}
	s = append(s, indexEntry{})
	copy(s[i+1:], s[i:])
	s[i] = e
	return s
}

func (m *Memory) Get(_ context.Context, key codec.CubeID) (*codec.Cube, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cubes[key]
	return c, ok, nil
}

func (m *Memory) Has(_ context.Context, key codec.CubeID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cubes[key]
	return ok, nil
}

func (m *Memory) IterKeys(_ context.Context, prefix []byte, limit int, visit func(codec.CubeID) bool) error {
	m.mu.Lock()
	keys := make([]codec.CubeID, 0, len(m.cubes))
	for k := range m.cubes {
		keys = append(keys, k)
	}
	m.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0 })
	n := 0
	for _, k := range keys {
		if len(prefix) > 0 && !bytes.HasPrefix(k.Bytes(), prefix) {
			continue
		}
		if !visit(k) {
			return nil
		}
		n++
		if limit > 0 && n >= limit {
			return nil
		}
	}
	return nil
}

func (m *Memory) IterNotifications(_ context.Context, recipient [32]byte, by NotifyOrder, limit int, visit func(*codec.Cube) bool) error {
	m.mu.Lock()
	var src []indexEntry
	if by == ByDifficulty {
		src = append([]indexEntry(nil), m.byDifficulty...)
	} else {
		src = append([]indexEntry(nil), m.byTime...)
	}
	cubes := m.cubes
	m.mu.Unlock()

	n := 0
	for _, e := range src {
		if !bytes.HasPrefix(e.indexKey, recipient[:]) {
			continue
		}
		c, ok := cubes[e.cubeKey]
		if !ok {
			continue
		}
		if !visit(c) {
			return nil
		}
		n++
		if limit > 0 && n >= limit {
			return nil
		}
	}
	return nil
}

func (m *Memory) Subscribe(fn func(*codec.Cube)) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return &memSub{store: m, id: id}
}

type memSub struct {
	store *Memory
	id    int
}

func (s *memSub) Unsubscribe() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.subs, s.id)
}

func (m *Memory) Close() error { return nil }
