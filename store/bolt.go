package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"verity.dev/core/codec"
)

var (
	bucketCubes              = []byte("cubes_by_key")
	bucketNotifyByTime       = []byte("notify_by_time")
	bucketNotifyByDifficulty = []byte("notify_by_difficulty")
)

// Bolt is a CubeStore backed by a single bbolt database file, grounded on
// the same bucket-per-concern and atomic-manifest layout used for the
// node's chain state.
type Bolt struct {
	mu sync.Mutex

	dir      string
	db       *bolt.DB
	manifest *Manifest
	difficulty int

	subs   map[int]func(*codec.Cube)
	nextID int
}

// OpenBolt opens (creating if absent) a bbolt-backed store under datadir.
// difficulty is the proof-of-work floor codec.Parse enforces when Get
// re-decodes stored bytes.
func OpenBolt(datadir string, difficulty int) (*Bolt, error) {
	if datadir == "" {
		return nil, fmt.Errorf("store: datadir required")
	}
	if err := ensureDir(datadir); err != nil {
		return nil, err
	}

	path := filepath.Join(datadir, "cubes.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	s := &Bolt{dir: datadir, db: bdb, difficulty: difficulty, subs: make(map[int]func(*codec.Cube))}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketCubes, bucketNotifyByTime, bucketNotifyByDifficulty} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("store: create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	m, err := readManifest(datadir)
	if err != nil {
		if os.IsNotExist(err) {
			m = &Manifest{SchemaVersion: SchemaVersionV1}
			if werr := writeManifestAtomic(datadir, m); werr != nil {
				_ = bdb.Close()
				return nil, werr
			}
		} else {
			_ = bdb.Close()
			return nil, fmt.Errorf("store: read manifest: %w", err)
		}
	}
	if m.SchemaVersion > SchemaVersionV1 {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: manifest schema_version %d > supported %d", m.SchemaVersion, SchemaVersionV1)
	}
	s.manifest = m
	return s, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", path, err)
	}
	return nil
}

func (s *Bolt) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Bolt) Put(_ context.Context, c *codec.Cube) (*codec.Cube, error) {
	if err := validatePut(c); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.Key()
	existing, had, err := s.getLocked(key)
	if err != nil {
		return nil, err
	}
	winner := codec.Winner(existing, c)
	changed := !had || winner != existing
	if changed {
		if err := s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.Bucket(bucketCubes).Put(key.Bytes(), winner.Binary()); err != nil {
				return err
			}
			return s.indexNotificationTx(tx, winner)
		}); err != nil {
			return nil, fmt.Errorf("store: put: %w", err)
		}
		for _, fn := range s.subs {
			fn(winner)
		}
	}
	return winner, nil
}

func (s *Bolt) indexNotificationTx(tx *bolt.Tx, c *codec.Cube) error {
	recipient, ok := c.Notify()
	if !ok {
		return nil
	}
	var timeKey [8]byte
	binary.BigEndian.PutUint64(timeKey[:], c.Date())
	tk := append(append([]byte(nil), recipient[:]...), timeKey[:]...)
	tk = append(tk, c.Key().Bytes()...)
	if err := tx.Bucket(bucketNotifyByTime).Put(tk, nil); err != nil {
		return err
	}

	dk := append(append([]byte(nil), recipient[:]...), difficultyByte(c.Hash()))
	dk = append(dk, c.Key().Bytes()...)
	return tx.Bucket(bucketNotifyByDifficulty).Put(dk, nil)
}

func (s *Bolt) getLocked(key codec.CubeID) (*codec.Cube, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCubes).Get(key.Bytes())
		if v == nil {
			return nil
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	c, err := codec.Parse(raw, s.difficulty)
	if err != nil {
		return nil, false, fmt.Errorf("store: stored cube failed to re-parse: %w", err)
	}
	return c, true, nil
}

func (s *Bolt) Get(_ context.Context, key codec.CubeID) (*codec.Cube, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

func (s *Bolt) Has(ctx context.Context, key codec.CubeID) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Bolt) IterKeys(_ context.Context, prefix []byte, limit int, visit func(codec.CubeID) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketCubes).Cursor()
		var k, v []byte
		if len(prefix) > 0 {
			k, v = c.Seek(prefix)
		} else {
			k, v = c.First()
		}
		for ; k != nil; k, v = c.Next() {
			_ = v
			if len(prefix) > 0 && !hasPrefix(k, prefix) {
				break
			}
			var id codec.CubeID
			copy(id[:], k)
			if !visit(id) {
				return nil
			}
			n++
			if limit > 0 && n >= limit {
				return nil
			}
		}
		return nil
	})
}

func (s *Bolt) IterNotifications(_ context.Context, recipient [32]byte, by NotifyOrder, limit int, visit func(*codec.Cube) bool) error {
	bucket := bucketNotifyByTime
	if by == ByDifficulty {
		bucket = bucketNotifyByDifficulty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []codec.CubeID
	if err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		for k, _ := c.Seek(recipient[:]); k != nil && hasPrefix(k, recipient[:]); k, _ = c.Next() {
			var id codec.CubeID
			copy(id[:], k[len(k)-len(id):])
			matches = append(matches, id)
		}
		return nil
	}); err != nil {
		return err
	}

	n := 0
	for _, id := range matches {
		cb, ok, err := s.getLocked(id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if !visit(cb) {
			return nil
		}
		n++
		if limit > 0 && n >= limit {
			return nil
		}
	}
	return nil
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}

func (s *Bolt) Subscribe(fn func(*codec.Cube)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return &boltSub{store: s, id: id}
}

type boltSub struct {
	store *Bolt
	id    int
}

func (s *boltSub) Unsubscribe() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.subs, s.id)
}
