package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaVersionV1 is the only on-disk schema version this store understands.
const SchemaVersionV1 uint32 = 1

// Manifest is the small crash-safe commit point recording the on-disk
// schema version, kept in a JSON file beside the bbolt file. OpenBolt reads
// it after opening the bbolt file and creating its buckets; on an
// unsupported version it closes the bbolt file again and returns an error.
type Manifest struct {
	SchemaVersion uint32 `json:"schema_version"`
}

func manifestPath(dir string) string {
	return filepath.Join(dir, "MANIFEST.json")
}

func readManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(manifestPath(dir))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("store: manifest json: %w", err)
	}
	return &m, nil
}

func writeManifestAtomic(dir string, m *Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("store: manifest json: %w", err)
	}
	b = append(b, '\n')
	return writeFileAtomic(dir, manifestPath(dir), b)
}

// writeFileAtomic commits data as final's new content via write-temp ->
// fsync-temp -> rename -> fsync-dir, so a crash at any point leaves either
// the old content or the new content intact, never a partial write. dir must
// be final's parent (passed separately so callers that already resolved it
// don't pay a second filepath.Dir call).
func writeFileAtomic(dir, final string, data []byte) error {
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("store: open tmp: %w", err)
	}
	_, werr := f.Write(data)
	serr := f.Sync()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("store: write tmp: %w", werr)
	}
	if serr != nil {
		return fmt.Errorf("store: fsync tmp: %w", serr)
	}
	if cerr != nil {
		return fmt.Errorf("store: close tmp: %w", cerr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}

	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("store: fsync dir open: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("store: fsync dir: %w", err)
	}
	return d.Close()
}
