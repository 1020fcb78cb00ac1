// Package codec implements CubeCodec: assembling, compiling (padding,
// signing, proof-of-work), parsing, and validating individual Cubes, plus
// the per-key CubeContest conflict-resolution rule.
package codec

import (
	"crypto/ed25519"

	"verity.dev/core/cci"
	"verity.dev/core/cube"
)

// CubeID is the 32-byte content-addressing / signing key identifying a Cube:
// hash(binary) for FROZEN/PIC-family types, public_key for MUC-family types.
type CubeID [32]byte

func (id CubeID) Bytes() []byte { return id[:] }

// Cube is a Cube in one of three lifecycle states: New (fields only,
// nothing compiled), Compiled (binary + hash + key all known; field views
// are zero-copy slices into binary), or Parsed (constructed and validated
// from received bytes, immutable). Mutating a compiled or parsed Cube's
// fields returns it to New, dropping the derived binary/hash/key — callers
// do this through Mutate, never by touching exported state directly.
type Cube struct {
	state lifecycleState

	typ cube.Type

	fields     []cci.Field
	isCCI      bool
	rawContent []byte // only for non-CCI "core" cubes

	notify    [cube.NotifySize]byte
	hasNotify bool

	pmucCount uint32

	publicKey  [32]byte
	hasPubKey  bool
	privateKey ed25519.PrivateKey // held only by the local creator, never serialized

	date uint64

	binary []byte
	hash   [32]byte
	key    CubeID
}

type lifecycleState int

const (
	stateNew lifecycleState = iota
	stateCompiled
	stateParsed
)

// Type returns the cube's type tag.
func (c *Cube) Type() cube.Type { return c.typ }

// IsCompiled reports whether Binary/Hash/Key are currently valid.
func (c *Cube) IsCompiled() bool { return c.state == stateCompiled || c.state == stateParsed }

// IsParsed reports whether this Cube originated from Parse (read-only).
func (c *Cube) IsParsed() bool { return c.state == stateParsed }

// Fields returns the cube's CCI fields. For a parsed cube these are
// zero-copy slices into Binary.
func (c *Cube) Fields() []cci.Field { return c.fields }

// Binary returns the compiled 1024-byte form. It panics if called before a
// successful Compile or Parse — callers are expected to check IsCompiled.
func (c *Cube) Binary() []byte {
	if !c.IsCompiled() {
		panic("codec: Binary called on uncompiled cube")
	}
	return c.binary
}

// Hash returns the content hash computed at compile/parse time.
func (c *Cube) Hash() [32]byte { return c.hash }

// Key returns the cube's key: public_key for MUC-family types, hash(binary)
// otherwise.
func (c *Cube) Key() CubeID { return c.key }

// Date returns the DATE positional field (seconds since epoch).
func (c *Cube) Date() uint64 { return c.date }

// PMUCUpdateCount returns the PMUC_UPDATE_COUNT positional field; only
// meaningful for PMUC/PMUC_NOTIFY cubes.
func (c *Cube) PMUCUpdateCount() uint32 { return c.pmucCount }

// Notify returns the NOTIFY positional field and whether this cube type
// carries one.
func (c *Cube) Notify() ([cube.NotifySize]byte, bool) { return c.notify, c.hasNotify }

// PublicKey returns the PUBLIC_KEY positional field and whether this cube
// type carries one.
func (c *Cube) PublicKey() ([32]byte, bool) { return c.publicKey, c.hasPubKey }

// Mutate returns a New-state copy of c with fields replaced, per the
// lifecycle rule that any field mutation invalidates derived binary/hash/key
// (spec §3 "Lifecycle").
func (c *Cube) Mutate(fields []cci.Field) *Cube {
	n := *c
	n.state = stateNew
	n.fields = cci.CloneFields(fields)
	n.binary = nil
	n.hash = [32]byte{}
	n.key = CubeID{}
	return &n
}
