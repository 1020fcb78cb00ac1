// Package cube implements the fixed-size 1024-byte Cube binary format: its
// positional layout per cube type, the Cursor read/write primitive, and the
// shared error type. Proof-of-work search, signing and CubeContest live in
// package codec.
package cube

// Size is the bit-exact length of every Cube on the wire and at rest.
const Size = 1024

// Positional field widths, in bytes.
const (
	TypeSize            = 1
	NotifySize          = 32
	PMUCUpdateCountSize = 4
	PublicKeySize       = 32
	SignatureSize       = 64
	DateSize            = 5
	NonceSize           = 4
)

// Type is the one-byte tag at offset 0 of every Cube, drawn from a closed set.
type Type byte

const (
	TypeFrozen Type = iota
	TypeFrozenNotify
	TypePIC
	TypePICNotify
	TypeMUC
	TypeMUCNotify
	TypePMUC
	TypePMUCNotify
)

func (t Type) String() string {
	switch t {
	case TypeFrozen:
		return "FROZEN"
	case TypeFrozenNotify:
		return "FROZEN_NOTIFY"
	case TypePIC:
		return "PIC"
	case TypePICNotify:
		return "PIC_NOTIFY"
	case TypeMUC:
		return "MUC"
	case TypeMUCNotify:
		return "MUC_NOTIFY"
	case TypePMUC:
		return "PMUC"
	case TypePMUCNotify:
		return "PMUC_NOTIFY"
	default:
		return "UNKNOWN"
	}
}

// Layout describes the positional shape implied by a Type: which front
// positionals precede the payload region, whether the cube is signed, and
// how its key is derived.
type Layout struct {
	Type Type

	HasNotify       bool
	HasPMUCCount    bool
	HasPublicKey    bool
	Signed          bool
	KeyedByPubkey   bool // false => key = hash(binary)
}

var layouts = map[Type]Layout{
	TypeFrozen:       {Type: TypeFrozen},
	TypeFrozenNotify: {Type: TypeFrozenNotify, HasNotify: true},
	TypePIC:          {Type: TypePIC},
	TypePICNotify:    {Type: TypePICNotify, HasNotify: true},
	TypeMUC:          {Type: TypeMUC, HasPublicKey: true, Signed: true, KeyedByPubkey: true},
	TypeMUCNotify:    {Type: TypeMUCNotify, HasNotify: true, HasPublicKey: true, Signed: true, KeyedByPubkey: true},
	TypePMUC:         {Type: TypePMUC, HasPMUCCount: true, HasPublicKey: true, Signed: true, KeyedByPubkey: true},
	TypePMUCNotify:   {Type: TypePMUCNotify, HasNotify: true, HasPMUCCount: true, HasPublicKey: true, Signed: true, KeyedByPubkey: true},
}

// LayoutFor returns the positional layout for t, or ok=false if t is not one
// of the eight defined cube types.
func LayoutFor(t Type) (Layout, bool) {
	l, ok := layouts[t]
	return l, ok
}

// FrontSize returns the number of bytes occupied by front positionals
// (everything between TYPE and the payload region), in the fixed order
// NOTIFY, PMUC_UPDATE_COUNT, PUBLIC_KEY.
func (l Layout) FrontSize() int {
	n := TypeSize
	if l.HasNotify {
		n += NotifySize
	}
	if l.HasPMUCCount {
		n += PMUCUpdateCountSize
	}
	if l.HasPublicKey {
		n += PublicKeySize
	}
	return n
}

// BackSize returns the number of bytes occupied by back positionals: for
// signed types SIGNATURE+DATE+NONCE, for unsigned types DATE+NONCE.
func (l Layout) BackSize() int {
	n := DateSize + NonceSize
	if l.Signed {
		n += SignatureSize
	}
	return n
}

// PayloadSize returns the number of bytes available for the TLV payload
// region given this layout.
func (l Layout) PayloadSize() int {
	return Size - l.FrontSize() - l.BackSize()
}

// SignaturePrefixLen returns the number of leading bytes signed over (the
// prefix ending right before the SIGNATURE field), valid only for signed
// layouts.
func (l Layout) SignaturePrefixLen(payloadLen int) int {
	return l.FrontSize() + payloadLen
}
