// Package cci implements the Common Cube Interface: the TLV field grammar
// layered onto a Cube's payload region, its end-of-payload sentinel, the
// same-type-run disambiguation marker, and the RELATES_TO relationship
// encoding.
package cci

// FieldType is the unified one-byte field-type enum (spec §9 open question:
// a single enum, not a positional/CCI split).
type FieldType byte

const (
	FieldCCIEnd       FieldType = 0x00
	FieldApplication  FieldType = 0x04
	FieldEncrypted    FieldType = 0x08
	FieldCryptoNonce  FieldType = 0x0C
	FieldCryptoPubkey FieldType = 0x18
	FieldSubkeySeed   FieldType = 0x1C
	FieldPayload      FieldType = 0x40
	FieldContentName  FieldType = 0x44
	FieldDescription  FieldType = 0x48
	FieldRelatesTo    FieldType = 0x4C
	FieldUsername     FieldType = 0x50
	FieldMediaType    FieldType = 0x54
	FieldAvatar       FieldType = 0x58
	FieldPadding      FieldType = 0x7C

	// FieldCustom1 is the first of sixteen caller-defined slots spaced four
	// apart, FieldCustom1+4*k for k in [0,15].
	FieldCustom1 FieldType = 0xC0
)

// CustomFieldStep and CustomFieldCount describe the CUSTOM1..CUSTOM16 range.
const (
	CustomFieldStep  = 4
	CustomFieldCount = 16
)

// IsCustom reports whether t falls within the CUSTOM1..CUSTOM16 range.
func IsCustom(t FieldType) bool {
	if t < FieldCustom1 {
		return false
	}
	off := int(t) - int(FieldCustom1)
	return off%CustomFieldStep == 0 && off/CustomFieldStep < CustomFieldCount

}

// RelationshipSize is the byte width of a RELATES_TO field value: one type
// byte plus a 32-byte remote key.
const RelationshipSize = 33

// fixedLengths records the field types whose value length never varies.
// A field type is either always in this table (fixed) or always variable
// (carries a length prefix) — never both, per spec §4.2.
var fixedLengths = map[FieldType]int{
	FieldCCIEnd:       0,
	FieldRelatesTo:    RelationshipSize,
	FieldCryptoPubkey: 32,
	FieldCryptoNonce:  24,
	FieldMediaType:    1,
}

// FixedLength returns the fixed value length for t and true, or (0, false)
// if t is variable-length.
func FixedLength(t FieldType) (int, bool) {
	n, ok := fixedLengths[t]
	return n, ok
}

// IsVariable reports whether t carries an explicit length (a length byte
// plus the two low bits of the type byte, see appendField).
func IsVariable(t FieldType) bool {
	if _, ok := fixedLengths[t]; ok {
		return false
	}
	// PADDING and every other field type not explicitly fixed-length
	// (APPLICATION, PAYLOAD, CONTENTNAME, DESCRIPTION, USERNAME, AVATAR,
	// SUBKEY_SEED, ENCRYPTED, CUSTOM*) is variable.
	return true
}

// MediaType values for the fixed-length MEDIA_TYPE field.
type MediaType byte

const (
	MediaTypeText MediaType = 1
	MediaTypeJPEG MediaType = 2
)

// Relationship type identifiers packed into RELATES_TO's first byte.
type RelationType byte

const (
	RelationContinuedIn                     RelationType = 1
	RelationReplyTo                         RelationType = 3
	RelationQuotation                       RelationType = 4
	RelationMyPost                          RelationType = 5
	RelationMention                         RelationType = 6
	RelationReplacedBy                      RelationType = 11
	RelationProfilePic                      RelationType = 71
	RelationKeyBackupCube                   RelationType = 72
	RelationSubscriptionRecommendationIndex RelationType = 73
	RelationSubscriptionRecommendation      RelationType = 81
)
