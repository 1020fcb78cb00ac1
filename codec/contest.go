package codec

import (
	"bytes"

	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// Winner resolves the CubeContest between two cubes sharing the same key
// (spec §4.1's "CubeContest"). It is pure and local: no network round-trip.
// For signed types the result does not depend on argument order; for
// FROZEN/PIC it is always a.
//
// FROZEN/PIC: identical content only — a divergent second copy at the same
// key loses outright (first-seen semantics belong to the caller, which
// should simply keep whichever copy it already has on a mismatch).
// MUC/MUC_NOTIFY: newer DATE wins; ties broken by higher difficulty, then by
// lexicographically larger hash.
// PMUC/PMUC_NOTIFY: higher PMUC_UPDATE_COUNT wins; then DATE; then
// difficulty; then hash.
func Winner(a, b *Cube) *Cube {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	layout, _ := cube.LayoutFor(a.typ)

	switch {
	case !layout.Signed:
		if bytes.Equal(a.binary, b.binary) {
			return a
		}
		return a // first-seen: caller controls which argument is "current"

	case layout.HasPMUCCount:
		if a.pmucCount != b.pmucCount {
			if a.pmucCount > b.pmucCount {
				return a
			}
			return b
		}
		return byDateThenDifficultyThenHash(a, b)

	default:
		return byDateThenDifficultyThenHash(a, b)
	}
}

func byDateThenDifficultyThenHash(a, b *Cube) *Cube {
	if a.date != b.date {
		if a.date > b.date {
			return a
		}
		return b
	}
	da, db := cryptox.TrailingZeroBits(a.hash), cryptox.TrailingZeroBits(b.hash)
	if da != db {
		if da > db {
			return a
		}
		return b
	}
	if bytes.Compare(a.hash[:], b.hash[:]) >= 0 {
		return a
	}
	return b
}
