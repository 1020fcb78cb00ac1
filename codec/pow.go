package codec

import (
	"context"

	"verity.dev/core/cryptox"
	"verity.dev/core/cube"
)

// yieldBatch is the cooperative-yield cadence for the PoW search: the loop
// checks ctx.Done() roughly every yieldBatch attempts instead of every
// attempt, so a single-threaded caller stays responsive without paying a
// context-check on every hash (spec §4.1.1, §5).
const yieldBatch = 1000

// nonceOffset returns the byte offset of the 4-byte NONCE field, the last
// NonceSize bytes of the buffer.
func nonceOffset() int {
	return cube.Size - cube.NonceSize
}

// searchNonce mutates buf in place, trying nonce values starting at 0 until
// hash(buf) meets difficulty or ctx is cancelled. resign, if non-nil, is
// invoked after every nonce write so signed cubes keep their signature
// current — required because the search loop treats the signed prefix and
// the nonce as independent, re-derivable byte ranges.
func searchNonce(ctx context.Context, buf []byte, difficulty int, resign func([]byte) error) ([32]byte, uint32, error) {
	return searchNonceStrided(ctx, buf, difficulty, resign, 0, 1)
}

// searchNonceStrided is searchNonce generalized to scan every start+k*stride
// nonce instead of every nonce, so CompileParallel's workers can each own a
// disjoint residue class of the nonce space without overlapping work.
func searchNonceStrided(ctx context.Context, buf []byte, difficulty int, resign func([]byte) error, start, stride uint32) ([32]byte, uint32, error) {
	off := nonceOffset()
	nonce := start
	attempts := 0
	for {
		if attempts%yieldBatch == 0 {
			select {
			case <-ctx.Done():
				return [32]byte{}, 0, ctx.Err()
			default:
			}
		}
		attempts++

		cube.PutU32BE(buf[off:off+4], nonce)
		if resign != nil {
			if err := resign(buf); err != nil {
				return [32]byte{}, 0, err
			}
		}

		h := cryptox.CubeHash(buf)
		if cryptox.MeetsDifficulty(h, difficulty) {
			return h, nonce, nil
		}
		next := nonce + stride
		if next < nonce {
			return [32]byte{}, 0, cube.NewError(cube.ErrCube, "nonce space exhausted")
		}
		nonce = next
	}
}
