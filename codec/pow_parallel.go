package codec

import (
	"context"
	"sync"
)

// searchNonceParallel runs n independent searchNonceStrided workers over
// disjoint residue classes of the nonce space (worker k tries k, k+n, k+2n,
// …), each on its own copy of buf so no two goroutines ever touch the same
// bytes. The first worker to find a satisfying nonce cancels the rest via a
// derived context and reports its buffer; a worker error that isn't context
// cancellation propagates as the overall result.
//
// This has no goroutine-pool abstraction to reuse from the teacher (it has
// no PoW search of its own) — it is a small manual sync.WaitGroup fan-out,
// the same first-result-wins shape as the rest of this codebase favors over
// pulling in an errgroup dependency for a single call site.
func searchNonceParallel(ctx context.Context, buf []byte, difficulty int, resign func([]byte) error, n int) ([]byte, [32]byte, error) {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		buf  []byte
		hash [32]byte
		err  error
	}
	results := make(chan result, n)

	var wg sync.WaitGroup
	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(start uint32) {
			defer wg.Done()
			own := append([]byte(nil), buf...)
			hash, _, err := searchNonceStrided(workerCtx, own, difficulty, resign, start, uint32(n))
			results <- result{buf: own, hash: hash, err: err}
		}(uint32(k))
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// results is buffered to n, so every worker's send succeeds whether or
	// not this loop is still reading — returning early below never leaks a
	// blocked goroutine.
	var firstErr error
	for r := range results {
		if r.err == nil {
			cancel() // stop remaining workers
			return r.buf, r.hash, nil
		}
		if firstErr == nil && r.err != context.Canceled {
			firstErr = r.err
		}
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return nil, [32]byte{}, firstErr
}
