// Package batch hashes many independent preimages concurrently on the CPU.
// It is the CPU path of a batch hasher whose reference implementation also
// offers OpenCL and CUDA backends; this module deliberately implements only
// that CPU path.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/digest"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
)

// Hasher runs independent fixed-length hashes over a batch of preimages
// across a bounded pool of goroutines. Each call to Hash is independent of
// the others; a Hasher holds no state between calls and is safe to reuse or
// share.
type Hasher struct {
	maxBatchSize int
	concurrency  int
}

// New builds a Hasher. maxBatchSize bounds how many preimages a single Hash
// call will accept; concurrency bounds how many run at once (0 means
// unbounded, left to the Go scheduler and GOMAXPROCS).
func New(maxBatchSize, concurrency int) *Hasher {
	return &Hasher{maxBatchSize: maxBatchSize, concurrency: concurrency}
}

// Hash hashes each entry of preimages independently with digest.HashFixed,
// fanning out across goroutines and preserving input order in the result.
// It returns an error, rather than panicking, only for the batch-shape
// violation (too many preimages) that a caller controls; a malformed
// individual preimage still panics through digest.HashFixed, since that is a
// per-call programmer error rather than a batch-level condition.
func (h *Hasher) Hash(ctx context.Context, preimages [][]field.Element) ([]digest.Digest, error) {
	if len(preimages) > h.maxBatchSize {
		return nil, fmt.Errorf("batch: %d preimages exceeds max batch size %d", len(preimages), h.maxBatchSize)
	}

	out := make([]digest.Digest, len(preimages))
	g, _ := errgroup.WithContext(ctx)
	if h.concurrency > 0 {
		g.SetLimit(h.concurrency)
	}

	for i, preimage := range preimages {
		i, preimage := i, preimage
		g.Go(func() error {
			out[i] = digest.HashFixed(preimage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
