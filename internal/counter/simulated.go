package counter

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultHeadDelay mirrors how long a hall scan takes to "process".
	DefaultHeadDelay = 3 * time.Second
	// DefaultSignatureDelay mirrors how long a sheet scan takes to "process".
	DefaultSignatureDelay = 2500 * time.Millisecond
)

// Simulated produces random plausible counts after a fixed delay.
// Counts are in [10, 60) and confidence in [0.7, 1.0).
type Simulated struct {
	headDelay      time.Duration
	signatureDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated counter. A zero seed picks a random one.
func NewSimulated(headDelay, signatureDelay time.Duration, seed uint64) *Simulated {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulated{
		headDelay:      headDelay,
		signatureDelay: signatureDelay,
		rng:            rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Simulated) Name() string {
	return string(KindSimulated)
}

func (s *Simulated) CountHeads(ctx context.Context, image []byte) (*Result, error) {
	return s.count(ctx, image, s.headDelay)
}

func (s *Simulated) CountSignatures(ctx context.Context, image []byte) (*Result, error) {
	return s.count(ctx, image, s.signatureDelay)
}

func (s *Simulated) count(ctx context.Context, image []byte, delay time.Duration) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &Result{
		Count:      s.rng.IntN(50) + 10,
		Confidence: 0.7 + s.rng.Float64()*0.3,
	}, nil
}
