// Package heightclaim coordinates exclusive per-height write access between
// concurrent workers.
package heightclaim

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

const retryInterval = 10 * time.Millisecond

// Registry hands out at most one claim per block height. The chain follower
// holds a claim while writing a height; background sweeps skip heights they
// cannot claim instead of blocking on them.
type Registry struct {
	claims *xsync.Map[uint64, struct{}]
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{claims: xsync.NewMap[uint64, struct{}]()}
}

// TryClaim takes the claim for a height, reporting false when another worker
// already holds it.
func (r *Registry) TryClaim(height uint64) bool {
	_, loaded := r.claims.LoadOrStore(height, struct{}{})
	return !loaded
}

// Claim blocks until the claim is taken or the context is canceled.
func (r *Registry) Claim(ctx context.Context, height uint64) error {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		if r.TryClaim(height) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Release gives a claim back. Releasing an unclaimed height is a no-op.
func (r *Registry) Release(height uint64) {
	r.claims.Delete(height)
}

// Held reports how many heights are currently claimed.
func (r *Registry) Held() int {
	return r.claims.Size()
}
