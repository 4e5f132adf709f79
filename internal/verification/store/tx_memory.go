package store

import (
	"context"
	"sync"
	"time"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

// numTxShards spreads verifications over independent locks so unrelated
// requests never wait on each other.
const numTxShards = 128

// defaultTxTimeout bounds a unit of work when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

// ShardedTx serializes units of work per verification id for the in-memory
// stores. It does not roll back: callers validate before they write.
type ShardedTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

func NewShardedTx() *ShardedTx {
	return &ShardedTx{timeout: defaultTxTimeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, vid id.VerificationID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	ctx, cancel := withTxTimeout(ctx, t.timeout)
	defer cancel()

	shard := hashVerification(vid) % numTxShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

func withTxTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// hashVerification is FNV-1a over the UUID bytes.
func hashVerification(vid id.VerificationID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range vid {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}
