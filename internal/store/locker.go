// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

// MutexLocker serializes writers inside one process. Lock honours context
// cancellation while waiting.
type MutexLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMutexLocker returns an in-process [Locker].
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{slots: make(map[string]chan struct{})}
}

func (m *MutexLocker) Lock(ctx context.Context, name string) (func(), error) {
	m.mu.Lock()
	slot, ok := m.slots[name]
	if !ok {
		slot = make(chan struct{}, 1)
		m.slots[name] = slot
	}
	m.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, name, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}

// releaseScript deletes the lock key only if it still holds our token, so a
// writer whose lease expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisClient is the subset of *redis.Client used by [RedisLocker].
type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLocker is a lease-based lock shared by every process that talks to
// the same Redis. It is layered over a [MutexLocker] so goroutines of one
// process queue locally instead of polling Redis.
type RedisLocker struct {
	client    redisClient
	local     *MutexLocker
	ttl       time.Duration
	retry     time.Duration
	keyPrefix string
	ids       *utils.UUIDGenerator
}

// NewRedisLocker connects to addr. ttl bounds how long a crashed holder can
// block others.
func NewRedisLocker(addr string, ttl time.Duration) *RedisLocker {
	return newRedisLocker(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func newRedisLocker(client redisClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:    client,
		local:     NewMutexLocker(),
		ttl:       ttl,
		retry:     25 * time.Millisecond,
		keyPrefix: "proof-ledger:lock:",
		ids:       utils.NewUUIDGenerator(),
	}
}

func (r *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	unlockLocal, err := r.local.Lock(ctx, name)
	if err != nil {
		return nil, err
	}

	key := r.keyPrefix + name
	token := r.ids.Generate()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, name, err)
		}
		if ok {
			break
		}

		select {
		case <-time.After(r.retry):
		case <-ctx.Done():
			unlockLocal()
			return nil, fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, name, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release must outlive a cancelled request context
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
			unlockLocal()
		})
	}, nil
}
