// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutexLocker_Exclusive(t *testing.T) {
	l := NewMutexLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "log")
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestMutexLocker_NamesAreIndependent(t *testing.T) {
	l := NewMutexLocker()
	ctx := context.Background()

	unlockA, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestMutexLocker_ContextCancelled(t *testing.T) {
	l := NewMutexLocker()

	unlock, err := l.Lock(context.Background(), "log")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "log")
	assert.ErrorIs(t, err, ErrLockNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMutexLocker_UnlockIsIdempotent(t *testing.T) {
	l := NewMutexLocker()

	unlock, err := l.Lock(context.Background(), "log")
	require.NoError(t, err)
	unlock()
	unlock()

	unlock, err = l.Lock(context.Background(), "log")
	require.NoError(t, err)
	unlock()
}

// fakeRedis is an in-memory stand-in for the SET NX / EVAL calls of
// RedisLocker.
type fakeRedis struct {
	redis.Scripter

	mu       sync.Mutex
	values   map[string]string
	setNXErr error
	releases int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setNXErr != nil {
		return redis.NewBoolResult(false, f.setNXErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLocker_LockAndRelease(t *testing.T) {
	fake := newFakeRedis()
	l := newRedisLocker(fake, time.Second)

	unlock, err := l.Lock(context.Background(), "log/public-ledger")
	require.NoError(t, err)
	assert.Contains(t, fake.values, "proof-ledger:lock:log/public-ledger")

	unlock()
	assert.Empty(t, fake.values)
	assert.Equal(t, 1, fake.releases)
}

func TestRedisLocker_WaitsForHolder(t *testing.T) {
	fake := newFakeRedis()
	// another process holds the key
	fake.values["proof-ledger:lock:chain"] = "someone-else"
	l := newRedisLocker(fake, time.Second)
	l.retry = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Lock(ctx, "chain")
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// the foreign lock is untouched
	assert.Equal(t, "someone-else", fake.values["proof-ledger:lock:chain"])

	go func() {
		time.Sleep(5 * time.Millisecond)
		fake.mu.Lock()
		delete(fake.values, "proof-ledger:lock:chain")
		fake.mu.Unlock()
	}()

	unlock, err := l.Lock(context.Background(), "chain")
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_SetNXError(t *testing.T) {
	fake := newFakeRedis()
	fake.setNXErr = errors.New("connection refused")
	l := newRedisLocker(fake, time.Second)

	_, err := l.Lock(context.Background(), "log")
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// the local slot must have been released
	fake.setNXErr = nil
	unlock, err := l.Lock(context.Background(), "log")
	require.NoError(t, err)
	unlock()
}
