package keymutex_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parcellocker/internal/pkg/keymutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKeyedMutex_SameKeyIsExclusive(t *testing.T) {
	var (
		km      keymutex.KeyedMutex
		inside  atomic.Int32
		maxSeen atomic.Int32
	)

	g, ctx := errgroup.WithContext(t.Context())
	for range 20 {
		g.Go(func() error {
			unlock, err := km.Lock(ctx, "parcel-1")
			if err != nil {
				return err
			}
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	var km keymutex.KeyedMutex

	unlockA, err := km.Lock(t.Context(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	unlockB, err := km.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()

	assert.Equal(t, 1, km.Len())
}

func TestKeyedMutex_ContextCancelWhileWaiting(t *testing.T) {
	var km keymutex.KeyedMutex

	unlock, err := km.Lock(t.Context(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err = km.Lock(ctx, "k")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, km.Len())

	unlock()
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_WaiterGetsLockAfterRelease(t *testing.T) {
	var (
		km keymutex.KeyedMutex
		wg sync.WaitGroup
	)

	unlock, err := km.Lock(t.Context(), "k")
	require.NoError(t, err)

	acquired := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err := km.Lock(context.Background(), "k")
		if err != nil {
			return
		}
		close(acquired)
		second()
	}()

	select {
	case <-acquired:
		t.Fatal("second caller acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	wg.Wait()

	select {
	case <-acquired:
	default:
		t.Fatal("second caller never acquired the lock")
	}
}
