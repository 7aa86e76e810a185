package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/lock"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryEvery: 5 * time.Millisecond}, mr
}

func TestDoSerialises(t *testing.T) {
	locker, _ := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var (
		mu    sync.Mutex
		order []string
		wg    sync.WaitGroup
	)
	firstIn := make(chan struct{})
	releaseFirst := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = locker.Do(ctx, "seed", time.Second, func(context.Context) error {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
			close(firstIn)
			<-releaseFirst
			return nil
		})
	}()
	<-firstIn
	go func() {
		defer wg.Done()
		_ = locker.Do(ctx, "seed", time.Second, func(context.Context) error {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Equal(t, []string{"first"}, order)
	mu.Unlock()

	close(releaseFirst)
	wg.Wait()
	require.Equal(t, []string{"first", "second"}, order)
}

func TestDoReleasesOnError(t *testing.T) {
	locker, mr := newLocker(t)
	boom := errors.New("boom")
	err := locker.Do(context.Background(), "seed", time.Second, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.False(t, mr.Exists("lock:seed"))
}

func TestDoHonoursContext(t *testing.T) {
	locker, mr := newLocker(t)
	require.NoError(t, mr.Set("lock:seed", "someone-else"))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := locker.Do(ctx, "seed", time.Second, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.True(t, mr.Exists("lock:seed"))
}

func TestDoWithoutClient(t *testing.T) {
	err := lock.Locker{}.Do(context.Background(), "seed", time.Second, func(context.Context) error { return nil })
	require.ErrorIs(t, err, lock.ErrNotConfigured)
}
