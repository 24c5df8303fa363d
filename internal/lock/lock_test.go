package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func exerciseMutualExclusion(t *testing.T, l Locker) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		inside  int32
		maxSeen int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			release, err := l.Acquire(ctx, "org:dept")
			if err != nil {
				t.Error(err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxSeen)
				if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), maxSeen)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocalLocker())
}

func TestLocalLocker_TimesOut(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	require.ErrorIs(t, err, ErrNotAcquired)

	_, err = l.Acquire(context.Background(), "other")
	require.NoError(t, err)

	release()
	release()
	again, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, time.Second, nil), mr
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	l, _ := newRedisLocker(t)
	exerciseMutualExclusion(t, l)
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	l, mr := newRedisLocker(t)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, mr.Exists("orgchart:lock:k"))

	// lease expired and was taken by someone else
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("orgchart:lock:k"))
	require.NoError(t, mr.Set("orgchart:lock:k", "someone-else"))

	release()
	got, err := mr.Get("orgchart:lock:k")
	require.NoError(t, err)
	require.Equal(t, "someone-else", got)
}

func TestRedisLocker_TimesOut(t *testing.T) {
	l, _ := newRedisLocker(t)
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	require.ErrorIs(t, err, ErrNotAcquired)
}

func TestRedisLocker_RenewsLeaseWhileHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLocker(client, 300*time.Millisecond, nil)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	// without renewal only 50ms would remain
	mr.FastForward(250 * time.Millisecond)

	require.Eventually(t, func() bool {
		return mr.TTL("orgchart:lock:k") > 200*time.Millisecond
	}, 2*time.Second, 10*time.Millisecond)

	release()
	require.False(t, mr.Exists("orgchart:lock:k"))
	release()
}

func TestRedisLocker_StopsRenewingLostLease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLocker(client, 150*time.Millisecond, nil)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	require.NoError(t, mr.Set("orgchart:lock:k", "someone-else"))
	time.Sleep(200 * time.Millisecond)

	got, err := mr.Get("orgchart:lock:k")
	require.NoError(t, err)
	require.Equal(t, "someone-else", got)
	require.Zero(t, mr.TTL("orgchart:lock:k"))
}
