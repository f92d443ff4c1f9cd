package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResetTokenStore_CreateConsume(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(30 * time.Minute)
	token, err := s.Create(42)
	require.NoError(t, err)
	require.Len(t, token, 64) // 32 random bytes, hex-encoded

	id, err := s.Consume(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestResetTokenStore_SingleUse(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(30 * time.Minute)
	token, err := s.Create(1)
	require.NoError(t, err)

	_, err = s.Consume(token)
	require.NoError(t, err)

	_, err = s.Consume(token)
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetTokenStore_UnknownToken(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(30 * time.Minute)
	_, err := s.Consume("deadbeef")
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetTokenStore_Expired(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(30 * time.Minute)
	base := time.Now().UTC()
	s.now = func() time.Time { return base }

	token, err := s.Create(5)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, err = s.Consume(token)
	require.ErrorIs(t, err, ErrResetTokenExpired)
	require.Equal(t, 0, s.size())

	// The expired entry is gone; a retry looks like any unknown token.
	_, err = s.Consume(token)
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetTokenStore_TokensAreUnique(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(time.Minute)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := s.Create(int64(i))
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestResetTokenStore_ConcurrentRedemption(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(time.Minute)
	token, err := s.Create(9)
	require.NoError(t, err)

	const goroutines = 16
	var wg sync.WaitGroup
	var winners int64
	var mu sync.Mutex

	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if id, err := s.Consume(token); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				if id != 9 {
					t.Errorf("wrong user id: %d", id)
				}
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int64(1), winners)
	require.Equal(t, 0, s.size())
}

func TestResetTokenStore_Sweep(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(30 * time.Minute)
	base := time.Now().UTC()
	s.now = func() time.Time { return base }

	_, err := s.Create(1)
	require.NoError(t, err)
	_, err = s.Create(2)
	require.NoError(t, err)
	require.Equal(t, 2, s.size())

	s.now = func() time.Time { return base.Add(time.Hour) }
	s.sweep()
	require.Equal(t, 0, s.size())
}

func TestResetTokenStore_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := NewResetTokenStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
