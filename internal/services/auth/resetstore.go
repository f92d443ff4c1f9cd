package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token expired")
)

type resetRecord struct {
	userID    int64
	expiresAt time.Time
}

// ResetTokenStore holds pending password-reset tokens in memory. Entries
// live for a fixed TTL and are redeemable exactly once. Nothing survives a
// restart: outstanding links simply stop working.
type ResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]resetRecord
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokenStore(ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResetTokenStore{
		tokens: make(map[string]resetRecord),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create mints an unguessable token (256 bits of crypto/rand) owned by
// userID and stores it with the configured TTL.
func (s *ResetTokenStore) Create(userID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = resetRecord{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Consume removes the token and returns its owner. Removal happens under
// the lock regardless of outcome, so of two concurrent redemptions exactly
// one gets the user ID and the other sees ErrResetTokenInvalid. An entry
// past its expiry is dropped on first sight and reported ErrResetTokenExpired;
// an absent token is indistinguishable from one expired long ago.
func (s *ResetTokenStore) Consume(token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[token]
	if !ok {
		return 0, ErrResetTokenInvalid
	}
	delete(s.tokens, token)
	if rec.expiresAt.Before(s.now()) {
		return 0, ErrResetTokenExpired
	}
	return rec.userID, nil
}

// Run sweeps expired entries until ctx is done. Consume already handles
// expiry; the sweep only reclaims memory held by abandoned tokens.
func (s *ResetTokenStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *ResetTokenStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for token, rec := range s.tokens {
		if rec.expiresAt.Before(now) {
			delete(s.tokens, token)
		}
	}
	s.mu.Unlock()
}

func (s *ResetTokenStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
