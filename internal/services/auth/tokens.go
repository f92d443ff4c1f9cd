package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flexiride/backend/internal/domain/user"
)

// ErrInvalidToken covers every verification failure: expiry, bad signature,
// wrong purpose, missing claims. Callers get no finer distinction, so a
// rejected token never explains why it was rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenConfig carries one secret and TTL per purpose. Distinct secrets are
// what keeps an access token from passing as a refresh token.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Now           func() time.Time
}

type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &TokenManager{cfg: cfg}
}

func (m *TokenManager) IssueAccess(u *user.User) (string, error) {
	return m.issue(u, m.cfg.AccessSecret, m.cfg.AccessTTL)
}

func (m *TokenManager) IssueRefresh(u *user.User) (string, error) {
	return m.issue(u, m.cfg.RefreshSecret, m.cfg.RefreshTTL)
}

func (m *TokenManager) issue(u *user.User, secret []byte, ttl time.Duration) (string, error) {
	now := m.cfg.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: u.Email,
		Name:  u.Name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw against the secret for the given purpose. The email
// claim is required; a payload without it is as invalid as a bad signature.
func (m *TokenManager) Verify(raw string, purpose Purpose) (*Claims, error) {
	secret := m.cfg.AccessSecret
	if purpose == PurposeRefresh {
		secret = m.cfg.RefreshSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.cfg.Now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
