package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/flexiride/backend/internal/domain/notification"
	"github.com/flexiride/backend/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password is too weak")
)

type Config struct {
	HashCost     int
	ResetBaseURL string
}

// Session is what every successful register/login/refresh returns.
type Session struct {
	User         user.Public `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Usecase orchestrates credential checks, token issuance, and the
// password-reset lifecycle. It owns no persistent state of its own; the
// reset store is the only mutable piece and is injected.
type Usecase struct {
	users  user.Repo
	tokens *TokenManager
	resets *ResetTokenStore
	mail   notification.Sender
	log    *zap.Logger
	cfg    Config
}

func NewUsecase(users user.Repo, tokens *TokenManager, resets *ResetTokenStore, mail notification.Sender, log *zap.Logger, cfg Config) *Usecase {
	if cfg.HashCost <= 0 {
		cfg.HashCost = DefaultHashCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		users:  users,
		tokens: tokens,
		resets: resets,
		mail:   mail,
		log:    log.With(zap.String("component", "auth")),
		cfg:    cfg,
	}
}

func (u *Usecase) Register(ctx context.Context, name, email, password string, role user.Role) (*Session, error) {
	email = user.NormalizeEmail(email)
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = user.RoleClient
	}

	hash, err := HashPassword(password, u.cfg.HashCost)
	if err != nil {
		return nil, err
	}
	rec := &user.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := u.users.Create(ctx, rec); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, user.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	mRegistrations.Inc()
	return u.newSession(rec)
}

// Login rejects an unknown address and a wrong password with the same
// error, so the response never says which accounts exist.
func (u *Usecase) Login(ctx context.Context, email, password string) (*Session, error) {
	rec, err := u.users.GetByEmailWithHash(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			mLoginFailures.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(rec.PasswordHash, password) {
		mLoginFailures.Inc()
		return nil, ErrInvalidCredentials
	}
	mLogins.Inc()
	return u.newSession(rec)
}

// Refresh rotates a refresh token into a brand-new pair. The user is
// re-read by the email claim rather than trusted from the stale claim set,
// so deleted accounts stop refreshing immediately. The old refresh token
// stays valid until its natural expiry; there is no revocation store.
func (u *Usecase) Refresh(ctx context.Context, raw string) (*Session, error) {
	claims, err := u.tokens.Verify(raw, PurposeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	rec, err := u.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	mRefreshes.Inc()
	return u.newSession(rec)
}

// RequestPasswordReset succeeds whether or not the address is registered.
// For a known account it stores a single-use token and mails a reset link;
// a delivery failure is logged and swallowed so the caller still cannot
// tell the two cases apart.
func (u *Usecase) RequestPasswordReset(ctx context.Context, email string) error {
	rec, err := u.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := u.resets.Create(rec.ID)
	if err != nil {
		return err
	}
	mResetRequests.Inc()

	link := strings.TrimRight(u.cfg.ResetBaseURL, "/") + "/auth/reset-password?token=" + token
	if err := u.mail.Send(ctx, rec.Email, "Password Reset Request", resetEmailBody(rec.Name, link)); err != nil {
		mResetEmailErrors.Inc()
		u.log.Warn("reset email delivery failed", zap.Int64("user_id", rec.ID), zap.Error(err))
	}
	return nil
}

func (u *Usecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	userID, err := u.resets.Consume(token)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, u.cfg.HashCost)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	mResetCompleted.Inc()
	return nil
}

// ParseAccess validates an access token and returns the subject user ID.
// Used by the HTTP auth middleware.
func (u *Usecase) ParseAccess(raw string) (int64, error) {
	claims, err := u.tokens.Verify(raw, PurposeAccess)
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (u *Usecase) newSession(rec *user.User) (*Session, error) {
	access, err := u.tokens.IssueAccess(rec)
	if err != nil {
		return nil, err
	}
	refresh, err := u.tokens.IssueRefresh(rec)
	if err != nil {
		return nil, err
	}
	return &Session{User: rec.Public(), AccessToken: access, RefreshToken: refresh}, nil
}

func resetEmailBody(name, link string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href=%q>Reset Password</a>
<p>This link will expire in 30 minutes.</p>`, name, link)
}
