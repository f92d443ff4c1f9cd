package auth

import (
	"errors"
	"net/http"
	"net/mail"

	"go.uber.org/zap"

	"github.com/flexiride/backend/internal/domain/user"
	"github.com/flexiride/backend/internal/obs"
	"github.com/flexiride/backend/internal/services/httpx"
)

// Controller exposes the auth flows over REST. Input shape validation lives
// here; everything past Decode is the usecase's problem.
type Controller struct {
	log *zap.Logger
	uc  *Usecase
}

func NewController(uc *Usecase, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{uc: uc, log: log.With(zap.String("component", "auth.http"))}
}

func (c *Controller) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", c.handleRegister)
	mux.HandleFunc("POST /auth/login", c.handleLogin)
	mux.HandleFunc("POST /auth/refresh", c.handleRefresh)
	mux.HandleFunc("POST /auth/password-reset-request", c.handleRequestReset)
	mux.HandleFunc("POST /auth/password-reset", c.handleResetPassword)
}

type registerRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

func (c *Controller) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.Name) < 2 || !validEmail(req.Email) {
		httpx.Error(w, http.StatusBadRequest, "invalid name or email")
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		httpx.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	sess, err := c.uc.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailExists):
			httpx.Error(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, ErrWeakPassword):
			httpx.Error(w, http.StatusBadRequest, "Password must be at least 8 characters")
		default:
			c.internal(w, r, "register", err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sess)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Controller) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess, err := c.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		c.internal(w, r, "login", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (c *Controller) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess, err := c.uc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		c.internal(w, r, "refresh", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

type requestResetRequest struct {
	Email string `json:"email"`
}

func (c *Controller) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := c.uc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		c.internal(w, r, "password reset request", err)
		return
	}
	// same body for known and unknown addresses
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "If this email exists, a reset link has been sent.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (c *Controller) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	err := c.uc.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrResetTokenInvalid):
			httpx.Error(w, http.StatusBadRequest, "Invalid or expired token")
		case errors.Is(err, ErrResetTokenExpired):
			httpx.Error(w, http.StatusBadRequest, "Token expired")
		case errors.Is(err, ErrWeakPassword):
			httpx.Error(w, http.StatusBadRequest, "Password must be at least 8 characters")
		default:
			c.internal(w, r, "password reset", err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (c *Controller) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	obs.WithTrace(r.Context(), c.log).Error(op+" failed", zap.Error(err))
	httpx.Error(w, http.StatusInternalServerError, "internal error")
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
