package user

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	domainuser "github.com/flexiride/backend/internal/domain/user"
	"github.com/flexiride/backend/internal/obs"
	"github.com/flexiride/backend/internal/services/auth"
	"github.com/flexiride/backend/internal/services/httpx"
)

type Controller struct {
	log *zap.Logger
	uc  *Usecase
}

func NewController(uc *Usecase, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{uc: uc, log: log.With(zap.String("component", "user.http"))}
}

func (c *Controller) Register(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /users/{id}", c.handleGet)
	mux.Handle("PATCH /users/me", requireAuth(http.HandlerFunc(c.handleUpdateMe)))
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	rec, err := c.uc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		obs.WithTrace(r.Context(), c.log).Error("get user failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec.Public())
}

type updateMeRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

func (c *Controller) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req updateMeRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := c.uc.UpdateProfile(r.Context(), uid, UpdateProfileInput{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFields):
			httpx.Error(w, http.StatusBadRequest, "No valid fields provided for update")
		case errors.Is(err, domainuser.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found")
		default:
			obs.WithTrace(r.Context(), c.log).Error("update profile failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec.Public())
}
