package vehicle

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	domainvehicle "github.com/flexiride/backend/internal/domain/vehicle"
	"github.com/flexiride/backend/internal/obs"
	"github.com/flexiride/backend/internal/services/auth"
	"github.com/flexiride/backend/internal/services/httpx"
)

// Uploader hands out presigned PUT URLs for vehicle images.
type Uploader interface {
	PresignUpload(ctx context.Context) (key, url string, err error)
}

type Controller struct {
	log     *zap.Logger
	uc      *Usecase
	uploads Uploader
}

func NewController(uc *Usecase, uploads Uploader, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{uc: uc, uploads: uploads, log: log.With(zap.String("component", "vehicle.http"))}
}

func (c *Controller) Register(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /vehicles", c.handleList)
	mux.HandleFunc("GET /vehicles/{id}", c.handleGet)
	mux.Handle("POST /vehicles", requireAuth(http.HandlerFunc(c.handleCreate)))
	mux.Handle("PATCH /vehicles/{id}", requireAuth(http.HandlerFunc(c.handleUpdate)))
	mux.Handle("DELETE /vehicles/{id}", requireAuth(http.HandlerFunc(c.handleDelete)))
	mux.Handle("DELETE /vehicles/{id}/images", requireAuth(http.HandlerFunc(c.handleRemoveImage)))
	mux.Handle("POST /vehicles/uploads", requireAuth(http.HandlerFunc(c.handlePresignUpload)))
}

type createRequest struct {
	Title           string                    `json:"title"`
	Type            domainvehicle.Type        `json:"type"`
	PricePerHour    float64                   `json:"pricePerHour"`
	PricePerDay     float64                   `json:"pricePerDay"`
	Location        domainvehicle.Location    `json:"location"`
	AvailableRanges []domainvehicle.DateRange `json:"availableRanges"`
	Description     string                    `json:"description"`
	Images          []string                  `json:"images"`
}

func (c *Controller) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req createRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Title == "" || !req.Type.Valid() || req.PricePerHour < 0 || req.PricePerDay < 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid vehicle data")
		return
	}

	v, err := c.uc.Create(r.Context(), uid, CreateInput{
		Title:           req.Title,
		Type:            req.Type,
		PricePerHour:    req.PricePerHour,
		PricePerDay:     req.PricePerDay,
		Location:        req.Location,
		AvailableRanges: req.AvailableRanges,
		Description:     req.Description,
		Images:          req.Images,
	})
	if err != nil {
		c.internal(w, r, "create vehicle", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, v)
}

func (c *Controller) handleList(w http.ResponseWriter, r *http.Request) {
	var f domainvehicle.Filter
	q := r.URL.Query()
	if s := q.Get("ownerId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid ownerId")
			return
		}
		f.OwnerID = &id
	}
	if s := q.Get("type"); s != "" {
		t := domainvehicle.Type(s)
		if !t.Valid() {
			httpx.Error(w, http.StatusBadRequest, "invalid type")
			return
		}
		f.Type = t
	}
	if s := q.Get("status"); s != "" {
		st := domainvehicle.Status(s)
		if !st.Valid() {
			httpx.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
		f.Status = st
	}

	vs, err := c.uc.List(r.Context(), f)
	if err != nil {
		c.internal(w, r, "list vehicles", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, vs)
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	v, err := c.uc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domainvehicle.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		c.internal(w, r, "get vehicle", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

type updateRequest struct {
	Title           *string                    `json:"title"`
	PricePerHour    *float64                   `json:"pricePerHour"`
	PricePerDay     *float64                   `json:"pricePerDay"`
	Location        *domainvehicle.Location    `json:"location"`
	AvailableRanges *[]domainvehicle.DateRange `json:"availableRanges"`
	Description     *string                    `json:"description"`
	Status          *domainvehicle.Status      `json:"status"`
	NewImages       []string                   `json:"newImages"`
}

func (c *Controller) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromCtx(r.Context())
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		httpx.Error(w, http.StatusBadRequest, "invalid status")
		return
	}

	v, err := c.uc.Update(r.Context(), id, uid, UpdateInput{
		Title:           req.Title,
		PricePerHour:    req.PricePerHour,
		PricePerDay:     req.PricePerDay,
		Location:        req.Location,
		AvailableRanges: req.AvailableRanges,
		Description:     req.Description,
		Status:          req.Status,
		NewImages:       req.NewImages,
	})
	if err != nil {
		c.writeVehicleErr(w, r, "update vehicle", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (c *Controller) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromCtx(r.Context())
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	if err := c.uc.Delete(r.Context(), id, uid); err != nil {
		c.writeVehicleErr(w, r, "delete vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type removeImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

func (c *Controller) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromCtx(r.Context())
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	var req removeImageRequest
	if err := httpx.Decode(w, r, &req); err != nil || req.ImageURL == "" {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	v, err := c.uc.RemoveImage(r.Context(), id, uid, req.ImageURL)
	if err != nil {
		c.writeVehicleErr(w, r, "remove image", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (c *Controller) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := c.uploads.PresignUpload(r.Context())
	if err != nil {
		c.internal(w, r, "presign upload", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

func (c *Controller) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Vehicle not found")
		return 0, false
	}
	return id, true
}

func (c *Controller) writeVehicleErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domainvehicle.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Vehicle not found")
	case errors.Is(err, domainvehicle.ErrNotOwner):
		httpx.Error(w, http.StatusForbidden, "You do not own this vehicle")
	default:
		c.internal(w, r, op, err)
	}
}

func (c *Controller) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	obs.WithTrace(r.Context(), c.log).Error(op+" failed", zap.Error(err))
	httpx.Error(w, http.StatusInternalServerError, "internal error")
}
