package main

import (
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	config "github.com/flexiride/backend/internal/config/api"
	"github.com/flexiride/backend/internal/notifier"
	"github.com/flexiride/backend/internal/obs"
	pg "github.com/flexiride/backend/internal/repository/postgres"
	s3store "github.com/flexiride/backend/internal/repository/s3"
	"github.com/flexiride/backend/internal/services/auth"
	usersvc "github.com/flexiride/backend/internal/services/user"
	vehiclesvc "github.com/flexiride/backend/internal/services/vehicle"
)

// app bundles the wired usecases so main can reach the pieces it needs
// (the reset sweeper, the controllers).
type app struct {
	authUC    *auth.Usecase
	userUC    *usersvc.Usecase
	vehicleUC *vehiclesvc.Usecase
	resets    *auth.ResetTokenStore
	uploads   *s3store.ImageStore
	log       *zap.Logger
}

func buildApp(cfg *config.Config, logger *zap.Logger, db *pg.DB) *app {
	userRepo := pg.NewUserRepo(db)
	vehicleRepo := pg.NewVehicleRepo(db)

	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	resets := auth.NewResetTokenStore(cfg.Auth.ResetTTL)
	mailer := notifier.New(cfg.SMTP, logger)

	authUC := auth.NewUsecase(userRepo, tokens, resets, mailer, logger, auth.Config{
		HashCost:     cfg.Auth.HashCost,
		ResetBaseURL: cfg.Auth.ResetBaseURL,
	})

	return &app{
		authUC:    authUC,
		userUC:    usersvc.NewUsecase(userRepo),
		vehicleUC: vehiclesvc.NewUsecase(vehicleRepo),
		resets:    resets,
		uploads:   s3store.NewImageStore(cfg.S3),
		log:       logger,
	}
}

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, a *app) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := auth.RequireAuth(a.authUC.ParseAccess)
	auth.NewController(a.authUC, logger).Register(mux)
	usersvc.NewController(a.userUC, logger).Register(mux, requireAuth)
	vehiclesvc.NewController(a.vehicleUC, a.uploads, logger).Register(mux, requireAuth)

	handler := cors(cfg.Server.CORSOrigins)(mux)
	handler = obs.HTTPHandler(handler, "flexiride.api")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func buildMetricsServer(cfg *config.Config, logger *zap.Logger, db *pg.DB) *http.Server {
	return obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Pool.Ping, logger)
}

func cors(origins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || slices.Contains(origins, origin)) {
				if allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
