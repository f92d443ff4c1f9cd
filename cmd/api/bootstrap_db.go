package main

import (
	"context"

	config "github.com/flexiride/backend/internal/config/api"
	pg "github.com/flexiride/backend/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.New(ctx, cfg.DB)
}
