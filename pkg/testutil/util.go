package testutil

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// The in-memory database only exists on its connection. Keep the pool at
	// one so concurrent test goroutines see the same data.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "session_id",
		},
		Raffle: config.RaffleConfigs{
			TickInterval: time.Second,
			Duration:     time.Hour,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockContextWithUserID derives a context acting as the given user. Passing
// nil creates a fresh database.
func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = MockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}

func MockContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = MockContext()
	}

	return xcontext.WithRequestSessionID(ctx, sessionID)
}
