// Package app composes the bot from its parts: configuration, logger,
// the selected storage driver and the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kinobot/bot"
	"github.com/m3rciful/kinobot/config"
	"github.com/m3rciful/kinobot/conversation"
	"github.com/m3rciful/kinobot/database"
	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/storage/httpapi"
	"github.com/m3rciful/kinobot/storage/postgres"
)

// App holds the composed application state between bootstrap and run.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	store    storage.Store
	conv     *conversation.Store
	handlers *bot.Handlers
}

// Bootstrap initializes the logger, opens the configured storage driver
// and builds the handler set. For the postgres driver it also applies
// migrations and seeds the required channels.
func Bootstrap(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	a := &App{cfg: cfg, conv: conversation.NewStore()}

	switch cfg.Storage.Driver {
	case config.StorageDriverAPI:
		store, err := httpapi.New(httpapi.Options{
			BaseURL: cfg.Storage.API.BaseURL,
			Token:   cfg.Storage.API.Token,
			Timeout: time.Duration(cfg.Storage.API.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("app: storage api init failed: %w", err)
		}
		a.store = store

	default:
		dbCfg := databaseConfig(cfg)
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("app: database initialization failed: %w", err)
		}
		if err := database.RunMigrations(dbCfg); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("app: migrations failed: %w", err)
		}
		a.db = db
		a.store = postgres.New(db)

		if err := seedChannels(context.Background(), cfg, a.store); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("app: channel seed failed: %w", err)
		}
	}

	a.handlers = bot.New(cfg, a.store, a.conv)
	return a, nil
}

// databaseConfig maps the loaded settings onto the database layer,
// which sits below config and cannot import it.
func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Name:           cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
	}
}
