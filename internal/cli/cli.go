// Package cli holds the cobra commands and the runtime wiring they share.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"chartchat/internal/config"
	"chartchat/internal/database"
	"chartchat/internal/events"
	"chartchat/internal/models"
	"chartchat/internal/services"
)

// runtime bundles everything a command needs: config, logger, database
// and the service container. Built per invocation, closed on exit.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	db      *services.DbServices
	keyring *services.KeyringService
	charts  *services.ChartService
	closeDB func() error
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.Log.Level)
	events.EnableLogEmitter(log)

	dbPath := strings.TrimSpace(cfg.Database.Path)
	if dbPath == "" {
		dbPath = database.GetDefaultDBPath()
	}
	db, err := database.Init(database.Config{
		Path:     dbPath,
		LogLevel: gormlogger.Warn,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &runtime{cfg: cfg, log: log}
	if sqlDB, err := db.DB(); err == nil {
		r.closeDB = sqlDB.Close
	}

	r.db = services.NewDbServices(db)
	if err := r.db.Startup(ctx); err != nil {
		r.Close()
		return nil, err
	}
	r.keyring = services.NewKeyringService()
	r.charts = services.NewChartService(cfg.Pipeline, r.keyring, r.db.ModelConfigs, r.db.VizSessions, log)
	return r, nil
}

func (r *runtime) Close() {
	if r.closeDB != nil {
		if err := r.closeDB(); err != nil {
			r.log.Warn().Err(err).Msg("failed to close database")
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func loadDataset(path string) (models.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("--table is required")
	}
	return models.LoadTable(path)
}

func writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Println(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
