package services

import (
	"context"

	"gorm.io/gorm"

	"chartchat/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	VizSessions  VizSessionService
	ModelConfigs ModelConfigService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	vizSessionRepo := repositories.NewVizSessionRepository(db)
	modelSettingRepo := repositories.NewModelSettingRepository(db)

	return &DbServices{
		VizSessions:  NewVizSessionService(vizSessionRepo),
		ModelConfigs: NewModelConfigService(modelSettingRepo),
	}
}

// Startup runs the per-service initialization that needs a context.
func (s *DbServices) Startup(ctx context.Context) error {
	return s.ModelConfigs.Startup(ctx)
}
