package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chartchat/internal/models"
)

type VizSessionRepository interface {
	List() ([]models.VizSession, error)
	GetByName(name string) (*models.VizSession, error)
	Upsert(name, provider, modelKey, historyJSON string, currentSeq uint64) (*models.VizSession, error)
	DeleteByName(name string) error
}

type vizSessionRepository struct {
	db *gorm.DB
}

func NewVizSessionRepository(db *gorm.DB) VizSessionRepository {
	return &vizSessionRepository{db: db}
}

func (r *vizSessionRepository) List() ([]models.VizSession, error) {
	var sessions []models.VizSession
	res := r.db.Order("updated_at desc").Find(&sessions)
	if res.Error != nil {
		return nil, res.Error
	}
	return sessions, nil
}

func (r *vizSessionRepository) GetByName(name string) (*models.VizSession, error) {
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	var sess models.VizSession
	res := r.db.Where("name = ?", name).Take(&sess)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &sess, nil
}

func (r *vizSessionRepository) Upsert(name, provider, modelKey, historyJSON string, currentSeq uint64) (*models.VizSession, error) {
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	sess := models.VizSession{
		Name:        name,
		Provider:    provider,
		ModelKey:    modelKey,
		HistoryJSON: historyJSON,
		CurrentSeq:  currentSeq,
	}
	// Upsert on the unique session name
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider", "model_key", "history_json", "current_seq", "updated_at"}),
	}).Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *vizSessionRepository) DeleteByName(name string) error {
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	return r.db.Where("name = ?", name).Delete(&models.VizSession{}).Error
}
