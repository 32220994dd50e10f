package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"chartchat/internal/models"
	"chartchat/internal/repositories"
)

// VizSessionService persists named visualization workflows: the serialized
// history log plus the current-artifact pointer.
type VizSessionService interface {
	List() ([]models.VizSession, error)
	Get(name string) (*models.VizSession, error)
	Save(name, provider, modelKey string, entries []models.HistoryEntry, currentSeq uint64) (*models.VizSession, error)
	LoadHistory(sess *models.VizSession) ([]models.HistoryEntry, error)
	Delete(name string) error
}

type vizSessionService struct {
	repo repositories.VizSessionRepository
}

func NewVizSessionService(repo repositories.VizSessionRepository) VizSessionService {
	return &vizSessionService{repo: repo}
}

func (s *vizSessionService) List() ([]models.VizSession, error) {
	return s.repo.List()
}

func (s *vizSessionService) Get(name string) (*models.VizSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	return s.repo.GetByName(name)
}

func (s *vizSessionService) Save(name, provider, modelKey string, entries []models.HistoryEntry, currentSeq uint64) (*models.VizSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("serialize history: %w", err)
	}
	return s.repo.Upsert(name, strings.TrimSpace(provider), strings.TrimSpace(modelKey), string(encoded), currentSeq)
}

func (s *vizSessionService) LoadHistory(sess *models.VizSession) ([]models.HistoryEntry, error) {
	if sess == nil || strings.TrimSpace(sess.HistoryJSON) == "" {
		return nil, nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(sess.HistoryJSON), &entries); err != nil {
		return nil, fmt.Errorf("parse stored history: %w", err)
	}
	return entries, nil
}

func (s *vizSessionService) Delete(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	return s.repo.DeleteByName(name)
}
