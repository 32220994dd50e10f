package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"chartchat/internal/assets"
	"chartchat/internal/models"
	"chartchat/internal/repositories"
)

// ModelConfigService exposes the embedded provider/model catalog with
// per-model enablement persisted through the settings repository.
type ModelConfigService interface {
	Startup(ctx context.Context) error
	ListModelGroups() ([]models.LLMModelGroup, error)
	GetModel(modelKey string) (*models.LLMModel, error)
	DefaultModelForProvider(provider string) (*models.LLMModel, error)
	SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error)
	SetProviderEnabled(provider string, enabled bool) error
}

type modelConfigService struct {
	repo repositories.ModelSettingRepository

	providerOrder []string
	providerNames map[string]string
	catalog       map[string]models.LLMModel // key -> catalog entry, Enabled filled at read time
	settings      map[string]bool
}

type rawModelFile struct {
	Providers []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Models      []struct {
			DisplayName string `json:"displayName"`
			APIName     string `json:"apiName"`
		} `json:"models"`
	} `json:"providers"`
}

func NewModelConfigService(repo repositories.ModelSettingRepository) ModelConfigService {
	return &modelConfigService{
		repo:          repo,
		providerNames: make(map[string]string),
		catalog:       make(map[string]models.LLMModel),
		settings:      make(map[string]bool),
	}
}

// Startup parses the embedded catalog and seeds enablement settings for
// models that have none yet.
func (s *modelConfigService) Startup(ctx context.Context) error {
	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		s.providerOrder = append(s.providerOrder, providerID)
		s.providerNames[providerID] = strings.TrimSpace(provider.DisplayName)
		for _, mdl := range provider.Models {
			key := providerID + "|" + strings.TrimSpace(mdl.APIName)
			s.catalog[key] = models.LLMModel{
				Key:          key,
				DisplayName:  strings.TrimSpace(mdl.DisplayName),
				APIName:      strings.TrimSpace(mdl.APIName),
				ProviderID:   providerID,
				ProviderName: s.providerName(providerID),
			}
		}
	}

	existing, err := s.repo.List()
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	for _, setting := range existing {
		s.settings[setting.ModelKey] = setting.Enabled
	}
	for key, def := range s.catalog {
		if _, ok := s.settings[key]; !ok {
			if _, err := s.repo.Upsert(key, def.ProviderID, true); err != nil {
				return fmt.Errorf("seed model setting for %s: %w", key, err)
			}
			s.settings[key] = true
		}
	}
	return nil
}

func (s *modelConfigService) ListModelGroups() ([]models.LLMModelGroup, error) {
	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: s.providerName(providerID),
			Models:       s.modelsForProvider(providerID),
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *modelConfigService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}
	entry, ok := s.catalog[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	entry.Enabled = s.settings[entry.Key]
	return &entry, nil
}

// DefaultModelForProvider returns the first enabled model of a provider,
// in catalog order.
func (s *modelConfigService) DefaultModelForProvider(provider string) (*models.LLMModel, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	for _, mdl := range s.modelsForProvider(provider) {
		if mdl.Enabled {
			entry := mdl
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("no enabled model for provider %s", provider)
}

func (s *modelConfigService) SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error) {
	entry, err := s.GetModel(modelKey)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Upsert(entry.Key, entry.ProviderID, enabled); err != nil {
		return nil, err
	}
	s.settings[entry.Key] = enabled
	entry.Enabled = enabled
	return entry, nil
}

func (s *modelConfigService) SetProviderEnabled(provider string, enabled bool) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return fmt.Errorf("provider is required")
	}
	if err := s.repo.SetProviderEnabled(provider, enabled); err != nil {
		return err
	}
	for key, mdl := range s.catalog {
		if mdl.ProviderID == provider {
			s.settings[key] = enabled
		}
	}
	return nil
}

func (s *modelConfigService) modelsForProvider(providerID string) []models.LLMModel {
	var out []models.LLMModel
	for _, mdl := range s.catalog {
		if mdl.ProviderID != providerID {
			continue
		}
		mdl.Enabled = s.settings[mdl.Key]
		out = append(out, mdl)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out
}

func (s *modelConfigService) providerName(providerID string) string {
	if name, ok := s.providerNames[providerID]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return providerID
}
