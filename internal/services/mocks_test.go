package services

import (
	"chartchat/internal/models"
)

// ModelSettingRepositoryMock implements repositories.ModelSettingRepository
// with injectable behavior per method.
type ModelSettingRepositoryMock struct {
	ListFunc               func() ([]models.ModelSetting, error)
	GetByKeyFunc           func(modelKey string) (*models.ModelSetting, error)
	UpsertFunc             func(modelKey, provider string, enabled bool) (*models.ModelSetting, error)
	SetProviderEnabledFunc func(provider string, enabled bool) error
}

func (m *ModelSettingRepositoryMock) List() ([]models.ModelSetting, error) {
	return m.ListFunc()
}

func (m *ModelSettingRepositoryMock) GetByKey(modelKey string) (*models.ModelSetting, error) {
	return m.GetByKeyFunc(modelKey)
}

func (m *ModelSettingRepositoryMock) Upsert(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
	return m.UpsertFunc(modelKey, provider, enabled)
}

func (m *ModelSettingRepositoryMock) SetProviderEnabled(provider string, enabled bool) error {
	return m.SetProviderEnabledFunc(provider, enabled)
}

// VizSessionRepositoryMock implements repositories.VizSessionRepository.
type VizSessionRepositoryMock struct {
	ListFunc         func() ([]models.VizSession, error)
	GetByNameFunc    func(name string) (*models.VizSession, error)
	UpsertFunc       func(name, provider, modelKey, historyJSON string, currentSeq uint64) (*models.VizSession, error)
	DeleteByNameFunc func(name string) error
}

func (m *VizSessionRepositoryMock) List() ([]models.VizSession, error) {
	return m.ListFunc()
}

func (m *VizSessionRepositoryMock) GetByName(name string) (*models.VizSession, error) {
	return m.GetByNameFunc(name)
}

func (m *VizSessionRepositoryMock) Upsert(name, provider, modelKey, historyJSON string, currentSeq uint64) (*models.VizSession, error) {
	return m.UpsertFunc(name, provider, modelKey, historyJSON, currentSeq)
}

func (m *VizSessionRepositoryMock) DeleteByName(name string) error {
	return m.DeleteByNameFunc(name)
}
