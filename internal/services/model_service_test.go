package services

import (
	"context"
	"testing"

	"chartchat/internal/models"
	"chartchat/internal/utils"
)

func newSeededModelService(t *testing.T, stored []models.ModelSetting) (ModelConfigService, *ModelSettingRepositoryMock) {
	t.Helper()
	upserts := make(map[string]bool)
	repo := &ModelSettingRepositoryMock{
		ListFunc: func() ([]models.ModelSetting, error) {
			return stored, nil
		},
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			upserts[modelKey] = enabled
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
	}
	svc := NewModelConfigService(repo)
	utils.NilError(t, svc.Startup(context.Background()))
	return svc, repo
}

func TestModelConfigServiceStartupSeedsCatalog(t *testing.T) {
	svc, _ := newSeededModelService(t, nil)

	groups, err := svc.ListModelGroups()
	utils.NilError(t, err)
	if len(groups) == 0 {
		t.Fatal("expected at least one provider group from the embedded catalog")
	}
	for _, group := range groups {
		if len(group.Models) == 0 {
			t.Fatalf("provider %s has no models", group.ProviderID)
		}
		for _, mdl := range group.Models {
			// Fresh settings default to enabled.
			utils.Equal(t, mdl.Enabled, true)
			utils.Equal(t, mdl.ProviderID, group.ProviderID)
		}
	}
}

func TestModelConfigServiceHonorsStoredSettings(t *testing.T) {
	svc, _ := newSeededModelService(t, []models.ModelSetting{
		{ModelKey: "openai|gpt-4o", Provider: "openai", Enabled: false},
	})

	mdl, err := svc.GetModel("openai|gpt-4o")
	utils.NilError(t, err)
	utils.Equal(t, mdl.Enabled, false)
	utils.Equal(t, mdl.ProviderID, "openai")
}

func TestModelConfigServiceGetModelUnknownKey(t *testing.T) {
	svc, _ := newSeededModelService(t, nil)

	if _, err := svc.GetModel("nope|missing"); err == nil {
		t.Fatal("expected an error for an unknown model key")
	}
	if _, err := svc.GetModel(""); err == nil {
		t.Fatal("expected an error for a blank model key")
	}
}

func TestModelConfigServiceSetModelEnabled(t *testing.T) {
	svc, _ := newSeededModelService(t, nil)

	groups, err := svc.ListModelGroups()
	utils.NilError(t, err)
	key := groups[0].Models[0].Key

	mdl, err := svc.SetModelEnabled(key, false)
	utils.NilError(t, err)
	utils.Equal(t, mdl.Enabled, false)

	reread, err := svc.GetModel(key)
	utils.NilError(t, err)
	utils.Equal(t, reread.Enabled, false)
}

func TestModelConfigServiceSetProviderEnabled(t *testing.T) {
	providerCalls := 0
	repo := &ModelSettingRepositoryMock{
		ListFunc: func() ([]models.ModelSetting, error) {
			return nil, nil
		},
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
		SetProviderEnabledFunc: func(provider string, enabled bool) error {
			providerCalls++
			utils.Equal(t, provider, "gemini")
			utils.Equal(t, enabled, false)
			return nil
		},
	}
	svc := NewModelConfigService(repo)
	utils.NilError(t, svc.Startup(context.Background()))

	utils.NilError(t, svc.SetProviderEnabled("gemini", false))
	utils.Equal(t, providerCalls, 1)

	// Every gemini model now reads disabled.
	mdl, err := svc.DefaultModelForProvider("gemini")
	if err == nil {
		t.Fatalf("expected no enabled gemini model, got %s", mdl.Key)
	}
}

func TestModelConfigServiceDefaultModelForProvider(t *testing.T) {
	svc, _ := newSeededModelService(t, nil)

	mdl, err := svc.DefaultModelForProvider("anthropic")
	utils.NilError(t, err)
	utils.Equal(t, mdl.ProviderID, "anthropic")
	utils.Equal(t, mdl.Enabled, true)

	if _, err := svc.DefaultModelForProvider("unknown"); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}
