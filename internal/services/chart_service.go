package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chartchat/internal/config"
	"chartchat/internal/llm/client"
	"chartchat/internal/models"
	"chartchat/internal/pipeline"
)

type sessionRuntime struct {
	session      *pipeline.Session
	providerID   string
	modelKey     string
	modelDisplay string
}

// ChartService wires the provider catalog, keychain and persistence around
// pipeline sessions. All session-mutating operations are serialized through
// one mutex: the pipeline itself is single-writer and must not be entered
// concurrently for the same workflow.
type ChartService struct {
	cfg          config.PipelineConfig
	keyring      *KeyringService
	modelConfigs ModelConfigService
	vizSessions  VizSessionService
	log          zerolog.Logger

	mu       sync.Mutex
	runtimes map[string]*sessionRuntime
}

func NewChartService(cfg config.PipelineConfig, keyring *KeyringService, modelConfigs ModelConfigService, vizSessions VizSessionService, log zerolog.Logger) *ChartService {
	return &ChartService{
		cfg:          cfg,
		keyring:      keyring,
		modelConfigs: modelConfigs,
		vizSessions:  vizSessions,
		log:          log,
		runtimes:     make(map[string]*sessionRuntime),
	}
}

// Generate runs the full pipeline for a named workflow and persists the
// resulting history. An empty instruction produces the initial
// visualization; a non-empty one modifies the current artifact.
func (s *ChartService) Generate(ctx context.Context, sessionName string, dataset models.Dataset, instruction, modelKey string) (pipeline.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionName = strings.TrimSpace(sessionName)
	if sessionName == "" {
		return pipeline.Report{}, fmt.Errorf("session name is required")
	}
	runtime, err := s.ensureRuntime(ctx, sessionName, dataset, modelKey)
	if err != nil {
		return pipeline.Report{}, err
	}

	report, err := runtime.session.Generate(ctx, instruction)
	if err != nil {
		return pipeline.Report{}, err
	}
	if err := s.persistRuntime(sessionName, runtime); err != nil {
		s.log.Warn().Err(err).Str("session", sessionName).Msg("failed to persist session history")
	}
	return report, nil
}

// Revert resolves a stored artifact by sequence number and moves the
// current-artifact pointer to it. Works against the live runtime when one
// exists, otherwise directly against the persisted session.
func (s *ChartService) Revert(sessionName string, seq uint64) (models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionName = strings.TrimSpace(sessionName)
	if runtime, ok := s.runtimes[sessionName]; ok {
		artifact, err := runtime.session.Revert(seq)
		if err != nil {
			return models.Artifact{}, err
		}
		if err := s.persistRuntime(sessionName, runtime); err != nil {
			s.log.Warn().Err(err).Str("session", sessionName).Msg("failed to persist revert")
		}
		return artifact, nil
	}

	stored, entries, err := s.loadStored(sessionName)
	if err != nil {
		return models.Artifact{}, err
	}
	for _, entry := range entries {
		if entry.Seq == seq {
			if _, err := s.vizSessions.Save(sessionName, stored.Provider, stored.ModelKey, entries, seq); err != nil {
				return models.Artifact{}, err
			}
			return entry.Artifact, nil
		}
	}
	ref := &pipeline.InvalidReferenceError{Seq: seq}
	if len(entries) > 0 {
		ref.Oldest = entries[0].Seq
		ref.Newest = entries[len(entries)-1].Seq
	}
	return models.Artifact{}, ref
}

// History returns the stored log and current pointer for a workflow.
func (s *ChartService) History(sessionName string) ([]models.HistoryEntry, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionName = strings.TrimSpace(sessionName)
	if runtime, ok := s.runtimes[sessionName]; ok {
		return runtime.session.History(), runtime.session.CurrentSeq(), nil
	}
	stored, entries, err := s.loadStored(sessionName)
	if err != nil {
		return nil, 0, err
	}
	return entries, stored.CurrentSeq, nil
}

// Current returns the artifact the workflow's pointer designates.
func (s *ChartService) Current(sessionName string) (models.Artifact, error) {
	entries, currentSeq, err := s.History(sessionName)
	if err != nil {
		return models.Artifact{}, err
	}
	for _, entry := range entries {
		if entry.Seq == currentSeq {
			return entry.Artifact, nil
		}
	}
	return models.Artifact{}, fmt.Errorf("session %s has no current artifact", sessionName)
}

func (s *ChartService) loadStored(sessionName string) (*models.VizSession, []models.HistoryEntry, error) {
	stored, err := s.vizSessions.Get(sessionName)
	if err != nil {
		return nil, nil, err
	}
	if stored == nil {
		return nil, nil, fmt.Errorf("session %s not found", sessionName)
	}
	entries, err := s.vizSessions.LoadHistory(stored)
	if err != nil {
		return nil, nil, err
	}
	return stored, entries, nil
}

// ensureRuntime returns the live runtime for a workflow, building one from
// the persisted session when needed.
func (s *ChartService) ensureRuntime(ctx context.Context, sessionName string, dataset models.Dataset, modelKey string) (*sessionRuntime, error) {
	modelKey = strings.TrimSpace(modelKey)
	if runtime, ok := s.runtimes[sessionName]; ok {
		if modelKey == "" || runtime.modelKey == modelKey {
			return runtime, nil
		}
		// Model switch: rebuild the runtime but keep the history.
	}

	stored, err := s.vizSessions.Get(sessionName)
	if err != nil {
		return nil, err
	}
	if modelKey == "" && stored != nil {
		modelKey = strings.TrimSpace(stored.ModelKey)
	}
	if modelKey == "" {
		modelKey = strings.TrimSpace(s.cfg.DefaultModel)
	}
	if modelKey == "" {
		return nil, fmt.Errorf("model is required: pass one or set pipeline.default_model")
	}

	llmClient, modelInfo, err := s.instantiateClient(ctx, modelKey)
	if err != nil {
		return nil, err
	}

	session, err := pipeline.NewSession(sessionName, dataset, llmClient, pipeline.Options{
		MaxAttempts:     s.cfg.MaxAttempts,
		HistoryCapacity: s.cfg.HistoryCapacity,
		SampleCap:       s.cfg.SampleCap,
		SampleDetail:    s.cfg.SampleDetail,
		EntryPoint:      s.cfg.EntryPoint,
	}, s.log)
	if err != nil {
		return nil, err
	}

	if runtime, ok := s.runtimes[sessionName]; ok {
		session.Restore(runtime.session.History(), runtime.session.CurrentSeq())
	} else if stored != nil {
		entries, loadErr := s.vizSessions.LoadHistory(stored)
		if loadErr != nil {
			s.log.Warn().Err(loadErr).Str("session", sessionName).Msg("failed to restore session history")
		} else {
			session.Restore(entries, stored.CurrentSeq)
		}
	}

	runtime := &sessionRuntime{
		session:      session,
		providerID:   modelInfo.ProviderID,
		modelKey:     modelInfo.Key,
		modelDisplay: modelInfo.DisplayName,
	}
	s.runtimes[sessionName] = runtime
	s.log.Info().Str("session", sessionName).Str("model", modelInfo.DisplayName).Str("provider", modelInfo.ProviderID).Msg("session runtime initialized")
	return runtime, nil
}

// instantiateClient resolves a model key to an enabled catalog model, finds
// its API key and builds the provider client.
func (s *ChartService) instantiateClient(ctx context.Context, modelKey string) (client.Client, *models.LLMModel, error) {
	model, err := s.modelConfigs.GetModel(modelKey)
	if err != nil {
		return nil, nil, err
	}
	if !model.Enabled {
		return nil, nil, fmt.Errorf("model %s is disabled", model.DisplayName)
	}

	providerID := strings.TrimSpace(model.ProviderID)
	if providerID == "" {
		return nil, nil, fmt.Errorf("model %s is missing provider information", model.DisplayName)
	}

	apiKey, err := s.keyring.GetApiKey(providerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get API key for %s: %w", providerID, err)
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("API key for %s is not configured", providerID)
	}

	var (
		llmClient *client.LLMClient
		createErr error
	)
	switch providerID {
	case "anthropic":
		llmClient, createErr = client.NewClaudeClient(ctx, apiKey, client.ClaudeModelOptions{
			Model: model.APIName,
		})
	case "openai":
		llmClient, createErr = client.NewOpenAIClient(ctx, apiKey, client.OpenAIModelOptions{
			Model: model.APIName,
		})
	case "gemini":
		llmClient, createErr = client.NewGeminiClient(ctx, apiKey, client.GeminiModelOptions{
			Model: model.APIName,
		})
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", providerID)
	}
	if createErr != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", providerID, createErr)
	}
	return llmClient, model, nil
}

func (s *ChartService) persistRuntime(sessionName string, runtime *sessionRuntime) error {
	_, err := s.vizSessions.Save(sessionName, runtime.providerID, runtime.modelKey,
		runtime.session.History(), runtime.session.CurrentSeq())
	return err
}
