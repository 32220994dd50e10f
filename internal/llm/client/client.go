// Package client wraps the eino chat-model components behind a single
// blocking completion call. The backend is treated as a stateless text
// completion function: no tools, no conversation state, no retries.
// Retries belong to the refiner, which composes a fresh request each time.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const defaultMaxTokens = 4096

// Client is the generation backend collaborator.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	ModelName() string
}

// LLMClient adapts one provider chat model to the Client interface.
type LLMClient struct {
	chatModel einomodel.BaseChatModel
	provider  string
	modelName string
}

type ClaudeModelOptions struct {
	Model    string
	Thinking bool
}

type OpenAIModelOptions struct {
	Model           string
	ReasoningEffort string
}

type GeminiModelOptions struct {
	Model    string
	Thinking bool
}

func NewClaudeClient(ctx context.Context, apiKey string, opts ClaudeModelOptions) (*LLMClient, error) {
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    apiKey,
		Model:     opts.Model,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &LLMClient{chatModel: cm, provider: "anthropic", modelName: opts.Model}, nil
}

func NewOpenAIClient(ctx context.Context, apiKey string, opts OpenAIModelOptions) (*LLMClient, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &LLMClient{chatModel: cm, provider: "openai", modelName: opts.Model}, nil
}

func NewGeminiClient(ctx context.Context, apiKey string, opts GeminiModelOptions) (*LLMClient, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: gc,
		Model:  opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return &LLMClient{chatModel: cm, provider: "gemini", modelName: opts.Model}, nil
}

func (c *LLMClient) ModelName() string {
	return c.modelName
}

// Complete sends one system+user exchange and returns the raw response
// text. Backend failures map to *TransportError; a trimmed-empty response
// maps to *EmptyResponseError. The call blocks until the transport returns;
// timeout enforcement is the transport's responsibility.
func (c *LLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	out, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", &TransportError{Provider: c.provider, Model: c.modelName, Err: err}
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", &EmptyResponseError{Provider: c.provider, Model: c.modelName}
	}
	return out.Content, nil
}
