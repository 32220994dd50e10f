package pipeline

import (
	"context"

	"chartchat/internal/llm/client"
)

// clientMock satisfies client.Client with injectable behavior. Calls
// counts every Complete invocation across the whole pipeline run.
type clientMock struct {
	CompleteFunc func(ctx context.Context, system, user string) (string, error)
	Calls        int
	Prompts      []string
}

func (m *clientMock) Complete(ctx context.Context, system, user string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, user)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	return "", &client.EmptyResponseError{Provider: "mock", Model: "mock"}
}

func (m *clientMock) ModelName() string {
	return "mock"
}
