package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"chartchat/internal/llm/client"
	"chartchat/internal/models"
	"chartchat/internal/utils"
)

func testDataset() models.Dataset {
	return models.NewTable(
		models.Schema{{Name: "name", Type: "string"}, {Name: "value", Type: "number"}},
		[]models.Row{{"name": "a", "value": 1}, {"name": "b", "value": 2}},
	)
}

func testOptions() Options {
	return Options{
		MaxAttempts:     3,
		HistoryCapacity: 10,
		SampleCap:       50,
		SampleDetail:    5,
		EntryPoint:      "drawChart",
	}
}

func newTestSession(t *testing.T, mock *clientMock, opts Options) *Session {
	t.Helper()
	s, err := NewSession("test", testDataset(), mock, opts, zerolog.Nop())
	utils.NilError(t, err)
	return s
}

func TestSessionGenerateValidFirstTry(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return validResponse, nil
		},
	}
	s := newTestSession(t, mock, testOptions())

	report, err := s.Generate(context.Background(), "")

	utils.NilError(t, err)
	utils.Equal(t, report.Entry.Seq, uint64(1))
	utils.Equal(t, report.Entry.Artifact.State, models.ArtifactValid)
	utils.Equal(t, report.Attempts, 0)
	utils.NilError(t, report.Failure)
	utils.Equal(t, mock.Calls, 1)
	utils.Equal(t, s.CurrentSeq(), uint64(1))
	// The sanitized response is stored as-is.
	utils.Equal(t, report.Entry.Artifact.Code, validResponse)
}

func TestSessionEmptyBackendExhaustsThenFallsBack(t *testing.T) {
	// The zero-value mock answers every call with an empty response.
	mock := &clientMock{}
	opts := testOptions()
	opts.MaxAttempts = 3
	s := newTestSession(t, mock, opts)

	report, err := s.Generate(context.Background(), "")

	utils.NilError(t, err)
	utils.Equal(t, report.Entry.Artifact.State, models.ArtifactFallback)
	utils.Equal(t, report.Attempts, 3)
	// One initial call plus the refinement attempts.
	utils.Equal(t, mock.Calls, 4)
	if report.Failure == nil {
		t.Fatal("expected the terminal failure to be recorded")
	}
}

func TestSessionGenerateRepairsInvalidResponse(t *testing.T) {
	responses := []string{
		// Unbalanced parentheses survive sanitization and fail validation.
		"function drawChart(data) {\n  d3.select((\"#visualization\");\n}",
		validResponse,
	}
	mock := &clientMock{}
	mock.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return responses[mock.Calls-1], nil
	}
	s := newTestSession(t, mock, testOptions())

	report, err := s.Generate(context.Background(), "")

	utils.NilError(t, err)
	utils.Equal(t, report.Entry.Artifact.State, models.ArtifactRepaired)
	utils.Equal(t, report.Attempts, 1)
	utils.NilError(t, report.Failure)
	utils.Equal(t, mock.Calls, 2)
}

func TestSessionGenerateFallsBackWhenRefinementExhausted(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "function drawChart(data) {\n  d3.select((\"#visualization\");\n}", nil
		},
	}
	opts := testOptions()
	opts.MaxAttempts = 2
	s := newTestSession(t, mock, opts)

	report, err := s.Generate(context.Background(), "")

	utils.NilError(t, err)
	utils.Equal(t, report.Entry.Artifact.State, models.ArtifactFallback)
	// One initial call plus two refinement attempts.
	utils.Equal(t, mock.Calls, 3)
	utils.Equal(t, report.Attempts, 2)

	var validation *ValidationError
	utils.Equal(t, errors.As(report.Failure, &validation), true)
	// The fallback is always a recorded, renderable artifact.
	utils.Equal(t, report.Entry.Seq, uint64(1))
	utils.Equal(t, strings.Contains(report.Entry.Artifact.Code, "function drawChart(data)"), true)
}

func TestSessionGenerateTransportFailureSkipsRefinement(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "", &client.TransportError{Provider: "mock", Model: "mock", Err: errors.New("timeout")}
		},
	}
	s := newTestSession(t, mock, testOptions())

	report, err := s.Generate(context.Background(), "")

	utils.NilError(t, err)
	utils.Equal(t, report.Entry.Artifact.State, models.ArtifactFallback)
	// Backend instability must not burn refinement attempts.
	utils.Equal(t, report.Attempts, 0)
	utils.Equal(t, mock.Calls, 1)

	var transport *client.TransportError
	utils.Equal(t, errors.As(report.Failure, &transport), true)
}

func TestSessionModifyFeedsCurrentArtifactForward(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return validResponse, nil
		},
	}
	s := newTestSession(t, mock, testOptions())

	_, err := s.Generate(context.Background(), "")
	utils.NilError(t, err)
	_, err = s.Generate(context.Background(), "make the bars blue")
	utils.NilError(t, err)

	utils.Equal(t, mock.Calls, 2)
	utils.Equal(t, strings.Contains(mock.Prompts[1], "Modify the current visualization"), true)
	utils.Equal(t, strings.Contains(mock.Prompts[1], "make the bars blue"), true)
	utils.Equal(t, strings.Contains(mock.Prompts[1], "d3.select(\"#visualization\")"), true)
}

func TestSessionRevertMovesPointerWithoutTruncating(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return validResponse, nil
		},
	}
	s := newTestSession(t, mock, testOptions())

	for i := 0; i < 3; i++ {
		_, err := s.Generate(context.Background(), "")
		utils.NilError(t, err)
	}

	artifact, err := s.Revert(2)
	utils.NilError(t, err)
	utils.Equal(t, artifact.State, models.ArtifactValid)
	utils.Equal(t, s.CurrentSeq(), uint64(2))
	// Later entries survive a revert.
	utils.Equal(t, len(s.History()), 3)

	// Idempotent: reverting again is a no-op.
	_, err = s.Revert(2)
	utils.NilError(t, err)
	utils.Equal(t, s.CurrentSeq(), uint64(2))
}

func TestSessionRevertToEvictedSequenceFails(t *testing.T) {
	mock := &clientMock{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return validResponse, nil
		},
	}
	opts := testOptions()
	opts.HistoryCapacity = 2
	s := newTestSession(t, mock, opts)

	for i := 0; i < 3; i++ {
		_, err := s.Generate(context.Background(), "")
		utils.NilError(t, err)
	}

	_, err := s.Revert(1)

	var invalid *InvalidReferenceError
	utils.Equal(t, errors.As(err, &invalid), true)
	utils.Equal(t, invalid.Seq, uint64(1))
	utils.Equal(t, invalid.Oldest, uint64(2))
	utils.Equal(t, invalid.Newest, uint64(3))
}

func TestSessionRestoreClampsDanglingPointer(t *testing.T) {
	mock := &clientMock{}
	s := newTestSession(t, mock, testOptions())

	s.Restore([]models.HistoryEntry{
		{Seq: 7, Artifact: models.Artifact{Code: "a", State: models.ArtifactValid}},
		{Seq: 8, Artifact: models.Artifact{Code: "b", State: models.ArtifactValid}},
	}, 3)

	utils.Equal(t, s.CurrentSeq(), uint64(8))
	entry, ok := s.Current()
	utils.Equal(t, ok, true)
	utils.Equal(t, entry.Artifact.Code, "b")
}

func TestNewSessionRejectsBadOptions(t *testing.T) {
	mock := &clientMock{}

	cases := map[string]Options{
		"zero attempts": {MaxAttempts: 0, HistoryCapacity: 10, SampleCap: 50},
		"zero capacity": {MaxAttempts: 3, HistoryCapacity: 0, SampleCap: 50},
		"zero sample":   {MaxAttempts: 3, HistoryCapacity: 10, SampleCap: 0},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewSession("test", testDataset(), mock, opts, zerolog.Nop()); err == nil {
				t.Fatal("expected an options error")
			}
		})
	}
}
