package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/assistant"
)

// mockCompleter is a scripted model provider.
type mockCompleter struct {
	completion assistant.Completion
	err        error

	lastRequest assistant.Request
}

func (m *mockCompleter) Name() string { return "mock" }

func (m *mockCompleter) Complete(_ context.Context, req assistant.Request) (assistant.Completion, error) {
	m.lastRequest = req
	if m.err != nil {
		return assistant.Completion{}, m.err
	}
	return m.completion, nil
}

func newService(completer *mockCompleter) *assistant.Service {
	return assistant.NewService(assistant.ServiceConfig{
		Completer: completer,
		Logger:    zerolog.Nop(),
	})
}

func TestService_Run(t *testing.T) {
	completer := &mockCompleter{
		completion: assistant.Completion{Content: twoItems, FinishReason: "stop"},
	}

	result, err := newService(completer).Run(context.Background(), assistant.ModeGenerate, testTripContext(), "plan my trip")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Len(t, result.Preview, 2)

	assert.Equal(t, "Rijksmuseum", result.Items[0].Title)
	assert.Contains(t, result.Preview[0], "🎫 Rijksmuseum")
	assert.Contains(t, result.Preview[1], "🍴 De Kas")

	// The built request reached the provider.
	assert.Equal(t, assistant.ModeGenerate, completer.lastRequest.Mode)
	assert.Contains(t, completer.lastRequest.UserMessage, "plan my trip")
}

func TestService_Run_InvalidMode(t *testing.T) {
	completer := &mockCompleter{}

	_, err := newService(completer).Run(context.Background(), "ponder", testTripContext(), "prompt")
	assert.ErrorIs(t, err, assistant.ErrInvalidMode)
	// The provider is never called for an unrecognized mode.
	assert.Empty(t, completer.lastRequest.SystemPrompt)
}

func TestService_Run_ProviderError(t *testing.T) {
	completer := &mockCompleter{err: errors.New("rate limited")}

	_, err := newService(completer).Run(context.Background(), assistant.ModeSuggest, testTripContext(), "prompt")
	assert.ErrorIs(t, err, assistant.ErrUnavailable)
}

func TestService_Run_ParseErrorsSurface(t *testing.T) {
	completer := &mockCompleter{
		completion: assistant.Completion{Content: "I cannot help with that.", FinishReason: "stop"},
	}

	_, err := newService(completer).Run(context.Background(), assistant.ModeSuggest, testTripContext(), "prompt")
	assert.ErrorIs(t, err, assistant.ErrUnparsable)
}

func TestService_Run_TruncatedCompletionRecovered(t *testing.T) {
	completer := &mockCompleter{
		completion: assistant.Completion{
			Content:      `[{"type": "activity", "date": "2025-06-02", "title": "Canal cruise"}, {"type": "res`,
			FinishReason: assistant.FinishReasonLength,
		},
	}

	result, err := newService(completer).Run(context.Background(), assistant.ModeFillGaps, testTripContext(), "prompt")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Canal cruise", result.Items[0].Title)
}
