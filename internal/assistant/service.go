package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Completer is the model call the service orchestrates. Implemented by the
// Groq client; mocked in tests.
type Completer interface {
	// Complete sends a request and returns the raw reply.
	Complete(ctx context.Context, req Request) (Completion, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the assistant service.
type ServiceConfig struct {
	// Completer is the model provider.
	Completer Completer

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service runs one assistant round: build the request, call the model,
// recover the item drafts.
type Service struct {
	completer Completer
	parser    *Parser
	logger    zerolog.Logger
}

// NewService creates a new assistant service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		completer: cfg.Completer,
		parser:    NewParser(cfg.Logger),
		logger:    cfg.Logger,
	}
}

// Result is one assistant run: the drafts and their preview lines, index
// aligned, in the order the model proposed them.
type Result struct {
	Items   []ItemDraft
	Preview []string
}

// Run executes one assistant round for a trip. Validation failures
// (ErrInvalidMode, the parse error taxonomy) surface as typed errors and are
// never retried here; the caller decides whether to re-invoke.
func (s *Service) Run(ctx context.Context, mode Mode, trip TripContext, prompt string) (*Result, error) {
	req, err := BuildRequest(mode, trip, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("mode", string(mode)).
		Str("destination", trip.DestinationName).
		Int("existing_items", len(trip.Items)).
		Str("provider", s.completer.Name()).
		Msg("running itinerary assistant")

	completion, err := s.completer.Complete(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("mode", string(mode)).
			Msg("assistant completion failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	items, err := s.parser.Parse(completion.Content, completion.FinishReason)
	if err != nil {
		return nil, err
	}

	preview := make([]string, 0, len(items))
	for _, item := range items {
		preview = append(preview, ItemToReadableText(item))
	}

	return &Result{Items: items, Preview: preview}, nil
}
