package featureflags_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/featureflags"
)

func newFlagService() *featureflags.Service {
	return featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
		CacheTTL:   1 * time.Minute,
	})
}

func TestService_GetFlag_DefaultFallback(t *testing.T) {
	service := newFlagService()
	ctx := context.Background()

	flag := service.GetFlag(ctx, featureflags.FlagDisableAssistant)
	if flag == nil {
		t.Fatal("expected flag to be returned")
	}
	if flag.Key != featureflags.FlagDisableAssistant {
		t.Errorf("expected key %q, got %q", featureflags.FlagDisableAssistant, flag.Key)
	}
	if flag.BoolValue(true) != false {
		t.Error("expected disable_assistant to be false by default")
	}
}

func TestService_SetFlag(t *testing.T) {
	service := newFlagService()
	ctx := context.Background()

	err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableAssistant,
		Value: true,
	})
	if err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !service.IsAssistantDisabled(ctx) {
		t.Error("expected assistant to be disabled after update")
	}
}

func TestService_SetFlags(t *testing.T) {
	service := newFlagService()
	ctx := context.Background()

	err := service.SetFlags(ctx, []*featureflags.Flag{
		{Key: featureflags.FlagCachedOnlyWeather, Value: true},
		{Key: featureflags.FlagDisableTripSharing, Value: true},
	})
	if err != nil {
		t.Fatalf("failed to set flags: %v", err)
	}

	if !service.IsCachedOnlyWeather(ctx) {
		t.Error("expected cached only weather to be true")
	}
	if !service.IsTripSharingDisabled(ctx) {
		t.Error("expected trip sharing to be disabled")
	}
}

func TestService_GetAllFlags_MergesDefaults(t *testing.T) {
	service := newFlagService()
	ctx := context.Background()

	if err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableTripSharing,
		Value: true,
	}); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	flags := service.GetAllFlags(ctx)

	// The updated flag and the untouched defaults are both present.
	if !flags[featureflags.FlagDisableTripSharing].BoolValue(false) {
		t.Error("expected disable_trip_sharing to be true")
	}
	if _, ok := flags[featureflags.FlagDisableAssistant]; !ok {
		t.Error("expected default flags to be merged into the result")
	}
}

func TestService_AssistantModelOverride(t *testing.T) {
	service := newFlagService()
	ctx := context.Background()

	if got := service.AssistantModelOverride(ctx); got != "" {
		t.Errorf("expected empty override by default, got %q", got)
	}

	if err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagAssistantModel,
		Value: "llama-3.1-8b-instant",
	}); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if got := service.AssistantModelOverride(ctx); got != "llama-3.1-8b-instant" {
		t.Errorf("expected override model, got %q", got)
	}
}

func TestService_InvalidateCache(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	service := featureflags.NewService(featureflags.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   1 * time.Hour,
	})
	ctx := context.Background()

	if err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableAssistant,
		Value: true,
	}); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	// Mutate the repository behind the service's back.
	if err := repo.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableAssistant,
		Value: false,
	}); err != nil {
		t.Fatalf("failed to set flag in repo: %v", err)
	}

	// Cached value still wins until the cache is invalidated.
	if !service.IsAssistantDisabled(ctx) {
		t.Error("expected cached value before invalidation")
	}

	service.InvalidateCache()

	if service.IsAssistantDisabled(ctx) {
		t.Error("expected repository value after invalidation")
	}
}
