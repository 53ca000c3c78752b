package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
	"github.com/wanderplan/wanderplan/internal/worker"
)

type countingProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProvider) FetchDaily(_ context.Context, _, _ float64, decision weather.SourceDecision) (weather.DailySeries, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.err != nil {
		return weather.DailySeries{}, p.err
	}

	return weather.DailySeries{
		Dates:           []string{decision.QueryStart.Format(weather.DateLayout)},
		TempMaxC:        []float64{21.3},
		TempMinC:        []float64{12.8},
		PrecipitationMm: []float64{0},
	}, nil
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func seedTrip(t *testing.T, repo *trip.InMemoryRepository, id string, start time.Time, nights int) {
	t.Helper()

	err := repo.Create(context.Background(), &trip.Trip{
		ID:          id,
		UserID:      "user123",
		Name:        id,
		Destination: trip.Destination{Name: "Lisbon", Lat: 38.7223, Lon: -9.1393},
		StartDate:   start.Format("2006-01-02"),
		EndDate:     start.AddDate(0, 0, nights).Format("2006-01-02"),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed trip: %v", err)
	}
}

func newWarmupJob(repo *trip.InMemoryRepository, provider weather.Provider) *worker.WarmupJob {
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	return worker.NewWarmupJob(worker.WarmupJobConfig{
		Logger:         zerolog.Nop(),
		Trips:          repo,
		WeatherService: weatherService,
	})
}

func TestWarmupJob_WarmsOnlyUpcomingTrips(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	now := time.Now()

	seedTrip(t, repo, "trp_soon", now.AddDate(0, 0, 3), 4)
	seedTrip(t, repo, "trp_far", now.AddDate(0, 0, 60), 4)
	seedTrip(t, repo, "trp_past", now.AddDate(0, 0, -30), 4)

	provider := &countingProvider{}
	job := newWarmupJob(repo, provider)

	result := job.Run(context.Background())

	if result.TotalTrips != 1 {
		t.Fatalf("expected 1 upcoming trip, got %d", result.TotalTrips)
	}
	if result.Successful != 1 || result.Failed != 0 {
		t.Errorf("expected 1 success and 0 failures, got %d/%d", result.Successful, result.Failed)
	}
	if provider.callCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount())
	}

	metrics := job.GetMetrics()
	if metrics.TotalRuns != 1 || metrics.TripsWarmed != 1 {
		t.Errorf("unexpected metrics: total_runs=%d trips_warmed=%d", metrics.TotalRuns, metrics.TripsWarmed)
	}
}

func TestWarmupJob_CountsFailures(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	now := time.Now()

	seedTrip(t, repo, "trp_soon", now.AddDate(0, 0, 2), 3)

	provider := &countingProvider{err: errors.New("upstream down")}
	job := newWarmupJob(repo, provider)

	result := job.Run(context.Background())

	if result.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", result.Failed)
	}
	if len(result.Errors) != 1 || result.Errors[0].TripID != "trp_soon" {
		t.Errorf("expected error attributed to trp_soon, got %+v", result.Errors)
	}
}

func TestWarmupJob_EmptyWindow(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	provider := &countingProvider{}
	job := newWarmupJob(repo, provider)

	result := job.Run(context.Background())

	if result.TotalTrips != 0 || result.Failed != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if provider.callCount() != 0 {
		t.Errorf("expected no provider calls, got %d", provider.callCount())
	}
}
