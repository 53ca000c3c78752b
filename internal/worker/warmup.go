package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
)

// TripLister lists trips whose start date falls in a window.
type TripLister interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*trip.Trip, error)
}

// WarmupJob pre-fetches weather for trips departing soon, so the first
// request from their owners is served from cache.
type WarmupJob struct {
	config  WarmupConfig
	logger  zerolog.Logger
	trips   TripLister
	weather *weather.Service

	metrics *WarmupMetrics
}

// WarmupMetrics tracks warm-up job statistics.
type WarmupMetrics struct {
	mu sync.RWMutex

	TotalRuns       int64
	TripsWarmed     int64
	TripsFailed     int64
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmupJobConfig holds configuration for creating a WarmupJob.
type WarmupJobConfig struct {
	Config         WarmupConfig
	Logger         zerolog.Logger
	Trips          TripLister
	WeatherService *weather.Service
}

// NewWarmupJob creates a new warm-up job processor.
func NewWarmupJob(cfg WarmupJobConfig) *WarmupJob {
	return &WarmupJob{
		config:  cfg.Config.withDefaults(),
		logger:  cfg.Logger,
		trips:   cfg.Trips,
		weather: cfg.WeatherService,
		metrics: &WarmupMetrics{},
	}
}

// WarmupResult contains the result of a warm-up run.
type WarmupResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalTrips int
	Successful int
	Failed     int
	Errors     []WarmupError
}

// WarmupError represents a failure to warm one trip.
type WarmupError struct {
	TripID string
	Error  string
}

// Run warms the weather cache for every trip starting within the lookahead
// window.
func (j *WarmupJob) Run(ctx context.Context) *WarmupResult {
	startTime := time.Now()
	result := &WarmupResult{StartTime: startTime}

	from := startTime
	to := startTime.AddDate(0, 0, j.config.LookaheadDays)

	trips, err := j.trips.ListStartingBetween(ctx, from, to)
	if err != nil {
		j.logger.Error().Err(err).Msg("listing upcoming trips failed")
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		result.Errors = append(result.Errors, WarmupError{Error: err.Error()})
		return result
	}

	result.TotalTrips = len(trips)

	j.logger.Info().
		Int("total_trips", result.TotalTrips).
		Int("concurrency", j.config.Concurrency).
		Int("lookahead_days", j.config.LookaheadDays).
		Msg("starting weather warmup job")

	tripsChan := make(chan *trip.Trip, len(trips))
	resultsChan := make(chan tripResult, len(trips))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmupWorker(ctx, tripsChan, resultsChan)
		}()
	}

	for _, t := range trips {
		tripsChan <- t
	}
	close(tripsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		if tr.err == nil {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, WarmupError{
				TripID: tr.tripID,
				Error:  tr.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("weather warmup job completed")

	return result
}

type tripResult struct {
	tripID string
	err    error
}

func (j *WarmupJob) warmupWorker(ctx context.Context, trips <-chan *trip.Trip, results chan<- tripResult) {
	for t := range trips {
		select {
		case <-ctx.Done():
			return
		default:
			results <- tripResult{tripID: t.ID, err: j.warmTrip(ctx, t)}
		}
	}
}

func (j *WarmupJob) warmTrip(ctx context.Context, t *trip.Trip) error {
	tripCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	window, err := tripWindow(t)
	if err != nil {
		return err
	}

	_, err = j.weather.GetTripWeather(tripCtx, t.Destination.Lat, t.Destination.Lon, window)
	return err
}

// tripWindow converts a trip's calendar dates into a weather query window.
func tripWindow(t *trip.Trip) (weather.TripWindow, error) {
	start, err := time.Parse(weather.DateLayout, t.StartDate)
	if err != nil {
		return weather.TripWindow{}, err
	}
	end, err := time.Parse(weather.DateLayout, t.EndDate)
	if err != nil {
		return weather.TripWindow{}, err
	}
	return weather.TripWindow{Start: start, End: end}, nil
}

func (j *WarmupJob) updateMetrics(result *WarmupResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.TripsWarmed += int64(result.Successful)
	j.metrics.TripsFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmupJob) GetMetrics() WarmupMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmupMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		TripsWarmed:     j.metrics.TripsWarmed,
		TripsFailed:     j.metrics.TripsFailed,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WarmupJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"trips_warmed":      m.TripsWarmed,
		"trips_failed":      m.TripsFailed,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
