// Package worker provides background job processing for Wanderplan.
package worker

import (
	"time"

	"github.com/wanderplan/wanderplan/internal/weather"
)

// WarmupConfig holds configuration for the weather warm-up job.
type WarmupConfig struct {
	// LookaheadDays bounds how far ahead trips are warmed. Trips starting
	// later than this have no forecast data to fetch yet.
	// Default: the forecast horizon.
	LookaheadDays int

	// Concurrency is the number of concurrent warm-up operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each trip's weather fetch.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultWarmupConfig returns the default warm-up configuration.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		LookaheadDays: weather.ForecastHorizonDays,
		Concurrency:   3,
		Timeout:       30 * time.Second,
	}
}

// withDefaults fills zero fields with defaults.
func (c WarmupConfig) withDefaults() WarmupConfig {
	def := DefaultWarmupConfig()
	if c.LookaheadDays <= 0 {
		c.LookaheadDays = def.LookaheadDays
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
