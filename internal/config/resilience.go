package config

import "time"

// Retry configuration constants
const (
	// Replay API retry configuration (search pages and replay documents)
	APIRequestMaxAttempts       = 3
	APIRequestInitialWait       = 1 * time.Second
	APIRequestMaxWait           = 10 * time.Second
	APIRequestBackoffMultiplier = 2.0
	APIRequestTimeout           = 10 * time.Second

	// Delay between consecutive search pages, to stay polite with the
	// replay server
	SearchPageDelay = 1 * time.Second

	// Sheet Write retry configuration
	SheetWriteMaxAttempts       = 3
	SheetWriteInitialWait       = 1 * time.Second
	SheetWriteMaxWait           = 10 * time.Second
	SheetWriteBackoffMultiplier = 2.0
	SheetWriteTimeout           = 30 * time.Second
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// NextWait returns the wait duration before retrying the given attempt
// (1-based), applying exponential backoff capped at MaxWait.
func (c RetryConfig) NextWait(attempt int) time.Duration {
	wait := c.InitialWait
	for i := 1; i < attempt; i++ {
		wait = time.Duration(float64(wait) * c.Multiplier)
		if wait >= c.MaxWait {
			return c.MaxWait
		}
	}
	if wait > c.MaxWait {
		return c.MaxWait
	}
	return wait
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	APIRequest RetryConfig
	SheetWrite RetryConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	APIRequest: RetryConfig{
		MaxAttempts: APIRequestMaxAttempts,
		InitialWait: APIRequestInitialWait,
		MaxWait:     APIRequestMaxWait,
		Multiplier:  APIRequestBackoffMultiplier,
		Timeout:     APIRequestTimeout,
	},
	SheetWrite: RetryConfig{
		MaxAttempts: SheetWriteMaxAttempts,
		InitialWait: SheetWriteInitialWait,
		MaxWait:     SheetWriteMaxWait,
		Multiplier:  SheetWriteBackoffMultiplier,
		Timeout:     SheetWriteTimeout,
	},
}
