package cadastre

import "time"

// Config holds configuration for the engine.
type Config struct {
	// CacheTTL is the time-to-live for cached check results.
	// Zero means no caching even when a cache is configured.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// LogDecisions persists every check outcome to the decision log.
	// Writes are best-effort; a failed write never fails the check.
	LogDecisions bool `json:"log_decisions,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL: 30 * time.Second,
	}
}
