package scheduler

import "time"

// Config controls the overdue watch loop.
type Config struct {
	PollInterval time.Duration
	ScanTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 1 * time.Minute,
		ScanTimeout:  10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.ScanTimeout <= 0 {
		c.ScanTimeout = defaults.ScanTimeout
	}
	return c
}
