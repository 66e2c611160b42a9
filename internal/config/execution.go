package config

import "time"

// ExecutionConfig configures the shell executor.
type ExecutionConfig struct {
	// DefaultTimeoutSeconds bounds non-interactive command runs.
	DefaultTimeoutSeconds int `json:"default_timeout_seconds,omitempty"`

	// MaxOutputBytes caps captured stdout+stderr per stream.
	MaxOutputBytes int64 `json:"max_output_bytes,omitempty"`
}

// GetExecutionConfig returns execution settings with defaults applied.
func (c *Config) GetExecutionConfig() ExecutionConfig {
	cfg := ExecutionConfig{
		DefaultTimeoutSeconds: 120,
		MaxOutputBytes:        10 * 1024 * 1024,
	}
	if c != nil && c.Execution != nil {
		if c.Execution.DefaultTimeoutSeconds > 0 {
			cfg.DefaultTimeoutSeconds = c.Execution.DefaultTimeoutSeconds
		}
		if c.Execution.MaxOutputBytes > 0 {
			cfg.MaxOutputBytes = c.Execution.MaxOutputBytes
		}
	}
	return cfg
}

// DefaultTimeout returns the configured timeout as a duration.
func (e ExecutionConfig) DefaultTimeout() time.Duration {
	return time.Duration(e.DefaultTimeoutSeconds) * time.Second
}
