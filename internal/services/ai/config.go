// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	Temperature float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("CHAT_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxRetries:  2,
		RetryDelay:  2 * time.Second,
		Temperature: 0.7,
	}
}
