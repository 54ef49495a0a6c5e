// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// MaxMessageLen bounds one user submission.
	MaxMessageLen int

	// StorageTimeout bounds each log append / registry write.
	StorageTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.MaxMessageLen <= 0 {
		return fmt.Errorf("max_message_len must be positive")
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("storage_timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxMessageLen:  10000,
		StorageTimeout: 5 * time.Second,
	}
}
