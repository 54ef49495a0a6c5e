// File: internal/config/config_test.go
package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	for _, key := range []string{"SERVER_PORT", "DATABASE_PATH", "CHAT_MODEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "threadchat.db", cfg.DatabasePath)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DATABASE_PATH", "/tmp/chat.db")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8000/v1")
	t.Setenv("CHAT_MODEL", "gpt-4o")

	cfg := Load()
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "/tmp/chat.db", cfg.DatabasePath)
	assert.Equal(t, "s3cret", cfg.JWTSecretKey)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "http://localhost:8000/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
}

func TestGetEnvDefault(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("THREADCHAT_TEST_UNSET_KEY", "fallback"))

	t.Setenv("THREADCHAT_TEST_SET_KEY", "explicit")
	assert.Equal(t, "explicit", getEnv("THREADCHAT_TEST_SET_KEY", "fallback"))
}
