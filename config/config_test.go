package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "SERVER_PORT", "DB_HOST", "DB_IN_MEMORY", "JWT_SECRET", "JWT_TTL", "STORAGE_BACKEND", "MQ_BACKEND", "MQ_EVENTS_CHANNEL"} {
		// Setenv registers the restore; Unsetenv makes the key absent.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.False(t, cfg.Database.InMemory)
	assert.Empty(t, cfg.Auth.TokenSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, StorageBackendNone, cfg.Storage.Backend)
	assert.Equal(t, MQBackendNone, cfg.MQ.Backend)
	assert.Equal(t, "constante.events", cfg.MQ.EventsChannel)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("DB_IN_MEMORY", "yes")
	t.Setenv("JWT_SECRET", "  a-secret-with-padding  ")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("STORAGE_BACKEND", "MinIO")
	t.Setenv("MQ_BACKEND", "rabbitmq")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.Database.UseSSL)
	assert.True(t, cfg.Database.InMemory)
	assert.Equal(t, "a-secret-with-padding", cfg.Auth.TokenSecret)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, StorageBackendMinio, cfg.Storage.Backend)
	assert.Equal(t, MQBackendRabbitMQ, cfg.MQ.Backend)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "80a")
	t.Setenv("DB_PORT", "")
	t.Setenv("RABBITMQ_PREFETCH_COUNT", "ten")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.MQ.RabbitMQ.PrefetchCount)
}

func TestLoadConfigInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	cfg := LoadConfig()

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}
