package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPortPerService(t *testing.T) {
	assert.Equal(t, "5000", defaultPort("gateway"))
	assert.Equal(t, "5001", defaultPort("user"))
	assert.Equal(t, "5002", defaultPort("discussion"))
	assert.Equal(t, "5003", defaultPort("comment"))
	assert.Equal(t, "5004", defaultPort("like"))
	assert.Equal(t, "5005", defaultPort("search"))
	assert.Equal(t, "5000", defaultPort("unknown"))
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate(), "PORT required")

	cfg = &Config{Port: "5000"}
	assert.Error(t, cfg.Validate(), "SECRET_KEY required")

	cfg = &Config{Port: "5000", SecretKey: "anything"}
	assert.NoError(t, cfg.Validate())
}

func TestValidateProductionRules(t *testing.T) {
	base := Config{
		Port:          "5000",
		Env:           "production",
		MySQLPassword: "a-real-password",
	}

	cfg := base
	cfg.SecretKey = "dev-secret-change-in-production"
	assert.Error(t, cfg.Validate(), "default secret rejected in production")

	cfg = base
	cfg.SecretKey = "short"
	assert.Error(t, cfg.Validate(), "short secret rejected in production")

	cfg = base
	cfg.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.MySQLPassword = "password"
	assert.Error(t, cfg.Validate(), "default db password rejected in production")

	cfg = base
	cfg.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigHonorsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("MYSQL_DATABASE", "parley_test")
	t.Setenv("USER_SERVICE_URL", "http://localhost:15001")

	cfg, err := LoadConfig("gateway")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, "parley_test", cfg.MySQLDatabase)
	assert.Equal(t, "http://localhost:15001", cfg.UserServiceURL)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("search")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9200", cfg.ElasticsearchURL)
	assert.True(t, cfg.ElasticsearchSSLVerify)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
}
