package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int      `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host    string   `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Brokers []string `env:"TEST_CFG_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_BROKERS", "kafka-1:9092,kafka-2:9092")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
