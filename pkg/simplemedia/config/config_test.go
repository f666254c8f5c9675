package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-media/pkg/simplemedia/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.RegistryType)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.True(t, cfg.EnableAuditLog)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate config.Option
	}{
		{
			name: "postgres without url",
			mutate: func(c *config.ServerConfig) error {
				c.RegistryType = "postgres"
				return nil
			},
		},
		{
			name: "unknown registry type",
			mutate: func(c *config.ServerConfig) error {
				c.RegistryType = "cassandra"
				return nil
			},
		},
		{
			name: "s3 without bucket",
			mutate: func(c *config.ServerConfig) error {
				c.StorageType = "s3"
				return nil
			},
		},
		{
			name: "unknown storage type",
			mutate: func(c *config.ServerConfig) error {
				c.StorageType = "tape"
				return nil
			},
		},
		{
			name: "fs without cdn base url",
			mutate: func(c *config.ServerConfig) error {
				c.StorageType = "fs"
				return nil
			},
		},
		{
			name: "non-positive processing timeout",
			mutate: func(c *config.ServerConfig) error {
				c.ProcessingTimeout = 0
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.mutate)
			assert.Error(t, err)
		})
	}
}

func TestWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_TYPE", "fs")
	t.Setenv("FS_BASE_DIR", t.TempDir())
	t.Setenv("CDN_BASE_URL", "https://cdn.example.com")

	cfg, err := config.Load(config.WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "fs", cfg.StorageType)
	assert.Equal(t, "https://cdn.example.com", cfg.CDNBaseURL)
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
