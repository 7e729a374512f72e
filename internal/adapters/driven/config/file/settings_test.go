package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// clearEnv unsets every override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvStorageDriver, EnvStoragePath, EnvPostgresDSN, EnvBatchSize} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) *ConfigStore {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600))
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store
}

func TestSettings_Defaults(t *testing.T) {
	clearEnv(t)
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *cfg)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
}

func TestSettings_FromFile(t *testing.T) {
	clearEnv(t)
	store := writeConfig(t, `
[sync]
batch_size = 50

[storage]
driver = "Postgres"
dsn = "postgres://db/buildo"

[log]
verbose = true
format = "json"

[metrics]
textfile = "/var/lib/node_exporter/buildo.prom"
`)

	cfg, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, Settings{
		BatchSize:       50,
		StorageDriver:   DriverPostgres,
		PostgresDSN:     "postgres://db/buildo",
		Verbose:         true,
		LogFormat:       "json",
		MetricsTextfile: "/var/lib/node_exporter/buildo.prom",
	}, *cfg)
}

func TestSettings_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	store := writeConfig(t, `
[sync]
batch_size = 50

[storage]
driver = "sqlite"
path = "/from/file"
`)
	t.Setenv(EnvBatchSize, "75")
	t.Setenv(EnvStoragePath, "/from/env")
	t.Setenv(EnvStorageDriver, "postgres")
	t.Setenv(EnvPostgresDSN, "postgres://env/buildo")

	cfg, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.BatchSize)
	assert.Equal(t, "/from/env", cfg.StoragePath)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://env/buildo", cfg.PostgresDSN)
}

func TestSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "batch size zero",
			content: "[sync]\nbatch_size = 0\n",
			wantMsg: "sync.batch_size must be between 1 and 100000",
		},
		{
			name:    "batch size too large",
			content: "[sync]\nbatch_size = 1000000\n",
			wantMsg: "sync.batch_size",
		},
		{
			name:    "unknown driver",
			content: "[storage]\ndriver = \"mysql\"\n",
			wantMsg: "storage.driver must be one of",
		},
		{
			name:    "postgres without dsn",
			content: "[storage]\ndriver = \"postgres\"\n",
			wantMsg: "storage.dsn is required",
		},
		{
			name:    "unknown log format",
			content: "[log]\nformat = \"xml\"\n",
			wantMsg: "log.format",
		},
		{
			name:    "non-numeric env batch size",
			env:     map[string]string{EnvBatchSize: "lots"},
			wantMsg: EnvBatchSize + " must be an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			store := writeConfig(t, tt.content)

			cfg, err := store.Settings()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUILDO_BATCH_SIZE=42\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvBatchSize) })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "42", os.Getenv(EnvBatchSize))

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	cfg, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.BatchSize)
}

func TestLoadDotEnv_KeepsExisting(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUILDO_STORAGE_PATH=/from/dotenv\n"), 0600))
	t.Setenv(EnvStoragePath, "/already/set")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/already/set", os.Getenv(EnvStoragePath))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
