package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "STORE_BACKEND", "TABLE_PREFIX", "CACHE_TTL", "CREATED_AT_WINDOW", "LOG_MAX_FILES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.CreatedAtWindow)
	assert.Equal(t, 10, cfg.LogMaxFiles)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CREATED_AT_WINDOW", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.CreatedAtWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres without url", Config{StoreBackend: BackendPostgres}, true},
		{"postgres with url", Config{StoreBackend: BackendPostgres, DatabaseURL: "postgres://localhost/granth"}, false},
		{"sqlite", Config{StoreBackend: BackendSQLite, SQLitePath: "granth.db"}, false},
		{"file without dir", Config{StoreBackend: BackendFile}, true},
		{"unknown backend", Config{StoreBackend: "mongo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"server-2024-01-01T00-00-00.000.log", "server-2024-01-02T00-00-00.000.log", "granthctl-2024-01-01T00-00-00.000.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	f, err := SetupLogFile(dir, "server", 2)
	require.NoError(t, err)
	defer f.Close()

	servers, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	require.NoError(t, err)
	assert.Len(t, servers, 2)
	assert.NotContains(t, servers, filepath.Join(dir, "server-2024-01-01T00-00-00.000.log"))
	assert.FileExists(t, filepath.Join(dir, "granthctl-2024-01-01T00-00-00.000.log"))
}
