package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reset re-reads configuration from the given files without touching the
// package-level sync.Once.
func reset(t *testing.T, configPath, envPath string) {
	t.Helper()
	_ = Load() // consume the once so getters don't reload over the test values
	require.NoError(t, loadFrom(configPath, envPath))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
}

func TestDefaults(t *testing.T) {
	reset(t, "missing.json", "missing.env")

	assert.Equal(t, "localhost", MongoHost())
	assert.Equal(t, "27017", MongoPort())
	assert.Equal(t, "test-task", MongoDatabase())
	assert.Equal(t, "3000", AppPort())
	assert.Equal(t, "mongodb://localhost:27017/test-task", MongoURI())
	assert.Equal(t, "memory", RateLimitStore())
	assert.True(t, LogConsole())
	assert.True(t, LogFile())
	assert.False(t, LogMongo())
	assert.Empty(t, GRPCPort())
	assert.False(t, TrustProxy())
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"mongodb_host":"json-host","port":8081,"log_mongo":true}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("MONGODB_HOST=env-host\nLOG_FILE=false\nTRUST_PROXY=true\n# comment\n"), 0o600))
	t.Setenv("MONGODB_DATABASE", "catalog")

	reset(t, jsonPath, envPath)

	assert.Equal(t, "env-host", MongoHost(), ".env overrides app.json")
	assert.Equal(t, "8081", AppPort())
	assert.Equal(t, "catalog", MongoDatabase(), "process env overrides files")
	assert.True(t, LogMongo())
	assert.False(t, LogFile())
	assert.True(t, TrustProxy())
}

func TestValidate(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		reset(t, "missing.json", "missing.env")
		err := Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGO_INITDB_ROOT_USERNAME")
		assert.Contains(t, err.Error(), "MONGO_INITDB_ROOT_PASSWORD")
	})

	t.Run("non numeric port", func(t *testing.T) {
		t.Setenv("MONGO_INITDB_ROOT_USERNAME", "root")
		t.Setenv("MONGO_INITDB_ROOT_PASSWORD", "secret")
		t.Setenv("MONGODB_PORT", "abc")
		reset(t, "missing.json", "missing.env")
		err := Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGODB_PORT")
	})

	t.Run("complete", func(t *testing.T) {
		t.Setenv("MONGO_INITDB_ROOT_USERNAME", "root")
		t.Setenv("MONGO_INITDB_ROOT_PASSWORD", "secret")
		reset(t, "missing.json", "missing.env")
		assert.NoError(t, Validate())
	})
}

func TestRateLimitStoreFallsBackToMemory(t *testing.T) {
	t.Setenv("RATE_LIMIT_STORE", "etcd")
	reset(t, "missing.json", "missing.env")
	assert.Equal(t, "memory", RateLimitStore())
}
