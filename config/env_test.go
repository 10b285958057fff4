package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// settle the once-only load so tests can swap fileLayer freely
	_ = Load()
	os.Exit(m.Run())
}

func resetFiles(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		fileLayer = map[string]string{}
		mu.Unlock()
	})
}

func TestLoadFromFilesLayersDotEnvOverJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"postgres","max_body_bytes":1024,"debug":true,"nested":{"x":1}}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nADMIN_USERNAME=\"shopkeeper\"\n# comment\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	resetFiles(t)

	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, 1024, Int("MAX_BODY_BYTES", 0))
	assert.Equal(t, "true", Get("DEBUG", ""))
	assert.Equal(t, "", Get("NESTED", ""))
	assert.Equal(t, "shopkeeper", AdminUsername())
}

func TestLoadFromFilesToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	resetFiles(t)

	assert.Equal(t, defaultAppPort, AppPort())
}

func TestLoadFromFilesRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app_port":`), 0o644))

	err := loadFromFiles(path, filepath.Join(t.TempDir(), ".env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.json")
}

func TestProcessEnvBeatsFilesAndSetBeatsEnv(t *testing.T) {
	mu.Lock()
	fileLayer = map[string]string{"QUEUE_WORKERS": "3"}
	mu.Unlock()
	resetFiles(t)

	assert.Equal(t, 3, Int("QUEUE_WORKERS", 1))

	t.Setenv("QUEUE_WORKERS", "7")
	assert.Equal(t, 7, Int("QUEUE_WORKERS", 1))

	Set("queue_workers", "9")
	t.Cleanup(func() { Unset("QUEUE_WORKERS") })
	assert.Equal(t, 9, Int("QUEUE_WORKERS", 1))
}

func TestJWTTTLFallsBackOnGarbage(t *testing.T) {
	t.Cleanup(func() { Unset("JWT_TTL") })

	Set("JWT_TTL", "soon")
	assert.Equal(t, 24*time.Hour, JWTTTL())

	Set("JWT_TTL", "2h")
	assert.Equal(t, 2*time.Hour, JWTTTL())
}

func TestDatabaseDSNFollowsDriver(t *testing.T) {
	t.Cleanup(func() { Unset("DB_DRIVER"); Unset("DATABASE_DSN") })

	Set("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "nepkart.db", DatabaseDSN())

	Set("DB_DRIVER", "mysql")
	assert.Contains(t, DatabaseDSN(), "tcp(127.0.0.1:3306)")

	Set("DATABASE_DSN", "file::memory:")
	assert.Equal(t, "file::memory:", DatabaseDSN())
}
