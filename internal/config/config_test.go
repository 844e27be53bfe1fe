package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intake/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  dsn: postgres://localhost/intake
api:
  key: secret
public:
  base_url: https://intake.example.com
cors:
  allowed_origins:
    - https://intake.example.com
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost/intake", cfg.Database.DSN)
	assert.Equal(t, "secret", cfg.API.Key)
	assert.Equal(t, "https://intake.example.com", cfg.Public.BaseURL)
	assert.Equal(t, []string{"https://intake.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "data/blobs", cfg.Blob.BasePath, "defaults survive partial files")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/intake
api:
  key: from-file
`)
	t.Setenv("INTAKE_API_KEY", "from-env")
	t.Setenv("INTAKE_SERVER_ADDR", ":7070")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.Key)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadRequiresDSNAndKey(t *testing.T) {
	t.Setenv("INTAKE_DATABASE_DSN", "")
	t.Setenv("INTAKE_API_KEY", "")

	_, err := config.Load("")
	require.Error(t, err)

	t.Setenv("INTAKE_DATABASE_DSN", "postgres://localhost/intake")
	_, err = config.Load("")
	require.Error(t, err)

	t.Setenv("INTAKE_API_KEY", "k")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
