package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-cocktail-recipes/internal/llm"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 8011, cfg.Port)
	assert.Equal(t, ProviderGateway, cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.LLM.ModelSet()[llm.TaskGenerate])
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, "cocktail-recipes.yaml", `
port: 9000
db_path: /tmp/recipes.db
llm:
  provider: gemini
  timeout: 15s
  models:
    generate: gemini-2.5-flash
`)
	t.Setenv("COCKTAIL_PORT", "9100")
	t.Setenv("COCKTAIL_LLM_API_KEY", "from-env")

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "/tmp/recipes.db", cfg.DBPath)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)

	models := cfg.LLM.ModelSet()
	assert.Equal(t, "gemini-2.5-flash", models[llm.TaskGenerate])
	assert.Equal(t, "anthropic/claude-3.5-haiku", models[llm.TaskParse])
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "COCKTAIL_DB_PATH=/srv/bar.db\n")
	t.Setenv("COCKTAIL_DB_PATH", "")
	os.Unsetenv("COCKTAIL_DB_PATH")

	cfg, err := Load(Options{EnvFile: envFile, ConfigFile: writeFile(t, "c.yaml", "port: 1\n")})
	require.NoError(t, err)
	assert.Equal(t, "/srv/bar.db", cfg.DBPath)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = Load(Options{ConfigFile: writeFile(t, "bad.yaml", "llm:\n  provider: carrier-pigeon\n")})
	assert.ErrorContains(t, err, "unknown llm provider")

	_, err = Load(Options{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	assert.Error(t, err)
}
