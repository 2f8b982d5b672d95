package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sena-tracker/internal/sheet"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, time.Duration(0), cfg.Store.AppScriptTimeout)
	assert.Equal(t, sheet.Lenient, cfg.Sync.RowMode)
	assert.False(t, cfg.Sync.CompetencyTemplateFallback)
	assert.Equal(t, "INSTRUCTOR2026", cfg.Auth.InstructorUser)
	assert.Equal(t, "COORDINADOR2026", cfg.Auth.CoordinatorPassword)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE", "appscript")
	t.Setenv("APPSCRIPT_URL", "https://script.google.com/macros/s/x/exec")
	t.Setenv("APPSCRIPT_TIMEOUT", "15s")
	t.Setenv("ROW_MODE", "STRICT")
	t.Setenv("COMPETENCY_TEMPLATE_FALLBACK", "true")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Store.AppScriptTimeout)
	assert.Equal(t, sheet.Strict, cfg.Sync.RowMode)
	assert.True(t, cfg.Sync.CompetencyTemplateFallback)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE=xlsx\nXLSX_PATH=/tmp/sena.xlsx\n"), 0o600))
	t.Setenv("STORE", "")
	t.Setenv("XLSX_PATH", "")
	require.NoError(t, os.Unsetenv("STORE"))
	require.NoError(t, os.Unsetenv("XLSX_PATH"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StoreXLSX, cfg.Store.Kind)
	assert.Equal(t, "/tmp/sena.xlsx", cfg.Store.XLSXPath)
}

func TestLoadCollectsProblems(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ROW_MODE", "loose")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "ROW_MODE")
}

func TestLoadRequiresAppScriptURL(t *testing.T) {
	t.Setenv("STORE", "appscript")
	t.Setenv("APPSCRIPT_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPSCRIPT_URL")
}
