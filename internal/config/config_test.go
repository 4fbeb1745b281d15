package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cosecha.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
currentPeriod: "2026-1"
sourceSheetUrl: "https://docs.google.com/spreadsheets/d/abc/edit"
sourceWorksheet: "Cedulas"
sourceColumn: "A"
targetSheetUrl: "https://docs.google.com/spreadsheets/d/xyz/edit"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultNPrevious, cfg.NPrevious)
	assert.Equal(t, 2*time.Second, cfg.DelayBetweenCedulas)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoadRespectsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, `
currentPeriod: "2026-1"
nPrevious: 3
sourceSheetUrl: "https://docs.google.com/spreadsheets/d/abc/edit"
targetSheetUrl: "https://docs.google.com/spreadsheets/d/xyz/edit"
delayBetweenCedulas: 5s
concurrency: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NPrevious)
	assert.Equal(t, 5*time.Second, cfg.DelayBetweenCedulas)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeTempConfig(t, `currentPeriod: "2026-1"`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeNPrevious(t *testing.T) {
	path := writeTempConfig(t, `
currentPeriod: "2026-1"
nPrevious: -1
sourceSheetUrl: "https://docs.google.com/spreadsheets/d/abc/edit"
targetSheetUrl: "https://docs.google.com/spreadsheets/d/xyz/edit"
`)

	_, err := Load(path)
	assert.Error(t, err)
}
