package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4941/api/v1", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, "auctioneer.db"), cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.True(t, cfg.Photos)
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	yamlData := "api_url: http://auctions.example.com/api/v1\npage_size: 20\nrequest_timeout: 3s\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(yamlData), 0o600))
	t.Setenv("AUCTIONEER_PAGE_SIZE", "15")
	t.Setenv("AUCTIONEER_PHOTOS", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://auctions.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 15, cfg.PageSize, "environment beats the file")
	assert.False(t, cfg.Photos)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"relative url":   "api_url: localhost:4941\n",
		"zero page size": "page_size: 0\n",
		"broken yaml":    "api_url: [\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(data), 0o600))

			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	cfg := DefaultConfig(dir)
	cfg.APIURL = "https://market.example.com/api/v1"
	cfg.Photos = false

	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, loaded.APIURL)
	assert.False(t, loaded.Photos)
	assert.Equal(t, cfg.CategoriesTTL, loaded.CategoriesTTL)
}

func TestOnboardingFlow(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	m := newOnboardingModel(cfg)

	m.urlInput.SetValue("ftp://nope")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(onboardingModel)
	assert.Equal(t, stepServer, m.step)
	assert.NotEmpty(t, m.errText)

	m.urlInput.SetValue("https://market.example.com/api/v1/")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(onboardingModel)
	assert.Equal(t, stepPhotos, m.step)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(onboardingModel)
	assert.Equal(t, stepDone, m.step)
	assert.NotNil(t, cmd)
	assert.Equal(t, "https://market.example.com/api/v1", cfg.APIURL)
	assert.False(t, cfg.Photos)
}
