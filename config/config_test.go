package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-scroll/scroller"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_JSONCOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	body := `{
  // measure by summing row heights
  "strategy": "summation",
  "page_size": 5, /* small pages */
  "source": "git",
  "source_path": "/src/repo",
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(body), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "summation", cfg.Strategy)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, "git", cfg.Source)
	assert.Equal(t, 3, cfg.MaxPages, "unset fields keep their defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedReturnsDefaultsAndError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(`{"page_size": "many"}`), 0o644))
	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	want := Defaults()
	want.Theme = "light"
	want.Gap = 0
	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, 1, got.Gap, "a zero gap is omitted and falls back to the default")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"strategy":  func(c *Config) { c.Strategy = "median" },
		"source":    func(c *Config) { c.Source = "rss" },
		"html path": func(c *Config) { c.Source = "html" },
		"page size": func(c *Config) { c.PageSize = 0 },
		"gap":       func(c *Config) { c.Gap = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Defaults()
	cfg.Strategy = "median"
	assert.ErrorIs(t, cfg.Validate(), scroller.ErrUnknownStrategy)
}

func TestProfileDir_Env(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv(profileEnv, "")
	dir, err := ProfileDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".osa-scroll"), dir)

	t.Setenv(profileEnv, "work")
	dir, err = ProfileDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".osa-scroll", "profiles", "work"), dir)
}
