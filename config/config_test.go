package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/ingest"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ingest.DefaultMaxRounds, cfg.MaxRounds)
	assert.Equal(t, 2.0, cfg.Fetch.RatePerSecond)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catx.toml")
	require.NoError(t, os.WriteFile(path, []byte(`max_rounds = 5

[fetch]
rate_per_second = 0.5

[[rules]]
location = "file"
kinds = ["Component"]
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRounds)
	assert.Equal(t, 0.5, cfg.Fetch.RatePerSecond)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "file", cfg.Rules[0].Location)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestEnforcer_FromConfiguredRules(t *testing.T) {
	cfg := &Config{
		Rules: []RuleConfig{{Location: "file", Kinds: []string{"Component"}}},
	}
	enforcer := cfg.Enforcer()

	component := &catalog.Entity{Kind: "Component"}
	widget := &catalog.Entity{Kind: "Widget"}
	assert.True(t, enforcer.Allowed(component, ingest.LocationSpec{Type: "file"}))
	assert.False(t, enforcer.Allowed(component, ingest.LocationSpec{Type: "url"}))
	assert.False(t, enforcer.Allowed(widget, ingest.LocationSpec{Type: "file"}))
}

func TestEnforcer_DefaultsWhenUnconfigured(t *testing.T) {
	cfg := &Config{}
	enforcer := cfg.Enforcer()

	component := &catalog.Entity{Kind: "Component"}
	assert.True(t, enforcer.Allowed(component, ingest.LocationSpec{Type: "anything"}))
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "catx.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ingest.DefaultMaxRounds, cfg.MaxRounds)
	assert.NotEmpty(t, cfg.Rules)

	// Second write must refuse to clobber
	assert.Error(t, WriteDefault(path))
}
