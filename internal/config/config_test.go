package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), cfg.Rules)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridclash.yaml")
	data := []byte("rules:\n  starting_coins: 7\n  attack_cost: 2\nlogging:\n  format: json\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rules.StartingCoins)
	assert.Equal(t, 2, cfg.Rules.AttackCost)
	assert.Equal(t, 1, cfg.Rules.MovementCost)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GRIDCLASH_RULES_EVOLUTION_DISCOUNT", "4")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Rules.EvolutionDiscount)
}

func TestValidateRejectsBadRules(t *testing.T) {
	r := DefaultRules()
	r.MaxFieldCreatures = 12
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.MovementCost = -1
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.MinDeckSize = 60
	assert.Error(t, r.Validate())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(-1))
}
