package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, "main", cfg.Tables[0].Name)
}

func TestLoadConfigParsesBlocks(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table "high" {
  small_blind    = 500
  big_blind      = 1000
  max_players    = 9
  ante           = 100
  action_timeout = 15
  auto_deal      = true
}

table "low" {
  small_blind = 25
  big_blind   = 50
}

npc "rock" {
  strategy = "tag"
  tables   = ["low"]
  buy_in   = 5000
}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	require.Len(t, cfg.Tables, 2)

	high := cfg.Tables[0]
	assert.Equal(t, int64(500), high.SmallBlind)
	assert.Equal(t, int64(100), high.Ante)
	assert.Equal(t, 9, high.MaxPlayers)
	assert.Equal(t, 15, high.ActionTimeoutSec)
	assert.True(t, high.AutoDeal)

	// defaults fill what the file leaves out
	low := cfg.Tables[1]
	assert.Equal(t, 6, low.MaxPlayers)
	assert.Equal(t, 2, low.MinPlayers)
	assert.Equal(t, int64(5000), low.BuyIn, "default buy-in is 100 big blinds")
	assert.Equal(t, 30, low.ActionTimeoutSec)

	require.Len(t, cfg.NPCs, 1)
	assert.Equal(t, []NPCConfig{{Name: "rock", Strategy: "tag", Tables: []string{"low"}, BuyIn: 5000}}, cfg.NPCs)
	assert.Empty(t, cfg.NPCsForTable("high"))
	assert.Len(t, cfg.NPCsForTable("low"), 1)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `table "x" { small_blind = `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no tables", func(c *Config) { c.Tables = nil }},
		{"duplicate table", func(c *Config) { c.Tables = append(c.Tables, c.Tables[0]) }},
		{"zero small blind", func(c *Config) { c.Tables[0].SmallBlind = 0 }},
		{"inverted blinds", func(c *Config) { c.Tables[0].BigBlind = c.Tables[0].SmallBlind }},
		{"negative ante", func(c *Config) { c.Tables[0].Ante = -1 }},
		{"too many seats", func(c *Config) { c.Tables[0].MaxPlayers = 11 }},
		{"min above max", func(c *Config) { c.Tables[0].MinPlayers = 7 }},
		{"tiny buy-in", func(c *Config) { c.Tables[0].BuyIn = 1 }},
		{"bad strategy", func(c *Config) {
			c.NPCs = []NPCConfig{{Name: "x", Strategy: "gto", Tables: []string{"main"}, BuyIn: 100}}
		}},
		{"npc unknown table", func(c *Config) {
			c.NPCs = []NPCConfig{{Name: "x", Strategy: "tag", Tables: []string{"nope"}, BuyIn: 100}}
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
