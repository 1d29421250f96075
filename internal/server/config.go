package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
	NPCs   []NPCConfig    `hcl:"npc,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one table.
type TableConfig struct {
	Name             string `hcl:"name,label"`
	MaxPlayers       int    `hcl:"max_players,optional"`
	MinPlayers       int    `hcl:"min_players,optional"`
	SmallBlind       int64  `hcl:"small_blind"`
	BigBlind         int64  `hcl:"big_blind"`
	Ante             int64  `hcl:"ante,optional"`
	BuyIn            int64  `hcl:"buy_in,optional"`
	ActionTimeoutSec int    `hcl:"action_timeout,optional"`
	AutoDeal         bool   `hcl:"auto_deal,optional"`
	AutoDealDelaySec int    `hcl:"auto_deal_delay,optional"`
	Seed             int64  `hcl:"seed,optional"`
}

// NPCConfig seats computer players at tables.
type NPCConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Tables   []string `hcl:"tables,optional"`
	BuyIn    int64    `hcl:"buy_in,optional"`
}

// DefaultConfig is what the server runs with when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:       "main",
				MaxPlayers: 6,
				MinPlayers: 2,
				SmallBlind: 50,
				BigBlind:   100,
				BuyIn:      10000,
				AutoDeal:   true,
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.MaxPlayers == 0 {
			t.MaxPlayers = 6
		}
		if t.MinPlayers == 0 {
			t.MinPlayers = 2
		}
		if t.BuyIn == 0 {
			t.BuyIn = t.BigBlind * 100
		}
		if t.ActionTimeoutSec == 0 {
			t.ActionTimeoutSec = 30
		}
		if t.AutoDealDelaySec == 0 {
			t.AutoDealDelaySec = 3
		}
	}

	for i := range c.NPCs {
		n := &c.NPCs[i]
		if n.Strategy == "" {
			n.Strategy = "station"
		}
		if n.BuyIn == 0 {
			n.BuyIn = 10000
		}
		if len(n.Tables) == 0 {
			for _, t := range c.Tables {
				n.Tables = append(n.Tables, t.Name)
			}
		}
	}
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		names[t.Name] = true
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", t.Name)
		}
		if t.Ante < 0 {
			return fmt.Errorf("table %s: ante must not be negative", t.Name)
		}
		if t.MaxPlayers < 2 || t.MaxPlayers > 10 {
			return fmt.Errorf("table %s: max players must be between 2 and 10", t.Name)
		}
		if t.MinPlayers < 2 || t.MinPlayers > t.MaxPlayers {
			return fmt.Errorf("table %s: min players must be between 2 and max players", t.Name)
		}
		if t.BuyIn < t.BigBlind {
			return fmt.Errorf("table %s: buy-in below one big blind", t.Name)
		}
	}

	validStrategies := map[string]bool{
		"station": true,
		"call":    true,
		"random":  true,
		"tag":     true,
	}
	for _, n := range c.NPCs {
		if !validStrategies[n.Strategy] {
			return fmt.Errorf("npc %s: invalid strategy %q", n.Name, n.Strategy)
		}
		if n.BuyIn <= 0 {
			return fmt.Errorf("npc %s: buy-in must be positive", n.Name)
		}
		for _, tn := range n.Tables {
			if !names[tn] {
				return fmt.Errorf("npc %s: unknown table %q", n.Name, tn)
			}
		}
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// ActionTimeout returns the table's action timeout as a duration.
func (t *TableConfig) ActionTimeout() time.Duration {
	return time.Duration(t.ActionTimeoutSec) * time.Second
}

// AutoDealDelay returns the table's delay between hands as a duration.
func (t *TableConfig) AutoDealDelay() time.Duration {
	return time.Duration(t.AutoDealDelaySec) * time.Second
}

// NPCsForTable returns the npc blocks configured for a table name.
func (c *Config) NPCsForTable(name string) []NPCConfig {
	var out []NPCConfig
	for _, n := range c.NPCs {
		for _, tn := range n.Tables {
			if tn == name {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
