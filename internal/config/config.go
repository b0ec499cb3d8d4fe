// Package config loads the engine's tunables from HCL: blinds, the two
// action clocks, the inter-hand pause, the timeout-ejection threshold, and
// the rake.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete tunable surface of a table.
type Config struct {
	SmallBlind              uint64 `hcl:"small_blind,optional"`
	BigBlind                uint64 `hcl:"big_blind,optional"`
	ActionTimeoutPreflopMs  uint64 `hcl:"action_timeout_preflop_ms,optional"`
	ActionTimeoutPostflopMs uint64 `hcl:"action_timeout_postflop_ms,optional"`
	WaitTimeoutMs           uint64 `hcl:"wait_timeout_ms,optional"`
	MaxConsecutiveTimeouts  uint8  `hcl:"max_consecutive_timeouts,optional"`
	RakeBps                 uint16 `hcl:"rake_bps,optional"`
}

// Default returns the configuration a table runs with when no HCL file
// overrides it.
func Default() Config {
	return Config{
		SmallBlind:              1,
		BigBlind:                2,
		ActionTimeoutPreflopMs:  15_000,
		ActionTimeoutPostflopMs: 20_000,
		WaitTimeoutMs:           5_000,
		MaxConsecutiveTimeouts:  3,
		RakeBps:                 0,
	}
}

// Load reads Config from an HCL file, falling back to Default when the file
// does not exist.
func Load(filename string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return Config{}, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the blinds, ejection threshold, and rake are
// well-formed before a hand can start.
func (c Config) Validate() error {
	if c.SmallBlind == 0 {
		return fmt.Errorf("config: small_blind must be positive")
	}
	if c.BigBlind < c.SmallBlind {
		return fmt.Errorf("config: big_blind must be >= small_blind")
	}
	if c.MaxConsecutiveTimeouts == 0 {
		return fmt.Errorf("config: max_consecutive_timeouts must be positive")
	}
	if c.RakeBps > 10_000 {
		return fmt.Errorf("config: rake_bps must be <= 10000")
	}
	return nil
}
