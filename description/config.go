package description

import (
	"github.com/BurntSushi/toml"

	"github.com/yaep-go/yaep/grammar"
)

// Config holds the grammar-level defaults a ".yaep.toml" sidecar file may
// set alongside a textual grammar description, so a deployment doesn't
// have to hardcode them into the CLI or its call site (spec §2's
// lookahead_level/one_parse/cost/error_recovery grammar options).
type Config struct {
	LookaheadLevel       int  `toml:"lookahead_level"`
	OneParse             bool `toml:"one_parse"`
	Cost                 bool `toml:"cost"`
	ErrorRecovery        bool `toml:"error_recovery"`
	RecoveryTokenMatches int  `toml:"recovery_token_matches"`
	Strict               bool `toml:"strict"`
}

// DefaultConfig returns the sidecar defaults: one_parse and
// error_recovery on, cost off, strict reachability checks on,
// lookahead_level and recovery_token_matches 0. These differ from a
// fresh grammar.New, which has one-parse and error recovery off,
// lookahead level 1 and 3 recovery token matches.
func DefaultConfig() Config {
	return Config{OneParse: true, ErrorRecovery: true, Strict: true}
}

// LoadConfig reads a TOML sidecar file into a Config seeded with
// DefaultConfig, so omitted keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// ApplyTo pushes cfg's values onto g via its option setters. Strict is
// not applied: it is the argument the caller passes to Prepare.
func (cfg Config) ApplyTo(g *grammar.Grammar) {
	g.SetLookaheadLevel(cfg.LookaheadLevel)
	g.SetOneParse(cfg.OneParse)
	g.SetCost(cfg.Cost)
	g.SetErrorRecovery(cfg.ErrorRecovery)
	g.SetRecoveryTokenMatches(uint32(cfg.RecoveryTokenMatches))
}
