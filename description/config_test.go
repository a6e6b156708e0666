package description

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".yaep.toml")
	body := "one_parse = false\ncost = true\nlookahead_level = 2\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OneParse {
		t.Errorf("expected one_parse=false to override the default")
	}
	if !cfg.Cost {
		t.Errorf("expected cost=true to override the default")
	}
	if cfg.LookaheadLevel != 2 {
		t.Errorf("expected lookahead_level=2, got %d", cfg.LookaheadLevel)
	}
	if !cfg.ErrorRecovery {
		t.Errorf("expected error_recovery default (true) to survive when unset in the file")
	}
}

func TestApplyToSetsGrammarOptions(t *testing.T) {
	g, err := Parse("Cfg", "%token A 1\n%start S\nS -> A ;\n", true)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{LookaheadLevel: 0, OneParse: false, Cost: true, ErrorRecovery: false}
	cfg.ApplyTo(g)
	if g.OneParse() {
		t.Errorf("expected ApplyTo to set OneParse false")
	}
	if !g.Cost() {
		t.Errorf("expected ApplyTo to set Cost true")
	}
}
