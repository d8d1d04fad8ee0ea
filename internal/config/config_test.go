package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	for _, name := range Presets() {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) failed: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Preset %q is invalid: %v", name, err)
		}
	}

	cfg := Default()
	if cfg.MaxDepth != 4 || cfg.BeamWidth != 4 || cfg.HistoryCapacity != 8 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if got := cfg.TimeBudget(); got != 1900*time.Millisecond {
		t.Errorf("TimeBudget() = %v, want 1.9s", got)
	}
}

func TestExhaustivePreset(t *testing.T) {
	cfg, err := Preset("exhaustive")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AlphaBeta || cfg.LinePolicy != PolicyMajority || cfg.NodeBeamWidth != 4 {
		t.Errorf("Unexpected exhaustive preset: %+v", cfg)
	}
	if _, err := Preset("nope"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"no time", func(c *Config) { c.TimeLimit = 0 }},
		{"NaN time", func(c *Config) { c.TimeLimit = math.NaN() }},
		{"time beyond a Duration", func(c *Config) { c.TimeLimit = 1e11 }},
		{"NaN discount", func(c *Config) { c.DepthDiscount = math.NaN() }},
		{"zero discount", func(c *Config) { c.DepthDiscount = 0 }},
		{"discount above one", func(c *Config) { c.DepthDiscount = 1.5 }},
		{"zero beam", func(c *Config) { c.BeamWidth = 0 }},
		{"zero capacity", func(c *Config) { c.HistoryCapacity = 0 }},
		{"decreasing scores", func(c *Config) { c.LineScores = []float64{0, 0, 100, 10} }},
		{"empty scores", func(c *Config) { c.LineScores = nil }},
		{"bad policy", func(c *Config) { c.LinePolicy = "sometimes" }},
		{"bad ranking", func(c *Config) { c.BeamRanking = "vibes" }},
		{"bad rules", func(c *Config) { c.Rules = "chess" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() accepted %+v", cfg)
			}
		})
	}
}

func TestForBoardSize(t *testing.T) {
	cfg := Default()
	if got := cfg.ForBoardSize(5); got.MaxDepth != cfg.MaxDepth || got.TimeLimit != cfg.TimeLimit {
		t.Errorf("ForBoardSize without adapt_to_size changed limits: %+v", got)
	}

	cfg.AdaptToSize = true
	cfg.MaxDepth = 6
	tests := []struct {
		size  int
		depth int
		limit float64
	}{
		{3, 5, 2.0},
		{4, 4, 1.9},
		{5, 3, 1.8},
	}
	for _, tc := range tests {
		got := cfg.ForBoardSize(tc.size)
		if got.MaxDepth != tc.depth || got.TimeLimit != tc.limit {
			t.Errorf("ForBoardSize(%d) = depth %d, limit %g; want %d, %g",
				tc.size, got.MaxDepth, got.TimeLimit, tc.depth, tc.limit)
		}
	}
	if cfg.MaxDepth != 6 {
		t.Errorf("ForBoardSize mutated the receiver")
	}
}

func TestApplyParams(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyParams(ParseParams("max_depth=6, beam_width=2,alpha_beta=false,line_scores=0:0:5:50:500,line_policy=majority"))
	if err != nil {
		t.Fatalf("ApplyParams failed: %v", err)
	}
	if cfg.MaxDepth != 6 || cfg.BeamWidth != 2 || cfg.AlphaBeta || cfg.LinePolicy != PolicyMajority {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if len(cfg.LineScores) != 5 || cfg.LineScores[4] != 500 {
		t.Errorf("line_scores = %v", cfg.LineScores)
	}

	if err := cfg.Set("alpha_beta", ""); err != nil || !cfg.AlphaBeta {
		t.Errorf("Bare bool key should enable: err=%v, alpha_beta=%v", err, cfg.AlphaBeta)
	}
}

func TestApplyParamsErrorsKeepConfig(t *testing.T) {
	cfg := Default()
	before := cfg.Clone()

	for _, params := range []string{
		"max_depth=abc",
		"bogus=1",
		"beam_width=0",
		"line_scores=1:x",
		"preset=unknown",
	} {
		if err := cfg.ApplyParams(ParseParams(params)); err == nil {
			t.Errorf("ApplyParams(%q) succeeded, want error", params)
		}
	}
	if cfg.MaxDepth != before.MaxDepth || cfg.BeamWidth != before.BeamWidth {
		t.Errorf("Failed ApplyParams modified config: %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.json")
	data := `{"preset": "exhaustive", "max_depth": 3, "time_limit": 0.5}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxDepth != 3 || cfg.TimeLimit != 0.5 {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if cfg.AlphaBeta || cfg.NodeBeamWidth != 4 {
		t.Errorf("Preset base not applied: %+v", cfg)
	}
	if len(cfg.LineScores) != 5 {
		t.Errorf("LineScores lost: %v", cfg.LineScores)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Decode([]byte(`{"depth_discount": 2}`)); err == nil {
		t.Error("Expected validation error for discount 2")
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := Decode([]byte(`{"max_depht": 3}`)); err == nil {
		t.Error("Decode accepted a misspelled key")
	}
	if _, err := Decode([]byte(`{"preset": "adaptive", "beam_width": 2}`)); err != nil {
		t.Errorf("Decode rejected known keys: %v", err)
	}
}

func TestTimeBudgetSaturates(t *testing.T) {
	cfg := Default()
	cfg.TimeLimit = 1e11
	if got := cfg.TimeBudget(); got != time.Duration(math.MaxInt64) {
		t.Errorf("TimeBudget() = %v, want the largest Duration", got)
	}
	cfg.TimeLimit = 0.25
	if got := cfg.TimeBudget(); got != 250*time.Millisecond {
		t.Errorf("TimeBudget() = %v, want 250ms", got)
	}
}
