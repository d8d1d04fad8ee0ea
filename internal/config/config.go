// Package config holds the tunables of the decision engine.
package config

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/hailam/slideplay/internal/board"
)

// LinePolicy selects how partially filled lines are scored.
type LinePolicy string

const (
	// PolicyGated only rewards lines the opponent is absent from.
	PolicyGated LinePolicy = "gated"
	// PolicyMajority rewards piece counts even in contested lines.
	PolicyMajority LinePolicy = "majority"
)

// BeamRanking selects the score used to order root candidates between
// iterative deepening layers.
type BeamRanking string

const (
	// RankStatic orders by the one-ply static evaluation.
	RankStatic BeamRanking = "static"
	// RankSearch orders by the score of the last completed layer.
	RankSearch BeamRanking = "search"
)

// Config carries every engine tunable. A Config is a value: copy it with
// Clone before changing it for a single decision.
type Config struct {
	MaxDepth        int         `json:"max_depth"`
	TimeLimit       float64     `json:"time_limit"` // seconds
	DepthDiscount   float64     `json:"depth_discount"`
	BeamWidth       int         `json:"beam_width"`
	BeamRanking     BeamRanking `json:"beam_ranking"`
	NodeBeamWidth   int         `json:"node_beam_width"` // 0 disables the per-node beam
	HistoryCapacity int         `json:"history_capacity"`
	WinScore        float64     `json:"win_score"`
	LineScores      []float64   `json:"line_scores"` // bonus by piece count
	LinePolicy      LinePolicy  `json:"line_policy"`
	AlphaBeta       bool        `json:"alpha_beta"`
	Rules           string      `json:"rules"`
	AdaptToSize     bool        `json:"adapt_to_size"`
	EvalCacheMB     int         `json:"eval_cache_mb"`
}

// MaxTimeLimit is the largest time_limit, in seconds, that fits a
// time.Duration.
const MaxTimeLimit = float64(math.MaxInt64) / float64(time.Second)

// Default returns the "standard" preset.
func Default() Config {
	return Config{
		MaxDepth:        4,
		TimeLimit:       1.9,
		DepthDiscount:   0.4,
		BeamWidth:       4,
		BeamRanking:     RankStatic,
		NodeBeamWidth:   0,
		HistoryCapacity: 8,
		WinScore:        10000,
		LineScores:      []float64{0, 0, 10, 100, 1000},
		LinePolicy:      PolicyGated,
		AlphaBeta:       true,
		Rules:           "slide",
		AdaptToSize:     false,
		EvalCacheMB:     1,
	}
}

var presets = map[string]func() Config{
	"standard": Default,
	// Contested lines still count, every node is narrowed to its best
	// four children and no branch is cut off.
	"exhaustive": func() Config {
		cfg := Default()
		cfg.LinePolicy = PolicyMajority
		cfg.AlphaBeta = false
		cfg.NodeBeamWidth = 4
		cfg.BeamRanking = RankSearch
		return cfg
	},
	// Size-adapted limits with the gentler bonus table.
	"adaptive": func() Config {
		cfg := Default()
		cfg.MaxDepth = 5
		cfg.DepthDiscount = 0.7
		cfg.LineScores = []float64{0, 0, 2, 50, 1000}
		cfg.AdaptToSize = true
		return cfg
	},
}

// Preset returns a named configuration.
func Preset(name string) (Config, error) {
	f, ok := presets[name]
	if !ok {
		return Config{}, errors.Errorf("unknown preset %q", name)
	}
	return f(), nil
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a JSON file and overlays it on the defaults.
// A "preset" key selects the base configuration.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return Decode(data)
}

// Decode parses JSON configuration bytes on top of the defaults. Unknown
// keys are rejected, as ApplyParams does.
func Decode(data []byte) (Config, error) {
	var head struct {
		Preset string `json:"preset"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}

	cfg := Default()
	if head.Preset != "" {
		p, err := Preset(head.Preset)
		if err != nil {
			return Config{}, err
		}
		cfg = p
	}
	doc := struct {
		Preset string `json:"preset"`
		*Config
	}{Config: &cfg}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.LineScores = append([]float64(nil), c.LineScores...)
	return c
}

// TimeBudget returns TimeLimit as a duration.
// Limits too large for a Duration saturate.
func (c Config) TimeBudget() time.Duration {
	if c.TimeLimit >= MaxTimeLimit {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(c.TimeLimit * float64(time.Second))
}

// ForBoardSize returns the configuration to use for one decision on an
// n x n board. Without AdaptToSize it is an unchanged copy.
func (c Config) ForBoardSize(n int) Config {
	c = c.Clone()
	if !c.AdaptToSize {
		return c
	}
	switch {
	case n >= 5:
		c.MaxDepth = min(c.MaxDepth, 3)
		c.TimeLimit = 1.8
	case n == 4:
		c.MaxDepth = min(c.MaxDepth, 4)
		c.TimeLimit = 1.9
	default:
		c.MaxDepth = min(c.MaxDepth, 5)
		c.TimeLimit = 2.0
	}
	return c
}

// Validate checks value ranges and enum names.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 1:
		return errors.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	case math.IsNaN(c.TimeLimit) || c.TimeLimit <= 0:
		return errors.Errorf("time_limit must be positive, got %g", c.TimeLimit)
	case c.TimeLimit >= MaxTimeLimit:
		return errors.Errorf("time_limit must be below %g seconds, got %g", MaxTimeLimit, c.TimeLimit)
	case math.IsNaN(c.DepthDiscount) || c.DepthDiscount <= 0 || c.DepthDiscount > 1:
		return errors.Errorf("depth_discount must be in (0, 1], got %g", c.DepthDiscount)
	case c.BeamWidth < 1:
		return errors.Errorf("beam_width must be at least 1, got %d", c.BeamWidth)
	case c.NodeBeamWidth < 0:
		return errors.Errorf("node_beam_width must not be negative, got %d", c.NodeBeamWidth)
	case c.HistoryCapacity < 1:
		return errors.Errorf("history_capacity must be at least 1, got %d", c.HistoryCapacity)
	case c.WinScore <= 0:
		return errors.Errorf("win_score must be positive, got %g", c.WinScore)
	case c.EvalCacheMB < 0:
		return errors.Errorf("eval_cache_mb must not be negative, got %d", c.EvalCacheMB)
	case len(c.LineScores) == 0:
		return errors.New("line_scores must not be empty")
	}

	for i := 1; i < len(c.LineScores); i++ {
		if c.LineScores[i] < c.LineScores[i-1] {
			return errors.Errorf("line_scores must be non-decreasing, entry %d (%g) < entry %d (%g)",
				i, c.LineScores[i], i-1, c.LineScores[i-1])
		}
	}
	if c.LineScores[0] < 0 {
		return errors.New("line_scores must not be negative")
	}

	switch c.LinePolicy {
	case PolicyGated, PolicyMajority:
	default:
		return errors.Errorf("unknown line_policy %q", c.LinePolicy)
	}
	switch c.BeamRanking {
	case RankStatic, RankSearch:
	default:
		return errors.Errorf("unknown beam_ranking %q", c.BeamRanking)
	}
	if _, err := board.ParseRules(c.Rules); err != nil {
		return err
	}
	return nil
}
