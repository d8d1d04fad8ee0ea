// Package strategy defines the decision contract shared by every player
// and a registry to build players by name at startup.
package strategy

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
	"github.com/hailam/slideplay/internal/engine"
	"github.com/hailam/slideplay/internal/history"
	"github.com/hailam/slideplay/internal/storage"
)

// Decider picks a move for sym on b. It returns board.NoMove when sym has
// no legal move. b is not modified.
type Decider interface {
	Decide(ctx context.Context, b *board.Board, sym board.Cell) board.Move
}

// StatsRecorder receives a summary of every decision.
type StatsRecorder interface {
	RecordDecision(storage.DecisionResult) error
}

// Options carries the shared dependencies handed to every factory.
type Options struct {
	Config  config.Config
	History history.Store // nil disables the move history
	Stats   StatsRecorder // optional
	Intn    func(n int) int
	OnInfo  func(engine.SearchInfo)
}

// Factory builds a Decider. params holds the "key=value" overrides given
// after the strategy name; factories must consume or reject every key.
type Factory func(params map[string]string, opts Options) (Decider, error)

var registry = make(map[string]Factory)

// Register makes a strategy available under name. It panics on duplicates,
// so it is meant to be called from init functions.
func Register(name string, f Factory) {
	if _, dup := registry[name]; dup {
		panic("strategy: duplicate registration of " + name)
	}
	registry[name] = f
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// New builds a strategy from "name" or "name:key=value,key=value".
func New(spec string, opts Options) (Decider, error) {
	name, rest, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown strategy %q, available: %s", name, strings.Join(Names(), ", "))
	}
	d, err := f(config.ParseParams(rest), opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "strategy %q", name)
	}
	return d, nil
}

// rulesParam pops the "rules" key, falling back to the configured rules.
func rulesParam(params map[string]string, cfg config.Config) (board.Rules, error) {
	name, err := config.PopParamOr(params, "rules", cfg.Rules)
	if err != nil {
		return board.SlideRules, err
	}
	return board.ParseRules(name)
}

func rejectUnknown(params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	keys := lo.Keys(params)
	sort.Strings(keys)
	return errors.Errorf("unknown parameters: %s", strings.Join(keys, ", "))
}
