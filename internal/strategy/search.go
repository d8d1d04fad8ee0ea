package strategy

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/engine"
	"github.com/hailam/slideplay/internal/history"
	"github.com/hailam/slideplay/internal/storage"
)

func init() {
	Register("search", NewSearch)
}

// Search runs the engine and then passes its proposal through the move
// history, loading and saving the history around every decision. A forced
// move bypasses the history.
type Search struct {
	engine *engine.Engine
	store  history.Store
	stats  StatsRecorder
	intn   func(n int) int

	last engine.Result
}

// Assert Search implements Decider.
var _ Decider = (*Search)(nil)

// NewSearch is the Factory of the "search" strategy. Every configuration
// key is accepted as a parameter.
func NewSearch(params map[string]string, opts Options) (Decider, error) {
	cfg := opts.Config.Clone()
	if err := cfg.ApplyParams(params); err != nil {
		return nil, err
	}
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	eng.OnInfo = opts.OnInfo
	return &Search{
		engine: eng,
		store:  opts.History,
		stats:  opts.Stats,
		intn:   opts.Intn,
	}, nil
}

// Engine exposes the underlying engine.
func (s *Search) Engine() *engine.Engine {
	return s.engine
}

// LastResult returns the engine result of the latest decision.
func (s *Search) LastResult() engine.Result {
	return s.last
}

// Decide implements Decider.
func (s *Search) Decide(ctx context.Context, b *board.Board, sym board.Cell) board.Move {
	res := s.engine.ChooseMove(ctx, b, sym)
	s.last = res

	move, outcome := res.Move, history.Fresh
	if s.store != nil && !move.IsNoMove() && !res.Forced {
		tr := history.Open(s.store, s.engine.Config().HistoryCapacity, s.intn)
		move, outcome = tr.Resolve(b.Key(), move, res.Candidates)
		if err := history.Close(s.store, tr); err != nil {
			log.Warn().Err(err).Msg("history-save-failed")
		}
	}

	log.Info().
		Str("player", sym.String()).
		Str("move", move.String()).
		Str("proposed", res.Move.String()).
		Str("history", outcome.String()).
		Int("depth", res.Depth).
		Float64("score", res.Score).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Bool("timeout", res.TimedOut).
		Msg("decision")

	if s.stats != nil {
		err := s.stats.RecordDecision(storage.DecisionResult{
			Depth:    res.Depth,
			Nodes:    res.Nodes,
			Elapsed:  res.Elapsed,
			TimedOut: res.TimedOut,
			NoMove:   move.IsNoMove(),
			Outcome:  outcome,
		})
		if err != nil {
			log.Warn().Err(err).Msg("stats-save-failed")
		}
	}
	return move
}
