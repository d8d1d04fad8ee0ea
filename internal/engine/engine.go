package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
)

// SearchInfo describes one completed iterative deepening layer.
type SearchInfo struct {
	Depth int
	Score float64
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Result is the outcome of one decision.
type Result struct {
	Move  board.Move
	Score float64
	Depth int // deepest completed layer, 0 when no search was needed

	// Candidates holds the moves that survived the last beam cut, best
	// ranked first. The move history picks replacements from it.
	Candidates []board.Move

	Nodes    uint64
	Elapsed  time.Duration
	TimedOut bool
	Forced   bool // the only legal move, returned without searching
}

// Engine picks moves with iterative deepening minimax under a time budget.
// It is not safe for concurrent use.
type Engine struct {
	cfg      config.Config
	cache    *EvalCache
	searcher *Searcher
	tm       *TimeManager

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a validated configuration.
func NewEngine(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tm := NewTimeManager()
	return &Engine{
		cfg:      cfg.Clone(),
		cache:    NewEvalCache(cfg.EvalCacheMB),
		searcher: NewSearcher(tm),
		tm:       tm,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() config.Config {
	return e.cfg.Clone()
}

// SetConfig replaces the configuration and drops cached evaluations.
func (e *Engine) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.EvalCacheMB != e.cfg.EvalCacheMB {
		e.cache = NewEvalCache(cfg.EvalCacheMB)
	} else {
		e.Clear()
	}
	e.cfg = cfg.Clone()
	return nil
}

// Clear clears the evaluation cache.
func (e *Engine) Clear() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Evaluate returns the static evaluation of b for sym.
func (e *Engine) Evaluate(b *board.Board, sym board.Cell) float64 {
	return NewEvaluator(e.cfg, e.cache).EvaluateBoard(b, sym)
}

// Rules returns the configured move generator.
func (e *Engine) Rules() board.Rules {
	rules, _ := board.ParseRules(e.cfg.Rules)
	return rules
}

// ChooseMove returns the best move for sym on b within the configured time
// budget or until ctx is done, whichever comes first. b is not modified.
// Without legal moves the result carries board.NoMove.
func (e *Engine) ChooseMove(ctx context.Context, b *board.Board, sym board.Cell) Result {
	cfg := e.cfg.ForBoardSize(b.Size())
	e.tm.Init(ctx, cfg.TimeBudget())
	rules := e.Rules()

	moves := rules.Generate(b, sym, nil)
	switch len(moves) {
	case 0:
		log.Debug().Str("player", sym.String()).Msg("no-legal-moves")
		return Result{Move: board.NoMove, Elapsed: e.tm.Elapsed()}
	case 1:
		return Result{Move: moves[0], Candidates: moves, Forced: true, Elapsed: e.tm.Elapsed()}
	}

	pos := b.Copy()
	eval := NewEvaluator(cfg, e.cache)
	e.searcher.configure(eval, rules, cfg)

	cands := scoreCandidates(pos, moves, sym, eval)
	res := Result{Move: moves[0], Candidates: moves}

	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		scores, ok := e.searcher.searchLayer(pos, sym, cands, depth)
		if !ok {
			res.TimedOut = true
			log.Debug().
				Int("depth", depth).
				Int("completed", res.Depth).
				Dur("elapsed", e.tm.Elapsed()).
				Msg("search-timeout")
			break
		}
		for i := range cands {
			cands[i].Score = scores[i]
		}

		best := cands[bestCandidate(cands)]
		res.Move = best.Move
		res.Score = best.Score
		res.Depth = depth

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: best.Score,
				Nodes: e.searcher.Nodes(),
				Time:  e.tm.Elapsed(),
				Move:  best.Move,
			})
		}
		log.Debug().
			Int("depth", depth).
			Str("move", best.Move.String()).
			Float64("score", best.Score).
			Uint64("nodes", e.searcher.Nodes()).
			Int("candidates", len(cands)).
			Msg("depth-complete")

		rankCandidates(cands, cfg.BeamRanking)
		if len(cands) > cfg.BeamWidth {
			cands = cands[:cfg.BeamWidth]
		}
		res.Candidates = candidateMoves(cands)
	}

	if res.Depth == 0 {
		// Not even depth 1 finished: rank by the static scores we have.
		rankCandidates(cands, config.RankStatic)
		if len(cands) > cfg.BeamWidth {
			cands = cands[:cfg.BeamWidth]
		}
		res.Candidates = candidateMoves(cands)
	}

	res.Nodes = e.searcher.Nodes()
	res.Elapsed = e.tm.Elapsed()
	return res
}

// Perft counts the leaf nodes of the game tree to the given depth with the
// players alternating, starting with sym. Finished games are leaves.
func (e *Engine) Perft(b *board.Board, sym board.Cell, depth int) uint64 {
	return Perft(b.Copy(), e.Rules(), sym, depth)
}

// Perft is Engine.Perft for an explicit rule set. b is restored on return.
func Perft(b *board.Board, rules board.Rules, sym board.Cell, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	if b.CheckWinner(board.First) || b.CheckWinner(board.Second) {
		return 1
	}

	moves := rules.Generate(b, sym, nil)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo := b.MakeMove(m, sym)
		nodes += Perft(b, rules, sym.Opponent(), depth-1)
		b.UnmakeMove(undo)
	}
	return nodes
}
