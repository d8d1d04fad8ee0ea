// Package engine implements the static evaluator and the iterative
// deepening alpha-beta search that picks a move under a time budget.
package engine

import (
	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
)

// Evaluator scores boards from one player's perspective by summing a
// bonus per row, column and diagonal.
type Evaluator struct {
	win    float64
	table  []float64 // bonus by piece count, last entry repeats
	policy config.LinePolicy
	cache  *EvalCache
}

// NewEvaluator creates an evaluator from the heuristic part of cfg.
// A nil cache disables caching.
func NewEvaluator(cfg config.Config, cache *EvalCache) *Evaluator {
	return &Evaluator{
		win:    cfg.WinScore,
		table:  append([]float64(nil), cfg.LineScores...),
		policy: cfg.LinePolicy,
		cache:  cache,
	}
}

// WinScore returns the score of a completed line.
func (e *Evaluator) WinScore() float64 {
	return e.win
}

// bonus returns the table entry for count pieces.
func (e *Evaluator) bonus(count int) float64 {
	if count <= 0 {
		return 0
	}
	if count >= len(e.table) {
		return e.table[len(e.table)-1]
	}
	return e.table[count]
}

// scoreCounts scores a line holding pc of the player's and oc of the
// opponent's pieces.
func (e *Evaluator) scoreCounts(pc, oc, size int) float64 {
	if pc == size {
		return e.win
	}
	if oc == size {
		return -e.win
	}

	var score float64
	gated := e.policy != config.PolicyMajority
	if !gated || oc == 0 {
		score += e.bonus(pc)
	}
	if !gated || pc == 0 {
		score -= e.bonus(oc)
	}
	return score
}

// EvaluateLine scores a single line of cells for player against opponent.
func (e *Evaluator) EvaluateLine(line []board.Cell, player, opponent board.Cell, size int) float64 {
	var pc, oc int
	for _, c := range line {
		switch c {
		case player:
			pc++
		case opponent:
			oc++
		}
	}
	return e.scoreCounts(pc, oc, size)
}

// EvaluateBoard returns the static score of b for sym. A completed line
// short-circuits to the win score, sym's own line first.
func (e *Evaluator) EvaluateBoard(b *board.Board, sym board.Cell) float64 {
	var key uint64
	if e.cache != nil {
		key = b.Hash ^ board.ZobristSide(sym)
		if score, ok := e.cache.Probe(key); ok {
			return score
		}
	}

	score := e.evaluate(b, sym)

	if e.cache != nil {
		e.cache.Store(key, score)
	}
	return score
}

func (e *Evaluator) evaluate(b *board.Board, sym board.Cell) float64 {
	opp := sym.Opponent()
	if b.CheckWinner(sym) {
		return e.win
	}
	if b.CheckWinner(opp) {
		return -e.win
	}

	size := b.Size()
	var score float64
	for i := 0; i < b.LineCount(); i++ {
		pc, oc := b.LineCounts(i, sym, opp)
		score += e.scoreCounts(pc, oc, size)
	}
	return score
}
