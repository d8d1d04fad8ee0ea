package strategy

import (
	"context"

	"lukechampine.com/frand"

	"github.com/hailam/slideplay/internal/board"
)

func init() {
	Register("random", NewRandom)
	Register("greedy", NewGreedy)
}

// Random plays a uniformly chosen legal move.
type Random struct {
	rules board.Rules
	intn  func(n int) int
}

// NewRandom is the Factory of the "random" strategy.
func NewRandom(params map[string]string, opts Options) (Decider, error) {
	rules, err := rulesParam(params, opts.Config)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(params); err != nil {
		return nil, err
	}
	intn := opts.Intn
	if intn == nil {
		intn = frand.Intn
	}
	return &Random{rules: rules, intn: intn}, nil
}

// Decide implements Decider.
func (r *Random) Decide(_ context.Context, b *board.Board, sym board.Cell) board.Move {
	moves := r.rules.Generate(b, sym, nil)
	if len(moves) == 0 {
		return board.NoMove
	}
	return moves[r.intn(len(moves))]
}

// Greedy plays the move with the best one-ply score: ten points per own
// piece in every line plus a bonus for a completed line, minus ten per
// opponent piece and a penalty that grows as an opponent line nears
// completion.
type Greedy struct {
	rules board.Rules
}

// NewGreedy is the Factory of the "greedy" strategy.
func NewGreedy(params map[string]string, opts Options) (Decider, error) {
	rules, err := rulesParam(params, opts.Config)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(params); err != nil {
		return nil, err
	}
	return &Greedy{rules: rules}, nil
}

// Decide implements Decider. Ties go to the earliest generated move.
func (g *Greedy) Decide(_ context.Context, b *board.Board, sym board.Cell) board.Move {
	moves := g.rules.Generate(b, sym, nil)
	if len(moves) == 0 {
		return board.NoMove
	}

	pos := b.Copy()
	best, bestScore := moves[0], 0
	for i, m := range moves {
		undo := pos.MakeMove(m, sym)
		score := GreedyScore(pos, sym)
		pos.UnmakeMove(undo)
		if i == 0 || score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

// GreedyScore scores b for sym the way the greedy baseline does.
func GreedyScore(b *board.Board, sym board.Cell) int {
	opp := sym.Opponent()
	n := b.Size()
	score := 0
	for i := 0; i < b.LineCount(); i++ {
		pc, oc := b.LineCounts(i, sym, opp)

		score += 10 * pc
		if pc == n {
			score += 1000
		}

		score -= 10 * oc
		switch {
		case oc == n-1:
			score -= 900
		case oc == n-2:
			score -= 100
		case n >= 4 && oc == n-3:
			score -= 50
		case n >= 5 && oc == n-4:
			score -= 20
		}
	}
	return score
}
