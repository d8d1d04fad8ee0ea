package engine

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
)

// candidate is a root move with its one-ply static score and the score of
// the last completed layer.
type candidate struct {
	Move   board.Move
	Static float64
	Score  float64
}

// scoreCandidates wraps moves with their static score for sym.
func scoreCandidates(b *board.Board, moves []board.Move, sym board.Cell, eval *Evaluator) []candidate {
	return lo.Map(moves, func(m board.Move, _ int) candidate {
		undo := b.MakeMove(m, sym)
		c := candidate{Move: m, Static: eval.EvaluateBoard(b, sym)}
		b.UnmakeMove(undo)
		return c
	})
}

// rankCandidates sorts cands best first by the key the ranking selects.
// Equal keys keep their current order.
func rankCandidates(cands []candidate, ranking config.BeamRanking) {
	key := func(c candidate) float64 { return c.Static }
	if ranking == config.RankSearch {
		key = func(c candidate) float64 { return c.Score }
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return key(cands[i]) > key(cands[j])
	})
}

// bestCandidate returns the index of the highest layer score; the earliest
// wins ties.
func bestCandidate(cands []candidate) int {
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[best].Score {
			best = i
		}
	}
	return best
}

// candidateMoves extracts the moves in order.
func candidateMoves(cands []candidate) []board.Move {
	return lo.Map(cands, func(c candidate, _ int) board.Move { return c.Move })
}
