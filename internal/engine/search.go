package engine

import (
	"math"
	"sort"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
)

// Search constants
const (
	Infinity = math.MaxFloat64
	MaxPly   = 64
)

// Searcher runs the depth-limited minimax over a single mutable board.
// Once the time manager reports a stop, every frame returns 0 and the
// caller discards the layer in progress.
type Searcher struct {
	eval      *Evaluator
	rules     board.Rules
	tm        *TimeManager
	alphaBeta bool
	nodeBeam  int
	discount  [MaxPly + 1]float64 // depth_discount^ply

	nodes   uint64
	stopped bool

	// Per-ply move buffers, reused across nodes.
	moveStack  [MaxPly][]board.Move
	childStack [MaxPly][]rankedChild
}

type rankedChild struct {
	move  board.Move
	score float64
}

// NewSearcher creates a searcher that checks the clock through tm.
func NewSearcher(tm *TimeManager) *Searcher {
	return &Searcher{tm: tm}
}

// configure prepares the searcher for one decision.
func (s *Searcher) configure(eval *Evaluator, rules board.Rules, cfg config.Config) {
	s.eval = eval
	s.rules = rules
	s.alphaBeta = cfg.AlphaBeta
	s.nodeBeam = cfg.NodeBeamWidth
	f := 1.0
	for i := range s.discount {
		s.discount[i] = f
		f *= cfg.DepthDiscount
	}
	s.nodes = 0
	s.stopped = false
}

// Nodes returns the number of nodes visited since the last configure.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopped
}

func (s *Searcher) checkStop() bool {
	if !s.stopped && s.tm.ShouldStop() {
		s.stopped = true
	}
	return s.stopped
}

// searchLayer scores every candidate of sym at the given depth. Each
// candidate is played and the opponent's reply searched with a full window.
// ok is false when the layer was cut short.
func (s *Searcher) searchLayer(b *board.Board, sym board.Cell, cands []candidate, depth int) (scores []float64, ok bool) {
	scores = make([]float64, len(cands))
	for i, c := range cands {
		if s.checkStop() {
			return nil, false
		}
		undo := b.MakeMove(c.Move, sym)
		scores[i] = s.minimax(b, depth-1, false, sym, -Infinity, Infinity, 1)
		b.UnmakeMove(undo)
		if s.stopped {
			return nil, false
		}
	}
	return scores, true
}

// minimax returns the score of b for root, discounted by the distance from
// the search root. maximizing tells whether root is to move.
func (s *Searcher) minimax(b *board.Board, depth int, maximizing bool, root board.Cell, alpha, beta float64, ply int) float64 {
	if s.checkStop() {
		return 0
	}
	s.nodes++

	if depth <= 0 || ply >= MaxPly || b.CheckWinner(board.First) || b.CheckWinner(board.Second) {
		return s.leaf(b, root, ply)
	}

	mover := root
	if !maximizing {
		mover = root.Opponent()
	}
	moves := s.rules.Generate(b, mover, s.moveStack[ply][:0])
	s.moveStack[ply] = moves
	if len(moves) == 0 {
		return s.leaf(b, root, ply)
	}
	if s.nodeBeam > 0 && len(moves) > s.nodeBeam {
		moves = s.narrow(b, moves, mover, root, maximizing, ply)
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		undo := b.MakeMove(m, mover)
		score := s.minimax(b, depth-1, !maximizing, root, alpha, beta, ply+1)
		b.UnmakeMove(undo)
		if s.stopped {
			return 0
		}

		if maximizing {
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
		} else {
			best = math.Min(best, score)
			beta = math.Min(beta, score)
		}
		if s.alphaBeta && beta <= alpha {
			break
		}
		if s.checkStop() {
			return 0
		}
	}
	return best
}

func (s *Searcher) leaf(b *board.Board, root board.Cell, ply int) float64 {
	return s.eval.EvaluateBoard(b, root) * s.discount[min(ply, MaxPly)]
}

// narrow keeps the nodeBeam children with the best static score for the
// side to move: highest first for root, lowest first for the opponent.
func (s *Searcher) narrow(b *board.Board, moves []board.Move, mover, root board.Cell, maximizing bool, ply int) []board.Move {
	children := s.childStack[ply][:0]
	for _, m := range moves {
		undo := b.MakeMove(m, mover)
		children = append(children, rankedChild{move: m, score: s.eval.EvaluateBoard(b, root)})
		b.UnmakeMove(undo)
	}
	s.childStack[ply] = children

	sort.SliceStable(children, func(i, j int) bool {
		if maximizing {
			return children[i].score > children[j].score
		}
		return children[i].score < children[j].score
	})

	moves = moves[:0]
	for _, c := range children[:s.nodeBeam] {
		moves = append(moves, c.move)
	}
	return moves
}
