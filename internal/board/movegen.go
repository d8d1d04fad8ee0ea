package board

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Rules selects the move generator.
type Rules uint8

const (
	// SlideRules: a piece of the mover slides along its row or column into
	// any cell reachable through empty cells only.
	SlideRules Rules = iota
	// PushRules: the mover takes an empty or own border cell and pushes it in
	// at another end of that cell's row or column, shifting the pieces between.
	PushRules
)

// String returns the configuration name of the rule set.
func (r Rules) String() string {
	if r == PushRules {
		return "push"
	}
	return "slide"
}

// ParseRules converts a configuration name into Rules.
func ParseRules(s string) (Rules, error) {
	switch s {
	case "", "slide":
		return SlideRules, nil
	case "push":
		return PushRules, nil
	}
	return SlideRules, errors.Errorf("unknown rules %q", s)
}

// Slide directions: up, down, left, right.
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// GenerateMoves returns every legal slide move for sym under SlideRules.
// Sources are visited row-major, directions up, down, left, right, and
// nearer targets come first, so the order is fixed for a given board.
func GenerateMoves(b *Board, sym Cell) []Move {
	return SlideRules.Generate(b, sym, nil)
}

// Generate appends the legal moves of sym to dst and returns it.
func (r Rules) Generate(b *Board, sym Cell, dst []Move) []Move {
	if r == PushRules {
		return generatePushes(b, sym, dst)
	}
	return generateSlides(b, sym, dst)
}

// Legal checks m against the rule set for sym.
func (r Rules) Legal(b *Board, m Move, sym Cell) error {
	if !sym.IsSymbol() {
		return errors.Errorf("invalid mover %v", sym)
	}
	if !b.InBounds(m.FromRow, m.FromCol) || !b.InBounds(m.ToRow, m.ToCol) {
		return errors.Errorf("move %v leaves the %dx%d board", m, b.size, b.size)
	}
	if !m.Aligned() {
		return errors.Errorf("move %v is not an axis-aligned slide", m)
	}
	if !lo.Contains(r.Generate(b, sym, nil), m) {
		return errors.Errorf("move %v is not legal for %v under %v rules", m, sym, r)
	}
	return nil
}

func generateSlides(b *Board, sym Cell, dst []Move) []Move {
	n := b.size
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if b.At(r, c) != sym {
				continue
			}
			for _, d := range directions {
				tr, tc := r+d[0], c+d[1]
				for b.InBounds(tr, tc) && b.At(tr, tc) == Empty {
					dst = append(dst, NewMove(r, c, tr, tc))
					tr += d[0]
					tc += d[1]
				}
			}
		}
	}
	return dst
}

func generatePushes(b *Board, sym Cell, dst []Move) []Move {
	n := b.size
	last := n - 1
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if !b.OnBorder(r, c) {
				continue
			}
			if v := b.At(r, c); v != Empty && v != sym {
				continue
			}
			// Row ends first, then column ends.
			ends := [4][2]int{{r, 0}, {r, last}, {0, c}, {last, c}}
			for _, e := range ends {
				if e[0] == r && e[1] == c {
					continue
				}
				dst = append(dst, NewMove(r, c, e[0], e[1]))
			}
		}
	}
	return dst
}
