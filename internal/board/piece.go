package board

import "github.com/pkg/errors"

// Cell is the content of one square of the grid.
// The two non-empty values double as the player symbols.
type Cell uint8

const (
	Empty Cell = iota
	First       // X, moves first
	Second      // O
)

// Opponent returns the other player symbol. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case First:
		return Second
	case Second:
		return First
	default:
		return Empty
	}
}

// IsSymbol reports whether c is one of the two player symbols.
func (c Cell) IsSymbol() bool {
	return c == First || c == Second
}

// Char returns the single character used in board keys.
func (c Cell) Char() byte {
	switch c {
	case First:
		return 'X'
	case Second:
		return 'O'
	default:
		return '_'
	}
}

// String returns the cell character as a string.
func (c Cell) String() string {
	return string(c.Char())
}

// ParseCell converts a board character to a Cell.
// '_', '.' and '-' are accepted for empty squares, letters are case-insensitive.
func ParseCell(ch byte) (Cell, error) {
	switch ch {
	case '_', '.', '-':
		return Empty, nil
	case 'X', 'x':
		return First, nil
	case 'O', 'o':
		return Second, nil
	}
	return Empty, errors.Errorf("invalid cell character %q", ch)
}

// ParseSymbol parses a player symbol ("X", "O", "first", "second").
func ParseSymbol(s string) (Cell, error) {
	switch s {
	case "X", "x", "first":
		return First, nil
	case "O", "o", "second":
		return Second, nil
	}
	return Empty, errors.Errorf("invalid player symbol %q", s)
}
