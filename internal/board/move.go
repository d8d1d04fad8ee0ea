package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Move slides a piece from (FromRow, FromCol) to (ToRow, ToCol).
// Both cells share a row or a column.
type Move struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

// NoMove is the no-op sentinel returned when a player has no legal move.
var NoMove = Move{}

// NewMove creates a move from source and target coordinates.
func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

// MoveFromTuple builds a move from its persisted four-integer form.
func MoveFromTuple(t [4]int) Move {
	return Move{FromRow: t[0], FromCol: t[1], ToRow: t[2], ToCol: t[3]}
}

// Tuple returns the move as (sourceRow, sourceCol, targetRow, targetCol).
func (m Move) Tuple() [4]int {
	return [4]int{m.FromRow, m.FromCol, m.ToRow, m.ToCol}
}

// IsNoMove reports whether m is the no-op sentinel.
func (m Move) IsNoMove() bool {
	return m == NoMove
}

// Horizontal returns true if the move travels along a row.
func (m Move) Horizontal() bool {
	return m.FromRow == m.ToRow
}

// Aligned returns true if source and target share a row or a column
// and are different cells.
func (m Move) Aligned() bool {
	if m.FromRow == m.ToRow && m.FromCol == m.ToCol {
		return false
	}
	return m.FromRow == m.ToRow || m.FromCol == m.ToCol
}

// Length returns the number of steps between source and target.
func (m Move) Length() int {
	if m.Horizontal() {
		return abs(m.ToCol - m.FromCol)
	}
	return abs(m.ToRow - m.FromRow)
}

// String returns the move as four space separated integers.
func (m Move) String() string {
	return fmt.Sprintf("%d %d %d %d", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}

// ParseMove parses four integers separated by spaces or commas.
func ParseMove(s string) (Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 4 {
		return NoMove, errors.Errorf("invalid move string: %q", s)
	}

	var t [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return NoMove, errors.Wrapf(err, "invalid move coordinate %q", f)
		}
		t[i] = v
	}
	return MoveFromTuple(t), nil
}

// Undo stores what is needed to take back a move made with MakeMove.
type Undo struct {
	move  Move
	saved [MaxSize]Cell
	n     int
	hash  uint64
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
