// Package board implements the square grid, slide moves and move generation
// for the line-completion sliding game.
package board

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Supported board sizes.
const (
	MinSize = 2
	MaxSize = 16
)

// Board is an N x N grid of cells stored row-major.
type Board struct {
	size  int
	cells []Cell

	// Zobrist hash of the cell contents, kept up to date by every mutation.
	Hash uint64
}

// New creates an empty board. It panics on unsupported sizes.
func New(size int) *Board {
	if size < MinSize || size > MaxSize {
		panic(fmt.Sprintf("board: unsupported size %d", size))
	}
	return &Board{size: size, cells: make([]Cell, size*size), Hash: zobristSize[size]}
}

// Parse reads a board from its text form. Rows may be separated by '/',
// newlines or spaces; a single unseparated string must have square length.
func Parse(s string) (*Board, error) {
	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n' || r == ' ' || r == '\r' || r == '\t'
	})
	if len(rows) == 1 {
		flat := rows[0]
		n := 0
		for n*n < len(flat) {
			n++
		}
		if n*n != len(flat) {
			return nil, errors.Errorf("board string of length %d is not square", len(flat))
		}
		rows = rows[:0]
		for r := 0; r < n; r++ {
			rows = append(rows, flat[r*n:(r+1)*n])
		}
	}

	n := len(rows)
	if n < MinSize || n > MaxSize {
		return nil, errors.Errorf("unsupported board size %d", n)
	}
	b := New(n)
	for r, row := range rows {
		if len(row) != n {
			return nil, errors.Errorf("row %d has %d cells, want %d", r, len(row), n)
		}
		for c := 0; c < n; c++ {
			cell, err := ParseCell(row[c])
			if err != nil {
				return nil, errors.WithMessagef(err, "row %d", r)
			}
			b.Set(r, c, cell)
		}
	}
	return b, nil
}

// FromRows builds a board from a slice of row strings.
func FromRows(rows ...string) (*Board, error) {
	return Parse(strings.Join(rows, "/"))
}

// Size returns N.
func (b *Board) Size() int {
	return b.size
}

// At returns the cell at row r, column c.
func (b *Board) At(r, c int) Cell {
	return b.cells[r*b.size+c]
}

// Set places v at row r, column c.
func (b *Board) Set(r, c int, v Cell) {
	b.set(r*b.size+c, v)
}

func (b *Board) set(sq int, v Cell) {
	old := b.cells[sq]
	if old == v {
		return
	}
	b.Hash ^= zobristCell[sq][old] ^ zobristCell[sq][v]
	b.cells[sq] = v
}

// InBounds reports whether (r, c) lies on the board.
func (b *Board) InBounds(r, c int) bool {
	return r >= 0 && r < b.size && c >= 0 && c < b.size
}

// OnBorder reports whether (r, c) lies on the outer ring.
func (b *Board) OnBorder(r, c int) bool {
	last := b.size - 1
	return r == 0 || c == 0 || r == last || c == last
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	nb := &Board{size: b.size, cells: make([]Cell, len(b.cells)), Hash: b.Hash}
	copy(nb.cells, b.cells)
	return nb
}

// Equal reports whether both boards have the same size and contents.
func (b *Board) Equal(o *Board) bool {
	if b.size != o.size {
		return false
	}
	for i, c := range b.cells {
		if o.cells[i] != c {
			return false
		}
	}
	return true
}

// Count returns how many cells hold v.
func (b *Board) Count(v Cell) int {
	n := 0
	for _, c := range b.cells {
		if c == v {
			n++
		}
	}
	return n
}

// Key returns the lossless row-major serialization used by the move history:
// one character per cell, '_' for empty.
func (b *Board) Key() string {
	buf := make([]byte, len(b.cells))
	for i, c := range b.cells {
		buf[i] = c.Char()
	}
	return string(buf)
}

// Rows returns the board in '/'-separated form, accepted by Parse.
func (b *Board) Rows() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < b.size; c++ {
			sb.WriteByte(b.At(r, c).Char())
		}
	}
	return sb.String()
}

// String returns a multi-line rendering of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < b.size; c++ {
		fmt.Fprintf(&sb, " %x", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < b.size; r++ {
		fmt.Fprintf(&sb, " %x |", r)
		for c := 0; c < b.size; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.At(r, c).Char())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Apply plays m for sym in place. Cells strictly between source and target
// take the value of their neighbour one step closer to the target, then the
// target receives sym. No legality check is done beyond panicking on moves
// that are not axis-aligned or leave the board.
func (b *Board) Apply(m Move, sym Cell) {
	b.mustBeSlide(m)
	b.slide(m, sym)
}

// MakeMove plays m like Apply and returns the information needed to undo it.
func (b *Board) MakeMove(m Move, sym Cell) Undo {
	b.mustBeSlide(m)

	u := Undo{move: m, hash: b.Hash}
	dr, dc := m.step()
	r, c := m.FromRow, m.FromCol
	for {
		u.saved[u.n] = b.At(r, c)
		u.n++
		if r == m.ToRow && c == m.ToCol {
			break
		}
		r += dr
		c += dc
	}

	b.slide(m, sym)
	return u
}

// UnmakeMove restores the board to its state before the matching MakeMove.
func (b *Board) UnmakeMove(u Undo) {
	dr, dc := u.move.step()
	r, c := u.move.FromRow, u.move.FromCol
	for i := 0; i < u.n; i++ {
		b.cells[r*b.size+c] = u.saved[i]
		r += dr
		c += dc
	}
	b.Hash = u.hash
}

func (b *Board) slide(m Move, sym Cell) {
	dr, dc := m.step()
	r, c := m.FromRow, m.FromCol
	for r != m.ToRow || c != m.ToCol {
		b.Set(r, c, b.At(r+dr, c+dc))
		r += dr
		c += dc
	}
	b.Set(m.ToRow, m.ToCol, sym)
}

func (b *Board) mustBeSlide(m Move) {
	if !m.Aligned() || !b.InBounds(m.FromRow, m.FromCol) || !b.InBounds(m.ToRow, m.ToCol) {
		panic(fmt.Sprintf("board: invalid slide %v on %dx%d board", m, b.size, b.size))
	}
}

// step returns the unit direction from source to target.
func (m Move) step() (dr, dc int) {
	if m.Horizontal() {
		if m.ToCol > m.FromCol {
			return 0, 1
		}
		return 0, -1
	}
	if m.ToRow > m.FromRow {
		return 1, 0
	}
	return -1, 0
}
