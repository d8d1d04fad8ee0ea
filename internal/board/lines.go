package board

// Lines are indexed 0..2N+1: rows first, then columns, then the main
// diagonal and the anti-diagonal.

// LineCount returns the number of scoring lines, 2N+2.
func (b *Board) LineCount() int {
	return 2*b.size + 2
}

// lineSquare returns the square index of the k-th cell of line i.
func (b *Board) lineSquare(i, k int) int {
	n := b.size
	switch {
	case i < n:
		return i*n + k
	case i < 2*n:
		return k*n + (i - n)
	case i == 2*n:
		return k*n + k
	default:
		return k*n + (n - 1 - k)
	}
}

// Line appends the cells of line i to dst and returns it.
func (b *Board) Line(i int, dst []Cell) []Cell {
	for k := 0; k < b.size; k++ {
		dst = append(dst, b.cells[b.lineSquare(i, k)])
	}
	return dst
}

// LineCounts returns how many cells of line i hold p and o.
func (b *Board) LineCounts(i int, p, o Cell) (pc, oc int) {
	for k := 0; k < b.size; k++ {
		switch b.cells[b.lineSquare(i, k)] {
		case p:
			pc++
		case o:
			oc++
		}
	}
	return pc, oc
}

// CheckWinner reports whether sym fills some row, column or diagonal.
func (b *Board) CheckWinner(sym Cell) bool {
	if !sym.IsSymbol() {
		return false
	}
	for i := 0; i < b.LineCount(); i++ {
		if b.lineFilled(i, sym) {
			return true
		}
	}
	return false
}

func (b *Board) lineFilled(i int, sym Cell) bool {
	for k := 0; k < b.size; k++ {
		if b.cells[b.lineSquare(i, k)] != sym {
			return false
		}
	}
	return true
}

// Winner returns the symbol owning a complete line. When both players own
// one, perspective decides: the perspective player is reported first.
// Empty means no winner.
func (b *Board) Winner(perspective Cell) Cell {
	if b.CheckWinner(perspective) {
		return perspective
	}
	if opp := perspective.Opponent(); b.CheckWinner(opp) {
		return opp
	}
	return Empty
}
