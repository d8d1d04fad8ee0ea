package board

import (
	"testing"
)

func mustParse(t *testing.T, s string) *Board {
	t.Helper()
	b, err := Parse(s)
	if err != nil {
		t.Fatalf("Failed to parse board %q: %v", s, err)
	}
	return b
}

func TestApplyShiftsTowardSource(t *testing.T) {
	tests := []struct {
		name  string
		board string
		move  Move
		sym   Cell
		want  string
	}{
		{"right into empty", "X__/___/___", NewMove(0, 0, 0, 2), First, "__X/___/___"},
		{"left into empty", "__O/___/___", NewMove(0, 2, 0, 0), Second, "O__/___/___"},
		{"down into empty", "X__/___/___", NewMove(0, 0, 2, 0), First, "___/___/X__"},
		{"up into empty", "___/___/_O_", NewMove(2, 1, 0, 1), Second, "_O_/___/___"},
		// Pieces between source and target shift one step toward the source.
		{"right chain", "XOO_/____/____/____", NewMove(0, 0, 0, 3), First, "OO_X/____/____/____"},
		{"left chain", "_OOX/____/____/____", NewMove(0, 3, 0, 0), First, "X_OO/____/____/____"},
		{"down chain", "X___/O___/O___/____", NewMove(0, 0, 3, 0), First, "O___/O___/____/X___"},
		{"up chain", "____/___O/___O/___X", NewMove(3, 3, 0, 3), Second, "___O/____/___O/___O"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.board)
			b.Apply(tc.move, tc.sym)
			if got := b.Rows(); got != tc.want {
				t.Errorf("Apply(%v) = %s, want %s", tc.move, got, tc.want)
			}
		})
	}
}

func TestApplyRoundTripIsLossy(t *testing.T) {
	// Under push rules the source may be empty. Pushing back along the same
	// row does not bring the empty cell back: the slide forgets it.
	start := "_OX/___/___"
	b := mustParse(t, start)

	m := NewMove(0, 0, 0, 2)
	b.Apply(m, First)
	if got := b.Rows(); got != "OXX/___/___" {
		t.Fatalf("After push got %s, want OXX/___/___", got)
	}

	inverse := NewMove(0, 2, 0, 0)
	b.Apply(inverse, First)
	if got := b.Rows(); got != "XOX/___/___" {
		t.Fatalf("After inverse push got %s, want XOX/___/___", got)
	}
	if b.Rows() == start {
		t.Error("Expected the inverse move not to restore the original board")
	}
}

func TestApplyPanicsOnDiagonalMove(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non axis-aligned move")
		}
	}()
	b := New(3)
	b.Apply(NewMove(0, 0, 1, 1), First)
}

func TestApplyPanicsOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for move leaving the board")
		}
	}()
	b := New(3)
	b.Apply(NewMove(0, 0, 0, 3), First)
}

func TestMakeUnmakeRestores(t *testing.T) {
	b := mustParse(t, "XO_O/_X__/O__X/X_O_")
	orig := b.Copy()

	for _, m := range []Move{
		NewMove(0, 0, 0, 3),
		NewMove(3, 0, 0, 0),
		NewMove(2, 3, 2, 0),
		NewMove(0, 1, 3, 1),
	} {
		u := b.MakeMove(m, First)
		if b.Equal(orig) {
			t.Errorf("MakeMove(%v) left the board unchanged", m)
		}
		b.UnmakeMove(u)
		if !b.Equal(orig) {
			t.Errorf("UnmakeMove(%v) = %s, want %s", m, b.Rows(), orig.Rows())
		}
		if b.Hash != orig.Hash {
			t.Errorf("UnmakeMove(%v) hash = %016x, want %016x", m, b.Hash, orig.Hash)
		}
	}
}

func TestHashTracksContents(t *testing.T) {
	b := mustParse(t, "X__/_O_/__X")
	b.Apply(NewMove(0, 0, 0, 2), First)
	b.Apply(NewMove(1, 1, 1, 0), Second)

	fresh := mustParse(t, b.Rows())
	if b.Hash != fresh.Hash {
		t.Errorf("Incremental hash %016x differs from fresh hash %016x", b.Hash, fresh.Hash)
	}

	other := mustParse(t, "O__/_X_/__O")
	if other.Hash == mustParse(t, "X__/_O_/__X").Hash {
		t.Error("Expected different hashes for swapped symbols")
	}
}

func TestCheckWinner(t *testing.T) {
	tests := []struct {
		name   string
		board  string
		sym    Cell
		winner bool
	}{
		{"row", "___/XXX/O_O", First, true},
		{"column", "O_X/O_X/__X", First, true},
		{"diagonal", "O_X/_O_/X_O", Second, true},
		{"anti-diagonal", "O_X/_X_/X_O", First, true},
		{"incomplete", "XX_/OO_/___", First, false},
		{"other player", "___/XXX/O_O", Second, false},
		{"empty board", "___/___/___", First, false},
		{"4x4 column", "O__X/O___/O__X/O___", Second, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.board)
			if got := b.CheckWinner(tc.sym); got != tc.winner {
				t.Errorf("CheckWinner(%v) = %v, want %v", tc.sym, got, tc.winner)
			}
		})
	}
}

func TestWinnerPrefersPerspectiveOnDoubleCompletion(t *testing.T) {
	b := mustParse(t, "XXX/___/OOO")
	if !b.CheckWinner(First) || !b.CheckWinner(Second) {
		t.Fatal("Expected both players to own a complete line")
	}
	if got := b.Winner(First); got != First {
		t.Errorf("Winner(X) = %v, want X", got)
	}
	if got := b.Winner(Second); got != Second {
		t.Errorf("Winner(O) = %v, want O", got)
	}
	if got := mustParse(t, "XO_/___/___").Winner(First); got != Empty {
		t.Errorf("Winner on open board = %v, want empty", got)
	}
}

func TestLines(t *testing.T) {
	b := mustParse(t, "XO_/_X_/O_X")
	if got := b.LineCount(); got != 8 {
		t.Fatalf("LineCount() = %d, want 8", got)
	}

	want := []string{"XO_", "_X_", "O_X", "X_O", "OX_", "__X", "XXX", "_XO"}
	for i, w := range want {
		var s string
		for _, c := range b.Line(i, nil) {
			s += c.String()
		}
		if s != w {
			t.Errorf("Line(%d) = %s, want %s", i, s, w)
		}
	}

	p, o := b.LineCounts(6, First, Second)
	if p != 3 || o != 0 {
		t.Errorf("LineCounts(diagonal) = %d,%d, want 3,0", p, o)
	}
}

func TestParseAndKey(t *testing.T) {
	b := mustParse(t, "x.o/-X-/o__")
	if got := b.Key(); got != "X_O_X_O__" {
		t.Errorf("Key() = %s, want X_O_X_O__", got)
	}

	flat := mustParse(t, b.Key())
	if !flat.Equal(b) {
		t.Errorf("Flat parse = %s, want %s", flat.Rows(), b.Rows())
	}

	for _, bad := range []string{"", "X", "XO_/__", "XO_/___/__Z", "XO_/___/___/___"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("0, 1 2,1")
	if err != nil {
		t.Fatalf("ParseMove failed: %v", err)
	}
	if m != NewMove(0, 1, 2, 1) {
		t.Errorf("ParseMove = %v, want 0 1 2 1", m)
	}
	if got := MoveFromTuple(m.Tuple()); got != m {
		t.Errorf("MoveFromTuple(Tuple()) = %v, want %v", got, m)
	}
	if _, err := ParseMove("0 1 2"); err == nil {
		t.Error("Expected error for three coordinates")
	}
	if !NoMove.IsNoMove() || NoMove.Aligned() {
		t.Error("NoMove must be the non-aligned zero move")
	}
}
