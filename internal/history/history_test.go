package history

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/slideplay/internal/board"
)

func TestCapacityEvictsOldest(t *testing.T) {
	tr := NewTracker(2, nil, nil)
	m := board.NewMove(0, 0, 0, 1)

	for _, key := range []string{"X___", "_X__", "__X_"} {
		if got, outcome := tr.Resolve(key, m, []board.Move{m}); got != m || outcome != Fresh {
			t.Fatalf("Resolve(%s) = %v, %v", key, got, outcome)
		}
	}

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if tr.Contains("X___", m) {
		t.Error("Oldest entry was not evicted")
	}
	entries := tr.Entries()
	if entries[0].Board != "_X__" || entries[1].Board != "__X_" {
		t.Errorf("Unexpected order: %+v", entries)
	}
}

func TestRepeatPicksUnrecordedCandidate(t *testing.T) {
	tr := NewTracker(8, nil, nil)
	key := "XO__"
	a := board.NewMove(0, 0, 1, 0)
	b := board.NewMove(0, 1, 1, 1)
	c := board.NewMove(0, 1, 0, 3)
	cands := []board.Move{a, b, c}

	if got, _ := tr.Resolve(key, a, cands); got != a {
		t.Fatalf("First decision changed the move to %v", got)
	}
	got, outcome := tr.Resolve(key, a, cands)
	if got != b || outcome != Replaced {
		t.Errorf("Second decision = %v (%v), want %v replaced", got, outcome, b)
	}
	got, _ = tr.Resolve(key, a, cands)
	if got != c {
		t.Errorf("Third decision = %v, want %v", got, c)
	}

	// Other boards are independent.
	if got, outcome := tr.Resolve("O_X_", a, cands); got != a || outcome != Fresh {
		t.Errorf("Different board = %v (%v), want %v fresh", got, outcome, a)
	}
}

func TestSaturatedPicksRandomCandidate(t *testing.T) {
	key := "XXOO"
	a := board.NewMove(0, 0, 1, 0)
	b := board.NewMove(0, 1, 1, 1)
	entries := []Entry{
		{Board: key, Move: a.Tuple()},
		{Board: key, Move: b.Tuple()},
	}

	rng := rand.New(rand.NewSource(7))
	tr := NewTracker(8, entries, rng.Intn)

	got, outcome := tr.Resolve(key, a, []board.Move{a, b})
	if outcome != Saturated {
		t.Fatalf("outcome = %v, want saturated", outcome)
	}
	if got != a && got != b {
		t.Errorf("Random fallback %v is not a candidate", got)
	}
	if tr.Len() != 3 {
		t.Errorf("Random choice not recorded, Len() = %d", tr.Len())
	}

	seen := map[board.Move]bool{}
	for i := 0; i < 50; i++ {
		m, _ := tr.Resolve(key, a, []board.Move{a, b})
		seen[m] = true
	}
	if !seen[a] || !seen[b] {
		t.Errorf("Random fallback never picked one of the candidates: %v", seen)
	}
}

func TestNoMoveIsNotRecorded(t *testing.T) {
	tr := NewTracker(4, nil, nil)
	if got, _ := tr.Resolve("____", board.NoMove, nil); !got.IsNoMove() {
		t.Errorf("Resolve(NoMove) = %v", got)
	}
	if tr.Len() != 0 {
		t.Errorf("NoMove was recorded")
	}
}

func TestLoadedHistoryIsTrimmed(t *testing.T) {
	entries := []Entry{{Board: "a"}, {Board: "b"}, {Board: "c"}}
	tr := NewTracker(2, entries, nil)
	if tr.Len() != 2 || tr.Entries()[0].Board != "b" {
		t.Errorf("Entries() = %+v", tr.Entries())
	}
	if len(entries) != 3 {
		t.Error("NewTracker modified its input")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "past_moves.json"))

	entries, err := store.Load()
	if err != nil || len(entries) != 0 {
		t.Fatalf("Missing file: entries %v, err %v", entries, err)
	}

	want := []Entry{
		{Board: "X__O", Move: [4]int{0, 0, 0, 1}},
		{Board: "_X_O", Move: [4]int{0, 1, 1, 1}},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	data, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != '[' || data[1] != '\n' || string(data[2:6]) != "    " {
		t.Errorf("File is not an indented list:\n%s", data)
	}
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "past_moves.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := Open(NewFileStore(path), 4, nil)
	if tr.Len() != 0 {
		t.Errorf("Corrupt file gave %d entries", tr.Len())
	}

	m := board.NewMove(0, 0, 0, 1)
	tr.Resolve("X___", m, nil)
	if err := Close(NewFileStore(path), tr); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	reopened := Open(NewFileStore(path), 4, nil)
	if !reopened.Contains("X___", m) {
		t.Error("Saved decision not found after reopening")
	}
}

func TestDefaultPath(t *testing.T) {
	if NewFileStore("").Path != DefaultFile {
		t.Errorf("NewFileStore(\"\").Path = %q", NewFileStore("").Path)
	}
}
