// Package history remembers recent (board, move) decisions so the player
// does not repeat itself from the same position.
package history

import (
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/hailam/slideplay/internal/board"
)

// Entry is one recorded decision.
type Entry struct {
	Board string `json:"board"` // board.Key of the position
	Move  [4]int `json:"move"`
}

// Outcome tells how Resolve treated the proposed move.
type Outcome int

const (
	// Fresh: the proposal was new and was kept.
	Fresh Outcome = iota
	// Replaced: the proposal repeated and an unrecorded candidate took over.
	Replaced
	// Saturated: every candidate was recorded and one was drawn at random.
	Saturated
)

func (o Outcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case Saturated:
		return "saturated"
	}
	return "fresh"
}

// Tracker is a bounded FIFO of recent decisions.
type Tracker struct {
	capacity int
	entries  []Entry
	intn     func(n int) int
}

// NewTracker creates a tracker seeded with entries, dropping the oldest
// ones beyond capacity. intn picks the random fallback; nil uses frand.
func NewTracker(capacity int, entries []Entry, intn func(n int) int) *Tracker {
	if intn == nil {
		intn = frand.Intn
	}
	t := &Tracker{
		capacity: capacity,
		entries:  append([]Entry(nil), entries...),
		intn:     intn,
	}
	t.evict()
	return t
}

// Len returns the number of recorded entries.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries, oldest first.
func (t *Tracker) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Contains reports whether (key, m) is recorded.
func (t *Tracker) Contains(key string, m board.Move) bool {
	e := Entry{Board: key, Move: m.Tuple()}
	return lo.Contains(t.entries, e)
}

// Record appends (key, m) and evicts the oldest entries beyond capacity.
func (t *Tracker) Record(key string, m board.Move) {
	t.entries = append(t.entries, Entry{Board: key, Move: m.Tuple()})
	t.evict()
}

func (t *Tracker) evict() {
	if over := len(t.entries) - t.capacity; over > 0 {
		t.entries = append(t.entries[:0], t.entries[over:]...)
	}
}

// Resolve returns the move to play on the board with the given key.
// A new proposal is recorded and kept. A repeated one is swapped for the
// first unrecorded candidate in ranked order. When every candidate is
// recorded one of them is drawn uniformly and recorded again.
// NoMove is returned unchanged and never recorded.
func (t *Tracker) Resolve(key string, proposed board.Move, candidates []board.Move) (board.Move, Outcome) {
	if proposed.IsNoMove() {
		return proposed, Fresh
	}
	if !t.Contains(key, proposed) {
		t.Record(key, proposed)
		return proposed, Fresh
	}

	if len(candidates) == 0 {
		candidates = []board.Move{proposed}
	}
	if m, ok := lo.Find(candidates, func(m board.Move) bool { return !t.Contains(key, m) }); ok {
		t.Record(key, m)
		return m, Replaced
	}

	m := candidates[t.intn(len(candidates))]
	t.Record(key, m)
	return m, Saturated
}
