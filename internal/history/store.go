package history

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultFile is the history file used when no path is configured.
const DefaultFile = "past_moves.json"

// Store persists the history between decisions.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// FileStore keeps the history as an indented JSON list in a single file.
// A missing or unreadable file loads as an empty history.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for path, or DefaultFile when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{Path: path}
}

// Load reads the file. It never fails: problems are logged and an empty
// history is returned.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("path", s.Path).Msg("history-unreadable")
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", s.Path).Msg("history-corrupt")
		return nil, nil
	}
	return entries, nil
}

// Save overwrites the file with entries.
func (s *FileStore) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing history %s", s.Path)
	}
	return nil
}

// MemoryStore keeps the history in memory only.
type MemoryStore struct {
	entries []Entry
}

// Load returns a copy of the stored entries.
func (s *MemoryStore) Load() ([]Entry, error) {
	return append([]Entry(nil), s.entries...), nil
}

// Save replaces the stored entries.
func (s *MemoryStore) Save(entries []Entry) error {
	s.entries = append([]Entry(nil), entries...)
	return nil
}

// Open loads a tracker from store. Load errors are logged and start an
// empty history.
func Open(store Store, capacity int, intn func(n int) int) *Tracker {
	entries, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("history-load-failed")
		entries = nil
	}
	return NewTracker(capacity, entries, intn)
}

// Close saves the tracker back to store.
func Close(store Store, t *Tracker) error {
	return store.Save(t.Entries())
}
