package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/slideplay/internal/config"
	"github.com/hailam/slideplay/internal/history"
)

// Storage keys
const (
	keyHistory       = "move_history"
	keyStats         = "stats"
	keyConfigPrefix  = "config/"
	defaultProfileID = "default"
)

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", dir)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether the key existed.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return found, errors.Wrapf(err, "reading %s", key)
	}
	return found, nil
}

// HistoryStore returns a history.Store backed by this database.
func (s *Storage) HistoryStore() history.Store {
	return historyStore{s}
}

type historyStore struct {
	s *Storage
}

// Load returns the stored history. A corrupt value loads as empty.
func (h historyStore) Load() ([]history.Entry, error) {
	var entries []history.Entry
	if _, err := h.s.get(keyHistory, &entries); err != nil {
		log.Warn().Err(err).Msg("history-corrupt")
		return nil, nil
	}
	return entries, nil
}

func (h historyStore) Save(entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	return h.s.put(keyHistory, entries)
}

// SaveConfig stores cfg under a profile name; an empty name is "default".
func (s *Storage) SaveConfig(name string, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.put(keyConfigPrefix+profileID(name), cfg)
}

// LoadConfig reads a saved profile. found is false when no profile of that
// name exists, in which case the defaults are returned.
func (s *Storage) LoadConfig(name string) (cfg config.Config, found bool, err error) {
	cfg = config.Default()
	found, err = s.get(keyConfigPrefix+profileID(name), &cfg)
	if err != nil {
		return config.Default(), false, err
	}
	if found {
		if err := cfg.Validate(); err != nil {
			return config.Default(), false, errors.WithMessagef(err, "profile %q", profileID(name))
		}
	}
	return cfg, found, nil
}

// Profiles lists the saved configuration profiles.
func (s *Storage) Profiles() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyConfigPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyConfigPrefix))
		}
		return nil
	})
	return names, err
}

func profileID(name string) string {
	if name == "" {
		return defaultProfileID
	}
	return name
}

// DecisionStats accumulates counters over all decisions.
type DecisionStats struct {
	Decisions       int           `json:"decisions"`
	Timeouts        int           `json:"timeouts"`
	NoMoves         int           `json:"no_moves"`
	RepeatOverrides int           `json:"repeat_overrides"`
	RandomFallbacks int           `json:"random_fallbacks"`
	DeepestDepth    int           `json:"deepest_depth"`
	TotalDepth      int           `json:"total_depth"`
	TotalNodes      uint64        `json:"total_nodes"`
	TotalTime       time.Duration `json:"total_time"`
	LastDecision    time.Time     `json:"last_decision"`
}

// DecisionResult describes one finished decision.
type DecisionResult struct {
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
	TimedOut bool
	NoMove   bool
	Outcome  history.Outcome
}

// AverageDepth returns the mean completed depth per decision.
func (s *DecisionStats) AverageDepth() float64 {
	if s.Decisions == 0 {
		return 0
	}
	return float64(s.TotalDepth) / float64(s.Decisions)
}

// LoadStats loads decision statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*DecisionStats, error) {
	stats := &DecisionStats{}
	if _, err := s.get(keyStats, stats); err != nil {
		return &DecisionStats{}, err
	}
	return stats, nil
}

// SaveStats saves decision statistics
func (s *Storage) SaveStats(stats *DecisionStats) error {
	return s.put(keyStats, stats)
}

// RecordDecision folds one decision into the stored statistics.
func (s *Storage) RecordDecision(result DecisionResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Decisions++
	stats.TotalDepth += result.Depth
	stats.TotalNodes += result.Nodes
	stats.TotalTime += result.Elapsed
	stats.LastDecision = time.Now()
	stats.DeepestDepth = max(stats.DeepestDepth, result.Depth)
	if result.TimedOut {
		stats.Timeouts++
	}
	if result.NoMove {
		stats.NoMoves++
	}
	switch result.Outcome {
	case history.Replaced:
		stats.RepeatOverrides++
	case history.Saturated:
		stats.RandomFallbacks++
	}

	return s.SaveStats(stats)
}

// badgerLogger routes badger's own messages to zerolog. Info and debug
// output is demoted to trace level.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logf(zerolog.ErrorLevel, format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logf(zerolog.WarnLevel, format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logf(zerolog.TraceLevel, format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logf(zerolog.TraceLevel, format, args...)
}

func logf(level zerolog.Level, format string, args ...interface{}) {
	log.WithLevel(level).Str("component", "badger").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
