// Command slideplay plays the sliding line game, either answering a single
// position given on the command line or driving a text protocol on stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
	"github.com/hailam/slideplay/internal/history"
	"github.com/hailam/slideplay/internal/protocol"
	"github.com/hailam/slideplay/internal/storage"
	"github.com/hailam/slideplay/internal/strategy"
)

var (
	flagStrategy    = flag.String("strategy", "search", "strategy spec, e.g. \"search:max_depth=5\"; one of search, greedy, random")
	flagConfig      = flag.String("config", "", "JSON configuration file")
	flagParams      = flag.String("params", "", "configuration overrides as key=value,key=value")
	flagProfile     = flag.String("profile", "", "load a configuration profile saved in the database")
	flagSaveProfile = flag.String("save-profile", "", "save the resulting configuration as a profile and exit")
	flagHistory     = flag.String("history", history.DefaultFile, "move history file for the file backend")
	flagBackend     = flag.String("history-backend", "file", "move history backend: file, badger or none")
	flagDB          = flag.String("db", "", "database directory (default: platform data dir)")
	flagStats       = flag.Bool("stats", false, "print decision statistics and exit")
	flagBoard       = flag.String("board", "", "decide once for this board (rows separated by '/') and exit")
	flagPlayer      = flag.String("player", "X", "side to move for -board")
	flagLogLevel    = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	cpuprofile      = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*flagLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("slideplay-failed")
	}
}

func run() error {
	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return errors.Wrap(err, "could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profiling")
	}

	var db *storage.Storage
	if *flagBackend == "badger" || *flagProfile != "" || *flagSaveProfile != "" || *flagStats {
		var err error
		if *flagDB != "" {
			db, err = storage.Open(*flagDB)
		} else {
			db, err = storage.NewStorage()
		}
		if err != nil {
			return err
		}
		defer db.Close()
	}

	cfg, err := loadConfig(db)
	if err != nil {
		return err
	}

	switch {
	case *flagSaveProfile != "":
		if err := db.SaveConfig(*flagSaveProfile, cfg); err != nil {
			return err
		}
		log.Info().Str("profile", *flagSaveProfile).Msg("profile-saved")
		return nil
	case *flagStats:
		return printStats(db)
	}

	opts := strategy.Options{Config: cfg}
	switch *flagBackend {
	case "file":
		opts.History = history.NewFileStore(*flagHistory)
	case "badger":
		opts.History = db.HistoryStore()
	case "none":
	default:
		return errors.Errorf("unknown history backend %q", *flagBackend)
	}
	if db != nil {
		opts.Stats = db
	}

	if *flagBoard != "" {
		return decideOnce(opts)
	}

	p, err := protocol.New(*flagStrategy, opts, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	return p.Run()
}

// loadConfig starts from the defaults or a saved profile. A JSON file
// replaces that base and -params apply last.
func loadConfig(db *storage.Storage) (config.Config, error) {
	cfg := config.Default()
	if *flagProfile != "" {
		profile, found, err := db.LoadConfig(*flagProfile)
		if err != nil {
			return cfg, err
		}
		if !found {
			return cfg, errors.Errorf("no saved profile %q", *flagProfile)
		}
		cfg = profile
	}
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyParams(config.ParseParams(*flagParams)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decideOnce(opts strategy.Options) error {
	b, err := board.Parse(*flagBoard)
	if err != nil {
		return err
	}
	sym, err := board.ParseSymbol(*flagPlayer)
	if err != nil {
		return err
	}
	d, err := strategy.New(*flagStrategy, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := d.Decide(ctx, b, sym)
	if m.IsNoMove() {
		fmt.Println("none")
		return nil
	}
	fmt.Println(m)
	return nil
}

func printStats(db *storage.Storage) error {
	stats, err := db.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("decisions        %d\n", stats.Decisions)
	fmt.Printf("timeouts         %d\n", stats.Timeouts)
	fmt.Printf("no moves         %d\n", stats.NoMoves)
	fmt.Printf("repeat overrides %d\n", stats.RepeatOverrides)
	fmt.Printf("random fallbacks %d\n", stats.RandomFallbacks)
	fmt.Printf("deepest depth    %d\n", stats.DeepestDepth)
	fmt.Printf("average depth    %.2f\n", stats.AverageDepth())
	fmt.Printf("total nodes      %d\n", stats.TotalNodes)
	fmt.Printf("total time       %v\n", stats.TotalTime)
	return nil
}
