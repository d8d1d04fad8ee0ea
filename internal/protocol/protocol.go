// Package protocol drives a strategy through a line based text protocol on
// an input and output stream.
//
// Commands:
//
//	newgame [size]            empty board, X to move, caches dropped
//	board <rows>              set the position, rows separated by '/'
//	player X|O                set the side to move
//	play <sr> <sc> <tr> <tc>  apply a legal move for the side to move
//	setoption <key> <value>   change a configuration key
//	go                        search; answers "info ..." lines and "bestmove"
//	stop                      end the running search early
//	moves                     list the legal moves
//	perft <depth>             count the game tree
//	d                         print the position
//	isready                   answers "readyok"
//	quit                      stop and exit
package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/slideplay/internal/board"
	"github.com/hailam/slideplay/internal/config"
	"github.com/hailam/slideplay/internal/engine"
	"github.com/hailam/slideplay/internal/strategy"
)

// Protocol is one session over in and out.
type Protocol struct {
	name    string
	opts    strategy.Options
	cfg     config.Config
	decider strategy.Decider

	board  *board.Board
	player board.Cell

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // guards out

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a session for the strategy spec ("name" or
// "name:key=value,..."). Spec parameters are configuration keys and are
// folded into opts.Config, so setoption can change them later.
func New(spec string, opts strategy.Options, in io.Reader, out io.Writer) (*Protocol, error) {
	name, params, _ := strings.Cut(spec, ":")
	cfg := opts.Config.Clone()
	if err := cfg.ApplyParams(config.ParseParams(params)); err != nil {
		return nil, errors.WithMessagef(err, "strategy %q", name)
	}

	p := &Protocol{
		name:   strings.TrimSpace(name),
		opts:   opts,
		cfg:    cfg,
		board:  board.New(3),
		player: board.First,
		in:     in,
		out:    out,
	}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// rebuild creates a fresh decider from the current configuration.
func (p *Protocol) rebuild() error {
	opts := p.opts
	opts.Config = p.cfg
	opts.OnInfo = p.sendInfo
	d, err := strategy.New(p.name, opts)
	if err != nil {
		return err
	}
	p.decider = d
	return nil
}

func (p *Protocol) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// Run reads commands until quit or end of input. A running search is
// waited for before Run returns.
func (p *Protocol) Run() error {
	scanner := bufio.NewScanner(p.in)
	defer p.waitSearch()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		if cmd != "stop" && cmd != "quit" && cmd != "isready" {
			p.waitSearch()
		}

		switch cmd {
		case "isready":
			p.printf("readyok\n")
		case "newgame":
			p.handleNewGame(args)
		case "board":
			p.handleBoard(args)
		case "player":
			p.handlePlayer(args)
		case "play":
			p.handlePlay(args)
		case "setoption":
			p.handleSetOption(args)
		case "go":
			p.handleGo()
		case "stop":
			p.handleStop()
		case "moves":
			p.handleMoves()
		case "perft":
			p.handlePerft(args)
		case "d":
			p.printf("%splayer %v\nrules %s\n", p.board, p.player, p.cfg.Rules)
		case "quit":
			p.handleStop()
			return nil
		default:
			p.printf("info string unknown command %s\n", cmd)
		}
	}
	return errors.Wrap(scanner.Err(), "reading commands")
}

func (p *Protocol) handleNewGame(args []string) {
	size := p.board.Size()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < board.MinSize || n > board.MaxSize {
			p.printf("info string invalid size %s\n", args[0])
			return
		}
		size = n
	}
	p.board = board.New(size)
	p.player = board.First
	if err := p.rebuild(); err != nil {
		p.printf("info string %v\n", err)
	}
}

func (p *Protocol) handleBoard(args []string) {
	b, err := board.Parse(strings.Join(args, "/"))
	if err != nil {
		p.printf("info string invalid board: %v\n", err)
		return
	}
	p.board = b
}

func (p *Protocol) handlePlayer(args []string) {
	if len(args) != 1 {
		p.printf("info string usage: player X|O\n")
		return
	}
	sym, err := board.ParseSymbol(args[0])
	if err != nil {
		p.printf("info string %v\n", err)
		return
	}
	p.player = sym
}

func (p *Protocol) rules() board.Rules {
	rules, _ := board.ParseRules(p.cfg.Rules)
	return rules
}

func (p *Protocol) handlePlay(args []string) {
	m, err := board.ParseMove(strings.Join(args, " "))
	if err != nil {
		p.printf("info string %v\n", err)
		return
	}
	if err := p.rules().Legal(p.board, m, p.player); err != nil {
		p.printf("info string %v\n", err)
		return
	}
	p.board.Apply(m, p.player)
	if w := p.board.Winner(p.player); w != board.Empty {
		p.printf("info string winner %v\n", w)
	}
	p.player = p.player.Opponent()
}

// handleSetOption accepts "setoption <key> <value>" and the
// "setoption name <key> value <value>" form.
func (p *Protocol) handleSetOption(args []string) {
	if len(args) >= 2 && args[0] == "name" {
		args = lo.Filter(args[1:], func(a string, _ int) bool { return a != "value" })
	}
	if len(args) == 0 {
		p.printf("info string usage: setoption <key> <value>\n")
		return
	}
	key, value := args[0], strings.Join(args[1:], " ")

	next := p.cfg.Clone()
	if err := next.Set(key, value); err != nil {
		p.printf("info string %v\n", err)
		return
	}
	prev := p.cfg
	p.cfg = next
	if err := p.rebuild(); err != nil {
		p.cfg = prev
		p.printf("info string %v\n", err)
		return
	}
	log.Debug().Str("key", key).Str("value", value).Msg("option-set")
}

func (p *Protocol) handleGo() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.searchDone = done

	b := p.board.Copy()
	sym := p.player
	d := p.decider
	rules := p.rules()

	go func() {
		defer close(done)
		defer cancel()

		m := d.Decide(ctx, b, sym)
		if m.IsNoMove() {
			p.printf("bestmove none\n")
			return
		}
		if err := rules.Legal(b, m, sym); err != nil {
			log.Error().Err(err).Str("move", m.String()).Msg("illegal-bestmove")
		}
		p.printf("bestmove %s\n", m)
	}()
}

func (p *Protocol) handleStop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.waitSearch()
}

func (p *Protocol) waitSearch() {
	if p.searchDone != nil {
		<-p.searchDone
		p.searchDone = nil
		p.cancel = nil
	}
}

func (p *Protocol) sendInfo(info engine.SearchInfo) {
	p.printf("info depth %d score %g nodes %d time %d move %s\n",
		info.Depth, info.Score, info.Nodes, info.Time.Milliseconds(), info.Move)
}

func (p *Protocol) handleMoves() {
	moves := p.rules().Generate(p.board, p.player, nil)
	strs := lo.Map(moves, func(m board.Move, _ int) string {
		t := m.Tuple()
		return fmt.Sprintf("%d,%d,%d,%d", t[0], t[1], t[2], t[3])
	})
	p.printf("moves %s\n", strings.Join(strs, " "))
}

func (p *Protocol) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			p.printf("info string invalid depth %s\n", args[0])
			return
		}
		depth = d
	}
	nodes := engine.Perft(p.board.Copy(), p.rules(), p.player, depth)
	p.printf("perft %d %d\n", depth, nodes)
}
