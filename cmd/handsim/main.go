// Command handsim drives a scripted run of the hand engine against a fake
// host, for local inspection of each hand's board and payouts: a seeded
// deck, a table of calling stations, and however many hands you ask for.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-core/internal/config"
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/engine"
	"github.com/lox/holdem-core/internal/handid"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/host/hosttest"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

var cli struct {
	Hands         int    `help:"Number of hands to simulate." default:"1"`
	Players       int    `help:"Number of seated players." default:"6"`
	Seed          int64  `help:"Deck shuffle seed." default:"1"`
	StartingChips uint64 `help:"Starting stack per player." default:"200"`
	ConfigFile    string `help:"Optional HCL config file." default:""`
}

func main() {
	kong.Parse(&cli)

	logger := log.New(os.Stderr)

	cfg := config.Default()
	if cli.ConfigFile != "" {
		loaded, err := config.Load(cli.ConfigFile)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
		cfg = loaded
	}

	reg := registry.New()
	var players []engine.SyncPlayer
	for i := 0; i < cli.Players; i++ {
		id := types.PlayerID(i + 1)
		players = append(players, engine.SyncPlayer{ID: id, Position: types.Seat(i), Chips: cli.StartingChips})
	}

	sessionID := handid.New()
	logger.Info("starting simulation", "session", sessionID, "players", cli.Players, "hands", cli.Hands, "seed", cli.Seed)

	seeded := deck.NewSeededDeck(cli.Seed)
	fullDeck := make([]deck.Card, seeded.Len())
	for i := range fullDeck {
		fullDeck[i] = seeded.At(i)
	}

	clock := quartz.NewReal()
	fakeHost := hosttest.New(clock, fullDeck)

	h := engine.New(cfg, reg, logger)
	fakeHost.Fire = func(kind host.ScheduleKind, player types.PlayerID) {
		// Timeouts never fire in this scripted run: the bot below always
		// acts before its clock would expire. Left wired so the fake host's
		// callback has somewhere real to dispatch if that ever changes.
		ev := timeoutEvent(kind, player)
		if _, err := h.Apply(ev, fakeHost); err != nil {
			// A stale timer racing the scripted loop is harmless here.
			logger.Debug("timeout apply rejected", "err", err)
		}
	}

	if _, err := h.Apply(engine.Sync(players, 1), fakeHost); err != nil {
		logger.Fatal("sync players", "err", err)
	}

	for n := 0; n < cli.Hands; n++ {
		if err := playHand(h, fakeHost, logger); err != nil {
			logger.Fatal("hand failed", "hand", n, "err", err)
		}
	}
}

func playHand(h *engine.Hand, fakeHost *hosttest.Fake, logger *log.Logger) error {
	if _, err := h.Apply(engine.GameStart(), fakeHost); err != nil {
		return fmt.Errorf("game_start: %w", err)
	}
	if _, err := h.Apply(engine.RandomnessReady(h.DeckRandomID), fakeHost); err != nil {
		return fmt.Errorf("randomness_ready: %w", err)
	}

	for h.ActingPlayer != nil {
		ev := decide(h)
		if _, err := h.Apply(ev, fakeHost); err != nil {
			return fmt.Errorf("action: %w", err)
		}
	}

	logger.Info("hand settled", "hand", h.HandID, "board", h.Board, "prizes", h.PrizeMap)

	if _, err := h.Apply(engine.WaitTimeout(), fakeHost); err != nil {
		return fmt.Errorf("wait_timeout: %w", err)
	}
	return nil
}

// decide implements a calling-station strategy: check when nothing is
// owed, otherwise call.
func decide(h *engine.Hand) engine.Event {
	actor := h.ActingPlayer.ID
	if h.BetMap[actor] == h.StreetBet {
		return engine.Check(actor)
	}
	return engine.Call(actor)
}

func timeoutEvent(kind host.ScheduleKind, player types.PlayerID) engine.Event {
	if kind == host.WaitTimeoutSlot {
		return engine.WaitTimeout()
	}
	return engine.ActionTimeout(player)
}
