package engine_test

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-core/internal/config"
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/engine"
	"github.com/lox/holdem-core/internal/host/hosttest"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

// testTable bundles everything a scenario test needs: the engine, its fake
// host, the registry, and the seats it was built with.
type testTable struct {
	t    *testing.T
	hand *engine.Hand
	host *hosttest.Fake
	reg  *registry.Registry
}

// newTestTable seats numPlayers players (IDs 1..numPlayers at positions
// 0..numPlayers-1, each with chips), syncs them in, and hands back a table
// ready for GameStart. It uses the unshuffled 52-card sequence
// (deck.Standard52) rather than a seeded shuffle, so tests can compute
// exactly which hole/board cards land where.
func newTestTable(t *testing.T, cfg config.Config, numPlayers int, chips uint64) *testTable {
	t.Helper()

	reg := registry.New()
	h := engine.New(cfg, reg, log.New(io.Discard))
	fakeHost := hosttest.New(quartz.NewMock(t), deck.Standard52())

	var players []engine.SyncPlayer
	for i := 0; i < numPlayers; i++ {
		id := types.PlayerID(i + 1)
		players = append(players, engine.SyncPlayer{ID: id, Position: types.Seat(i), Chips: chips})
	}
	_, err := h.Apply(engine.Sync(players, 1), fakeHost)
	require.NoError(t, err)

	return &testTable{t: t, hand: h, host: fakeHost, reg: reg}
}

// startHand drives Init -> Preflop: GameStart followed by the matching
// RandomnessReady, per the two-phase dance street.go documents.
func (tt *testTable) startHand() {
	tt.t.Helper()
	_, err := tt.hand.Apply(engine.GameStart(), tt.host)
	require.NoError(tt.t, err)
	_, err = tt.hand.Apply(engine.RandomnessReady(tt.hand.DeckRandomID), tt.host)
	require.NoError(tt.t, err)
}

// apply applies ev and requires it to succeed.
func (tt *testTable) apply(ev engine.Event) engine.Outbox {
	tt.t.Helper()
	out, err := tt.hand.Apply(ev, tt.host)
	require.NoError(tt.t, err)
	return out
}

// applyErr applies ev and requires it to fail, returning the error.
func (tt *testTable) applyErr(ev engine.Event) error {
	tt.t.Helper()
	_, err := tt.hand.Apply(ev, tt.host)
	require.Error(tt.t, err)
	return err
}

// totalChipsInPlay sums every seated player's chips plus every pot plus the
// current street's bet map, for conservation assertions. Once the hand has
// settled the pots are already paid into the winners' stacks, so they are
// not counted again.
func (tt *testTable) totalChipsInPlay() uint64 {
	var total uint64
	for _, p := range tt.reg.Players() {
		total += p.Chips
	}
	if tt.hand.Stage != engine.StageSettle {
		for _, p := range tt.hand.Pots {
			total += p.Amount
		}
	}
	for _, amt := range tt.hand.BetMap {
		total += amt
	}
	return total
}

func statusOf(t *testing.T, reg *registry.Registry, id types.PlayerID) registry.Status {
	t.Helper()
	p, ok := reg.Get(id)
	require.True(t, ok, "player %d must still be registered", id)
	return p.Status
}
