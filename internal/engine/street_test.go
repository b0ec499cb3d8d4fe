package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-core/internal/config"
	"github.com/lox/holdem-core/internal/engine"
	"github.com/lox/holdem-core/internal/handid"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

// checkAll drives a full round where every acting player checks, in
// whatever order the engine presents them.
func checkAll(tt *testTable, n int) {
	tt.t.Helper()
	for i := 0; i < n; i++ {
		require.NotNil(tt.t, tt.hand.ActingPlayer, "expected an acting player for check %d", i)
		tt.apply(engine.Check(tt.hand.ActingPlayer.ID))
	}
}

// TestFullHandFiveWayEvenPotSingleWinner runs a whole hand end-to-end
// through the engine rather than the pot/prize packages alone: five players
// each contribute 40 preflop (SB 20 completes, BB 40, three
// callers), check down every remaining street, and the unshuffled deck
// deals PlayerOrder index 4 (id1, the button, acting last) a royal
// flush, so it alone wins the full 200-chip pot.
func TestFullHandFiveWayEvenPotSingleWinner(t *testing.T) {
	cfg := config.Default()
	cfg.SmallBlind = 20
	cfg.BigBlind = 40

	tt := newTestTable(t, cfg, 5, 1000)
	tt.startHand()

	// PlayerOrder is [id2 (SB), id3 (BB), id4, id5, id1 (BTN)] because the
	// first hand's button lands on id1's seat (seat 0) and Arrange starts
	// the rotation at the next seat over. UTG (id4) acts first preflop.
	require.Equal(t, []types.PlayerID{2, 3, 4, 5, 1}, tt.hand.PlayerOrder)
	require.Equal(t, types.PlayerID(4), tt.hand.ActingPlayer.ID)

	tt.apply(engine.Call(4))  // UTG calls 40
	tt.apply(engine.Call(5))  // calls 40
	tt.apply(engine.Call(1))  // BTN calls 40
	tt.apply(engine.Call(2))  // SB completes to 40
	tt.apply(engine.Check(3)) // BB takes its option

	require.Len(t, tt.hand.Pots, 1)
	assert.Equal(t, uint64(200), tt.hand.Pots[0].Amount)
	assert.Len(t, tt.hand.Pots[0].Owners, 5)

	checkAll(tt, 5) // flop
	checkAll(tt, 5) // turn
	checkAll(tt, 5) // river -> showdown

	assert.Nil(t, tt.hand.ActingPlayer)
	require.Len(t, tt.hand.Pots, 1, "no further betting, still one pot")
	assert.Equal(t, []types.PlayerID{1}, tt.hand.Pots[0].Winners, "the button's royal flush must win outright")
	assert.Equal(t, uint64(200), tt.hand.PrizeMap[types.PlayerID(1)])
	assert.Equal(t, []types.PlayerID{1}, tt.hand.Winners)

	// The display log must have recorded the hand as it unfolded: the hand
	// header first, one CollectBets per street with contributions, one
	// DealBoard per street dealt, and the result records at the end.
	require.NotEmpty(t, tt.hand.Display)
	start, ok := tt.hand.Display[0].(engine.HandStartDisplay)
	require.True(t, ok, "display log must open with the hand header")
	require.NoError(t, handid.Validate(start.HandID))
	assert.Equal(t, tt.hand.HandID, start.HandID)
	assert.Equal(t, tt.hand.PlayerOrder, start.Order)

	var collects, deals, results int
	for _, rec := range tt.hand.Display {
		switch rec := rec.(type) {
		case engine.CollectBetsDisplay:
			collects++
		case engine.DealBoardDisplay:
			deals++
		case engine.GameResultDisplay:
			results++
			assert.Equal(t, tt.hand.HandID, rec.HandID, "the result record must carry the hand's id")
		}
	}
	assert.Equal(t, 1, collects, "only preflop moved chips")
	assert.Equal(t, 3, deals, "flop, turn, river")
	assert.Equal(t, 1, results)

	p, ok := tt.reg.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(1000-40+200), p.Chips)
}

// TestCheckThenBetReopensAction: a post-flop Check followed by a later
// opponent's Bet in the same street must reopen action to the checker
// rather than letting the street close prematurely.
func TestCheckThenBetReopensAction(t *testing.T) {
	cfg := config.Default()
	tt := newTestTable(t, cfg, 5, 1000)
	tt.startHand()

	// Close preflop uneventfully (everyone calls/checks the big blind).
	require.Equal(t, types.PlayerID(4), tt.hand.ActingPlayer.ID)
	tt.apply(engine.Call(4))
	tt.apply(engine.Call(5))
	tt.apply(engine.Call(1))
	tt.apply(engine.Call(2))
	tt.apply(engine.Check(3))

	// Flop: id2 checks first, then id3 bets, id4 calls, id5 folds, id1 calls.
	require.Equal(t, types.PlayerID(2), tt.hand.ActingPlayer.ID)
	tt.apply(engine.Check(2))
	tt.apply(engine.Bet(3, 40))
	tt.apply(engine.Call(4))
	tt.apply(engine.Fold(5))
	tt.apply(engine.Call(1))

	// id2 already acted this street but has not matched the new bet: action
	// must reopen to id2, not close the street.
	require.NotNil(t, tt.hand.ActingPlayer, "street must not close while id2 still owes an action")
	assert.Equal(t, types.PlayerID(2), tt.hand.ActingPlayer.ID)

	tt.apply(engine.Call(2))
	assert.Equal(t, engine.StreetTurn, tt.hand.Street, "street closes only after id2 matches the bet")
}

// TestShortAllInRaiseDoesNotReopenPriorCallers exercises the all-in
// re-open rule: a short (sub-minimum) all-in raise does not grant a
// new Raise right to a player who already acted and matched the prior bet,
// even though it still forces them to act again (call or fold).
func TestShortAllInRaiseDoesNotReopenPriorCallers(t *testing.T) {
	cfg := config.Default()
	cfg.SmallBlind = 5
	cfg.BigBlind = 10
	tt := newTestTable(t, cfg, 4, 10000)

	// id1 is the button and acts last preflop; give it just enough to raise
	// short of a full raise (min_raise is 10, so a raise-to of 15 is a
	// 5-chip increment: short of the minimum, but still the whole stack).
	tt.reg.SubChips(1, 10000-15)

	tt.startHand()

	// PlayerOrder is [id2 (SB), id3 (BB), id4, id1 (BTN)]; UTG (id4) acts
	// first preflop.
	require.Equal(t, []types.PlayerID{2, 3, 4, 1}, tt.hand.PlayerOrder)
	require.Equal(t, types.PlayerID(4), tt.hand.ActingPlayer.ID)

	tt.apply(engine.Call(4))      // id4 matches the big blind, acted this street
	tt.apply(engine.Raise(1, 15)) // id1 (BTN) shoves all-in for its whole 15-chip stack

	status, _ := tt.reg.Get(1)
	assert.Equal(t, registry.StatusAllin, status.Status)

	// id2 (SB) and id3 (BB) have not acted yet this street at all, so the
	// short all-in does not restrict them: they retain a full Raise right.
	require.Equal(t, types.PlayerID(2), tt.hand.ActingPlayer.ID)
	tt.apply(engine.Call(2))
	require.Equal(t, types.PlayerID(3), tt.hand.ActingPlayer.ID)
	tt.apply(engine.Call(3))

	// id4 already called the original big blind and must act again (it owes
	// the extra 5 to match the all-in), but the short raise did not reopen
	// a Raise right for it.
	require.Equal(t, types.PlayerID(4), tt.hand.ActingPlayer.ID)
	err := tt.applyErr(engine.Raise(4, 20))
	kind, ok := engine.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, engine.InvalidAction, kind)

	tt.apply(engine.Call(4)) // id4 may still call the short all-in
	assert.Equal(t, engine.StreetFlop, tt.hand.Street, "street closes once id4 matches the all-in")
}

// TestButtonAdvancesBetweenHands verifies the Settle -> Init transition: the
// wait timeout rotates the button to the next eligible seat before the next
// deal, and the acting order rotates with it.
func TestButtonAdvancesBetweenHands(t *testing.T) {
	tt := newTestTable(t, config.Default(), 3, 1000)
	tt.startHand()
	require.Equal(t, types.Seat(0), tt.hand.Button)
	require.Equal(t, []types.PlayerID{2, 3, 1}, tt.hand.PlayerOrder)

	// Fold the hand out quickly: UTG (id1) folds, SB (id2) folds, the big
	// blind wins unopposed and the hand settles.
	tt.apply(engine.Fold(1))
	tt.apply(engine.Fold(2))
	require.Equal(t, engine.StageSettle, tt.hand.Stage)

	firstHandID := tt.hand.HandID
	tt.apply(engine.WaitTimeout())
	tt.startHand()

	assert.Equal(t, types.Seat(1), tt.hand.Button)
	assert.Equal(t, []types.PlayerID{3, 1, 2}, tt.hand.PlayerOrder)
	assert.NotEqual(t, firstHandID, tt.hand.HandID, "each deal must mint a fresh hand id")
	assert.NoError(t, handid.Validate(tt.hand.HandID))
}

// TestFoldedOutHandRefundsUncalledBlind verifies the uncalled-bet return: if
// everyone folds to the big blind, only the callable portion of its blind is
// contested, and the excess comes straight back.
func TestFoldedOutHandRefundsUncalledBlind(t *testing.T) {
	cfg := config.Default()
	cfg.SmallBlind = 5
	cfg.BigBlind = 10
	tt := newTestTable(t, cfg, 3, 1000)
	tt.startHand()

	tt.apply(engine.Fold(1))
	tt.apply(engine.Fold(2))

	// The big blind (id3) wins the small blind's 5 plus its own matched 5;
	// the uncalled 5 of its 10-chip blind is refunded, netting +5.
	bb, ok := tt.reg.Get(3)
	require.True(t, ok)
	assert.Equal(t, uint64(1005), bb.Chips)
	assert.Equal(t, uint64(3000), tt.totalChipsInPlay())
}

// TestMidHandJoinAdmittedOnlyAtNextPreflop: a player who syncs in while a
// hand is live is registered immediately but
// excluded from the current hand, and only joins PlayerOrder at the next
// Init -> Preflop transition.
func TestMidHandJoinAdmittedOnlyAtNextPreflop(t *testing.T) {
	cfg := config.Default()
	tt := newTestTable(t, cfg, 4, 1000)
	tt.startHand()

	// Close preflop so the hand is live on the flop. PlayerOrder is
	// [id2 (SB), id3 (BB), id4, id1 (BTN)]; UTG (id4) acts first.
	require.Equal(t, []types.PlayerID{2, 3, 4, 1}, tt.hand.PlayerOrder)
	require.Equal(t, types.PlayerID(4), tt.hand.ActingPlayer.ID)
	tt.apply(engine.Call(4))
	tt.apply(engine.Call(1))
	tt.apply(engine.Call(2))
	tt.apply(engine.Check(3))
	require.Equal(t, engine.StreetFlop, tt.hand.Street)

	frank := types.PlayerID(5)
	tt.apply(engine.Sync([]engine.SyncPlayer{{ID: frank, Position: 4, Chips: 1000}}, 2))

	p, ok := tt.reg.Get(frank)
	require.True(t, ok)
	assert.Equal(t, registry.StatusInit, p.Status)
	assert.NotContains(t, tt.hand.PlayerOrder, frank)
	_, inHandIndexMap := tt.hand.HandIndexMap[frank]
	assert.False(t, inHandIndexMap)

	checkAll(tt, 4) // flop
	checkAll(tt, 4) // turn
	checkAll(tt, 4) // river -> showdown

	tt.apply(engine.WaitTimeout())
	tt.startHand()

	assert.Contains(t, tt.hand.PlayerOrder, frank, "Frank must be admitted at the next Init -> Preflop")
}
