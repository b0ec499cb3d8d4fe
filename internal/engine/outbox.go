package engine

import (
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/types"
)

// Effect is one entry of the outbox every state-mutating Hand method
// returns. The engine calls host.Host directly and synchronously; Outbox is
// the parallel, inspectable record of what was called, for deterministic
// tests and for the host-facing display log, not a deferred work queue.
// There is no hidden side-effect collector threaded through the call tree.
type Effect interface {
	effect()
}

// InitRandomnessEffect records a host.InitRandomness call.
type InitRandomnessEffect struct {
	Size     int
	RandomID host.RandomID
}

func (InitRandomnessEffect) effect() {}

// AssignCardEffect records a host.AssignCard call.
type AssignCardEffect struct {
	RandomID host.RandomID
	Index    int
	To       types.PlayerID
}

func (AssignCardEffect) effect() {}

// RevealEffect records a host.RevealCards call.
type RevealEffect struct {
	RandomID host.RandomID
	Indices  []int
	Cards    []deck.Card
}

func (RevealEffect) effect() {}

// DispatchEffect records a host.Schedule call.
type DispatchEffect struct {
	Kind   host.ScheduleKind
	Player types.PlayerID
	Millis uint64
}

func (DispatchEffect) effect() {}

// SettleEffect records a host.Settle call.
type SettleEffect struct {
	Deltas  map[types.PlayerID]int64
	Ejected []types.PlayerID
}

func (SettleEffect) effect() {}

// DisplayEffect wraps an append-only display record. It is itself an Effect
// so that display entries and the host calls that produced them stay in one
// totally-ordered log.
type DisplayEffect struct {
	Record DisplayRecord
}

func (DisplayEffect) effect() {}

// Outbox is the ordered effect log produced by one call to Hand.Apply.
type Outbox []Effect

// DisplayRecord is one of the renderable display variants a hand appends as
// it plays out.
type DisplayRecord interface {
	displayRecord()
}

// HandStartDisplay opens a hand's display log: the hand's identifier, the
// button seat, and the acting order it was dealt with.
type HandStartDisplay struct {
	HandID string
	Button types.Seat
	Order  []types.PlayerID
}

func (HandStartDisplay) displayRecord() {}

// CollectBetsDisplay records a street's bets being folded into the pots.
type CollectBetsDisplay struct {
	OldPots []pot.Pot
	BetMap  map[types.PlayerID]uint64
}

func (CollectBetsDisplay) displayRecord() {}

// DealBoardDisplay records community cards landing on the board; Prev is
// how many were already dealt before this batch.
type DealBoardDisplay struct {
	Prev  int
	Board []deck.Card
}

func (DealBoardDisplay) displayRecord() {}

// GameResultDisplay records the final per-player payouts for the hand.
type GameResultDisplay struct {
	HandID   string
	PrizeMap map[types.PlayerID]uint64
}

func (GameResultDisplay) displayRecord() {}

// AwardPotsDisplay records each pot alongside the winners it was actually
// awarded to.
type AwardPotsDisplay struct {
	Pots []pot.Pot
}

func (AwardPotsDisplay) displayRecord() {}
