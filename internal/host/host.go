// Package host declares the boundary between the engine and the enclosing
// game protocol runtime. internal/engine never imports a concrete
// implementation of Host: it only ever holds this interface, and these
// five calls are the only I/O the engine performs.
package host

import (
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/types"
)

// RandomID is the opaque handle the host hands back for a randomness
// session. The engine never interprets it, only threads it through
// subsequent calls for the same hand.
type RandomID uint64

// ScheduleKind names the two logical dispatch slots: at most one of each
// may be armed per hand, and arming a new one overrides
// whichever was previously armed for that slot (last-writer-wins, owned by
// the host, not the engine).
type ScheduleKind int

const (
	// ActionTimeoutSlot arms a per-seat action clock; Player names who it
	// fires for.
	ActionTimeoutSlot ScheduleKind = iota
	// WaitTimeoutSlot arms the inter-hand pause between Settle and the next
	// Init -> Preflop transition. Player is unused for this slot.
	WaitTimeoutSlot
)

// String renders the slot for logging.
func (k ScheduleKind) String() string {
	switch k {
	case ActionTimeoutSlot:
		return "action_timeout"
	case WaitTimeoutSlot:
		return "wait_timeout"
	default:
		return "unknown"
	}
}

// Host is the complete set of calls the engine ever makes outward:
// scheduling, randomness setup (InitRandomness/AssignCard), card reveals,
// and settlement.
//
// InitRandomness and RevealCards return values synchronously: the
// guest/host boundary is a direct function call, not a queued message. The
// asynchronous confirmation the inbound RandomnessReady event represents is
// still modeled as a separate event the caller routes
// back into Hand.Apply once the host's commitment is actually durable;
// InitRandomness's return value is never used to proceed with dealing until
// that event arrives (see internal/engine/street.go).
type Host interface {
	// InitRandomness asks the host to commit to a fresh shuffled sequence of
	// size cards for this hand.
	InitRandomness(size int) RandomID

	// AssignCard tells the host that index belongs privately to player to.
	// The host reveals it only to that player until a later RevealCards call
	// discloses it publicly (e.g. at showdown).
	AssignCard(id RandomID, index int, to types.PlayerID)

	// RevealCards discloses the cards at indices (community cards, or
	// hole cards at showdown/runner) and returns their values in the same
	// order, so the engine can run the oracle immediately.
	RevealCards(id RandomID, indices []int) []deck.Card

	// Schedule arms a dispatch for kind, overriding whatever was previously
	// armed for that slot. player is the seat the ActionTimeoutSlot targets;
	// ignored for WaitTimeoutSlot.
	Schedule(kind ScheduleKind, player types.PlayerID, millis uint64)

	// Settle hands the host the authoritative per-player chip deltas for the
	// hand just completed, plus the players ejected at this boundary.
	Settle(deltas map[types.PlayerID]int64, ejected []types.PlayerID)
}
