package engine

import (
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/types"
)

// Kind identifies an inbound event. Events are a closed tagged variant, not
// an interface with many implementations: the full set of things a host can
// deliver is known here, and a switch over Kind is exhaustive.
type Kind int

const (
	KindSync Kind = iota
	KindLeave
	KindActionTimeout
	KindWaitTimeout
	KindGameStart
	KindRandomnessReady
	KindFold
	KindCheck
	KindCall
	KindBet
	KindRaise
)

// String renders the kind for logging.
func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindLeave:
		return "leave"
	case KindActionTimeout:
		return "action_timeout"
	case KindWaitTimeout:
		return "wait_timeout"
	case KindGameStart:
		return "game_start"
	case KindRandomnessReady:
		return "randomness_ready"
	case KindFold:
		return "fold"
	case KindCheck:
		return "check"
	case KindCall:
		return "call"
	case KindBet:
		return "bet"
	case KindRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// SyncPlayer is one entry of a Sync event's player list.
type SyncPlayer struct {
	ID       types.PlayerID
	Position types.Seat
	Chips    uint64
}

// Event is the single inbound event type the engine accepts. Only the
// fields relevant to Kind are populated; callers use the constructors below
// rather than building an Event directly.
type Event struct {
	Kind          Kind
	PlayerID      types.PlayerID
	Amount        uint64
	SyncPlayers   []SyncPlayer
	AccessVersion uint64
	RandomID      host.RandomID
}

// Sync admits/reconciles the host's player list.
func Sync(players []SyncPlayer, accessVersion uint64) Event {
	return Event{Kind: KindSync, SyncPlayers: players, AccessVersion: accessVersion}
}

// Leave requests a voluntary exit for id.
func Leave(id types.PlayerID) Event { return Event{Kind: KindLeave, PlayerID: id} }

// ActionTimeout signals id's action clock expired.
func ActionTimeout(id types.PlayerID) Event { return Event{Kind: KindActionTimeout, PlayerID: id} }

// WaitTimeout signals the inter-hand pause elapsed.
func WaitTimeout() Event { return Event{Kind: KindWaitTimeout} }

// GameStart signals the host is ready to deal a new hand.
func GameStart() Event { return Event{Kind: KindGameStart} }

// RandomnessReady signals the host's randomness commitment for id is ready.
func RandomnessReady(id host.RandomID) Event {
	return Event{Kind: KindRandomnessReady, RandomID: id}
}

// Fold is a player action: the acting player forfeits the hand.
func Fold(actor types.PlayerID) Event { return Event{Kind: KindFold, PlayerID: actor} }

// Check is a player action: pass with no chips moved.
func Check(actor types.PlayerID) Event { return Event{Kind: KindCheck, PlayerID: actor} }

// Call is a player action: match the current street bet (or go all-in).
func Call(actor types.PlayerID) Event { return Event{Kind: KindCall, PlayerID: actor} }

// Bet is a player action: open the street for amount.
func Bet(actor types.PlayerID, amount uint64) Event {
	return Event{Kind: KindBet, PlayerID: actor, Amount: amount}
}

// Raise is a player action: increase the street bet to amount.
func Raise(actor types.PlayerID, amount uint64) Event {
	return Event{Kind: KindRaise, PlayerID: actor, Amount: amount}
}
