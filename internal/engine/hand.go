// Package engine drives a hand of Texas Hold'em: the street state machine,
// the action handler, and the all-in runner together own the Hand root
// aggregate. Every inbound event goes through Hand.Apply, which mutates the
// hand and returns an Outbox of host calls and display records; the engine
// performs no I/O of its own beyond the injected host.Host.
package engine

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-core/internal/config"
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

// Street is the current betting round.
type Street int

const (
	StreetInit Street = iota
	StreetPreflop
	StreetFlop
	StreetTurn
	StreetRiver
	StreetShowdown
)

func (s Street) String() string {
	switch s {
	case StreetInit:
		return "init"
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	case StreetShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Stage is the hand's coarse phase.
type Stage int

const (
	StageInit Stage = iota
	StagePlay
	StageRunner
	StageSettle
	StageShowdown
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StagePlay:
		return "play"
	case StageRunner:
		return "runner"
	case StageSettle:
		return "settle"
	case StageShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// ActingPlayer names whose turn it is and how long their clock runs.
type ActingPlayer struct {
	ID           types.PlayerID
	Position     types.Seat
	TimeoutCount int
	TimeoutMs    uint64
}

// noButton is the sentinel meaning "the button has never been set": the
// very first hand picks a button rather than advancing one.
const noButton types.Seat = -1

// Hand is the root aggregate state for one table. Every mutation is invoked
// through Apply and returns an Outbox alongside any error, so identical
// event sequences over identical reveal tables produce identical state and
// identical outgoing calls.
type Hand struct {
	Config   config.Config
	Registry *registry.Registry
	Logger   *log.Logger

	Button    types.Seat
	Street    Street
	Stage     Stage
	MinRaise  uint64
	StreetBet uint64

	PlayerOrder  []types.PlayerID
	BetMap       map[types.PlayerID]uint64
	Pots         []pot.Pot
	PrizeMap     map[types.PlayerID]uint64
	Board        []deck.Card
	HandIndexMap map[types.PlayerID][2]int
	DeckRandomID host.RandomID
	ActingPlayer *ActingPlayer
	Winners      []types.PlayerID
	Display      []DisplayRecord

	// HandID names the hand currently being dealt in logs and display
	// records. It is derived from the randomness-session handle and a
	// per-table sequence number, so replaying the same events mints the
	// same ID.
	HandID string

	// actedThisStreet and noRaise are betting-round bookkeeping: applyAction
	// and closeStreet derive "owes an action" and the all-in re-open rule
	// from them on every scan, rather than from a mutable everyone-has-acted
	// counter that goes stale when a bet lands after a check.
	actedThisStreet map[types.PlayerID]bool
	noRaise         map[types.PlayerID]bool

	// folded and allin are this hand's authoritative membership tracking.
	// registry.Status is also set to Fold/Allin for display purposes, but a
	// timeout-ejected player's registry status is later overwritten to Leave
	// (BumpTimeout), so liveCount cannot rely on registry.Status alone
	// without losing track of who already folded.
	folded map[types.PlayerID]bool
	allin  map[types.PlayerID]bool

	awaitingRandomness bool
	startingChips      map[types.PlayerID]uint64
	handSeq            uint64

	// restoreStatus is the acting player's registry status before armActor
	// flipped it to Acting, so that releasing the turn puts back a mid-hand
	// Leave flag instead of flattening it to Wait.
	restoreStatus registry.Status
}

// New returns a fresh Hand ready to receive a Sync event.
func New(cfg config.Config, reg *registry.Registry, logger *log.Logger) *Hand {
	if logger == nil {
		logger = log.Default()
	}
	return &Hand{
		Config:   cfg,
		Registry: reg,
		Logger:   logger,
		Button:   noButton,
		Stage:    StageInit,
		Street:   StreetInit,
	}
}

// Apply is the engine's single entry point: it routes ev to the right
// handler for the current Stage and Street and returns everything the event
// produced. Rejected events are logged here so every error surfaces exactly
// once, whatever handler raised it.
func (h *Hand) Apply(ev Event, hst host.Host) (Outbox, error) {
	out, err := h.apply(ev, hst)
	if err != nil {
		h.Logger.Error("event rejected", "event", ev.Kind, "err", err)
	}
	return out, err
}

func (h *Hand) apply(ev Event, hst host.Host) (Outbox, error) {
	switch ev.Kind {
	case KindSync:
		return h.handleSync(ev)
	case KindLeave:
		return h.handleLeave(ev)
	case KindGameStart:
		return h.handleGameStart(hst)
	case KindRandomnessReady:
		return h.handleRandomnessReady(ev, hst)
	case KindActionTimeout:
		return h.handleActionTimeout(ev, hst)
	case KindWaitTimeout:
		return h.handleWaitTimeout(hst)
	case KindFold, KindCheck, KindCall, KindBet, KindRaise:
		return h.applyAction(ev, hst)
	default:
		return nil, newErr(InvalidState, "unrecognized event kind %v", ev.Kind)
	}
}

func (h *Hand) handleSync(ev Event) (Outbox, error) {
	for _, sp := range ev.SyncPlayers {
		h.Registry.Add(sp.ID, sp.Position, sp.Chips)
	}
	return nil, nil
}

func (h *Hand) handleLeave(ev Event) (Outbox, error) {
	h.Registry.MarkLeave(ev.PlayerID)
	h.Logger.Debug("player flagged to leave", "player", ev.PlayerID)
	return nil, nil
}

// liveCount returns how many dealt-in players have not folded, and how
// many of those are not yet all-in.
func (h *Hand) liveCount() (live int, liveNotAllin int) {
	for _, id := range h.PlayerOrder {
		if h.folded[id] {
			continue
		}
		live++
		if !h.allin[id] {
			liveNotAllin++
		}
	}
	return live, liveNotAllin
}

// livePlayers returns the dealt-in players who have not folded, in
// PlayerOrder.
func (h *Hand) livePlayers() []types.PlayerID {
	var out []types.PlayerID
	for _, id := range h.PlayerOrder {
		if !h.folded[id] {
			out = append(out, id)
		}
	}
	return out
}

// firstActorPreflop and firstActorPostflop return the PlayerOrder index
// that acts first for the given street, per standard heads-up/multi-way
// position rules: preflop, UTG acts first (index 2) except heads-up where
// the button/SB acts first (index 0); postflop, the small blind acts first
// (index 0) except heads-up where the big blind acts first (index 1),
// since the button posts the small blind there.
func firstActorPreflop(order []types.PlayerID) int {
	if len(order) == 2 {
		return 0
	}
	return 2 % len(order)
}

func firstActorPostflop(order []types.PlayerID) int {
	if len(order) == 2 {
		return 1
	}
	return 0
}

func (h *Hand) seatOf() map[types.PlayerID]types.Seat {
	return h.Registry.SeatOf()
}

// record appends rec to the hand's append-only display log and returns the
// matching outbox entry, keeping the two in lockstep: everything in
// h.Display was also emitted, in order, through an Outbox.
func (h *Hand) record(rec DisplayRecord) DisplayEffect {
	h.Display = append(h.Display, rec)
	return DisplayEffect{Record: rec}
}
