// Package registry tracks players, seats, statuses, and chip stacks across
// hands. It owns the only mutable, cross-hand state in the engine: chips
// and status survive from one hand to the next, unlike the hand's per-deal
// fields.
package registry

import (
	"sort"

	"github.com/lox/holdem-core/internal/types"
)

// Status is a player's lifecycle state.
type Status int

const (
	// StatusInit is assigned to a player who joins mid-hand: admitted to the
	// registry but not dealt into the hand in progress.
	StatusInit Status = iota
	// StatusWait is the default state between hands and while waiting for a
	// turn within one: eligible to be dealt in, not currently acting.
	StatusWait
	// StatusActing marks the single player whose turn it currently is.
	StatusActing
	// StatusAllin marks a player whose stack reached zero via a bet.
	StatusAllin
	// StatusFold marks a player who folded this hand.
	StatusFold
	// StatusLeave marks a player who asked to leave; ejected at the next
	// safe boundary.
	StatusLeave
	// StatusOut marks a player whose stack reached zero at hand end and who
	// was not refilled.
	StatusOut
)

// String renders the status for logging.
func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusWait:
		return "wait"
	case StatusActing:
		return "acting"
	case StatusAllin:
		return "allin"
	case StatusFold:
		return "fold"
	case StatusLeave:
		return "leave"
	case StatusOut:
		return "out"
	default:
		return "unknown"
	}
}

// Player is one seat's worth of registry state.
type Player struct {
	ID           types.PlayerID
	Position     types.Seat
	Chips        uint64
	Status       Status
	TimeoutCount int
}

// Registry is an ordered-by-ID player map. Anything that affects output
// order iterates the sorted ids slice, never the backing map.
type Registry struct {
	ids     []types.PlayerID
	players map[types.PlayerID]*Player
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{players: make(map[types.PlayerID]*Player)}
}

// Add admits a new player at the given seat. New players always start
// StatusInit, even on the very first Sync before any hand has started,
// since BeginHand promotes everyone to Wait uniformly.
func (r *Registry) Add(id types.PlayerID, seat types.Seat, chips uint64) *Player {
	if existing, ok := r.players[id]; ok {
		return existing
	}
	p := &Player{ID: id, Position: seat, Chips: chips, Status: StatusInit}
	r.players[id] = p
	r.ids = append(r.ids, id)
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return p
}

// Get returns the player with the given ID, if present.
func (r *Registry) Get(id types.PlayerID) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// MarkLeave flags a player for ejection at the next safe boundary by setting
// its status to StatusLeave. It never removes the player immediately: a
// mid-hand leaver stays registered until KickPlayers runs at a safe boundary.
func (r *Registry) MarkLeave(id types.PlayerID) {
	if p, ok := r.players[id]; ok {
		p.Status = StatusLeave
	}
}

// SetStatus overwrites a player's status directly. Used by the street state
// machine and action handler to drive the lifecycle transitions
// (Wait -> Acting -> Allin/Fold, and back to Wait at hand end).
func (r *Registry) SetStatus(id types.PlayerID, status Status) {
	if p, ok := r.players[id]; ok {
		p.Status = status
	}
}

// BumpTimeout increments a player's consecutive-timeout counter and reports
// whether it has reached threshold. Reaching threshold flips the player to
// StatusLeave for ejection at the next safe boundary.
func (r *Registry) BumpTimeout(id types.PlayerID, threshold uint8) (reachedThreshold bool) {
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.TimeoutCount++
	if p.TimeoutCount >= int(threshold) {
		p.Status = StatusLeave
		return true
	}
	return false
}

// ResetTimeout zeroes a player's consecutive-timeout counter. Called on any
// voluntary action: only consecutive timeouts eject.
func (r *Registry) ResetTimeout(id types.PlayerID) {
	if p, ok := r.players[id]; ok {
		p.TimeoutCount = 0
	}
}

// AddChips credits a player's stack, for prize application at settlement
// and for returning an uncalled bet. Chip removal goes through SubChips.
func (r *Registry) AddChips(id types.PlayerID, amount uint64) {
	if p, ok := r.players[id]; ok {
		p.Chips += amount
	}
}

// SubChips debits a player's stack when posting a bet.
func (r *Registry) SubChips(id types.PlayerID, amount uint64) {
	if p, ok := r.players[id]; ok {
		p.Chips -= amount
	}
}

// BeginHand promotes every StatusInit player to StatusWait, admitting
// mid-hand joiners into the pool eligible for the next deal. It returns
// the IDs that were freshly admitted, in ID order.
func (r *Registry) BeginHand() []types.PlayerID {
	var admitted []types.PlayerID
	for _, id := range r.ids {
		p := r.players[id]
		if p.Status == StatusInit {
			p.Status = StatusWait
			admitted = append(admitted, id)
		}
	}
	return admitted
}

// EligibleForHand returns players with StatusWait and a nonzero stack,
// ordered by seat, for turn.Arrange to build this hand's acting order from.
func (r *Registry) EligibleForHand() []*Player {
	var eligible []*Player
	for _, id := range r.ids {
		p := r.players[id]
		if p.Status == StatusWait && p.Chips > 0 {
			eligible = append(eligible, p)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Position < eligible[j].Position })
	return eligible
}

// SeatedForButton returns every player not StatusLeave/StatusOut, ordered by
// seat, for turn.NextButton to advance the button over.
func (r *Registry) SeatedForButton() []*Player {
	var seated []*Player
	for _, id := range r.ids {
		p := r.players[id]
		if p.Status != StatusLeave && p.Status != StatusOut {
			seated = append(seated, p)
		}
	}
	sort.Slice(seated, func(i, j int) bool { return seated[i].Position < seated[j].Position })
	return seated
}

// SettleHandEnd resets every player who took part in the hand just settled
// back to StatusWait, except those who busted (Chips == 0, flipped to
// StatusOut) or already flagged StatusLeave. dealtIn lists the player IDs
// that were part of this hand's PlayerOrder; players outside
// that set (mid-hand joiners still StatusInit, or already StatusLeave/Out)
// are left untouched.
func (r *Registry) SettleHandEnd(dealtIn []types.PlayerID) {
	for _, id := range dealtIn {
		p, ok := r.players[id]
		if !ok || p.Status == StatusLeave {
			continue
		}
		if p.Chips == 0 {
			p.Status = StatusOut
			continue
		}
		p.Status = StatusWait
	}
}

// KickPlayers removes every StatusLeave/StatusOut player from the registry
// and returns their IDs in ID order.
func (r *Registry) KickPlayers() []types.PlayerID {
	var kicked []types.PlayerID
	remaining := r.ids[:0]
	for _, id := range r.ids {
		p := r.players[id]
		if p.Status == StatusLeave || p.Status == StatusOut {
			kicked = append(kicked, id)
			delete(r.players, id)
			continue
		}
		remaining = append(remaining, id)
	}
	r.ids = remaining
	return kicked
}

// Players returns every registered player, ordered by ID.
func (r *Registry) Players() []*Player {
	out := make([]*Player, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.players[id])
	}
	return out
}

// SeatOf builds a player-ID-to-seat map, for prize.Calculate's odd-chip
// distance computation.
func (r *Registry) SeatOf() map[types.PlayerID]types.Seat {
	out := make(map[types.PlayerID]types.Seat, len(r.ids))
	for _, id := range r.ids {
		out[id] = r.players[id].Position
	}
	return out
}
