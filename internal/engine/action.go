package engine

import (
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

// applyAction validates and applies one of Fold/Check/Call/Bet/Raise, then
// advances the acting player (or closes the street).
func (h *Hand) applyAction(ev Event, hst host.Host) (Outbox, error) {
	if err := h.requireActor(ev.PlayerID); err != nil {
		return nil, err
	}

	var out Outbox
	switch ev.Kind {
	case KindFold:
		out = h.fold(ev.PlayerID)
	case KindCheck:
		if h.BetMap[ev.PlayerID] != h.StreetBet {
			return nil, newErr(InvalidAction, "player %d cannot check while facing a bet", ev.PlayerID)
		}
		h.actedThisStreet[ev.PlayerID] = true
	case KindCall:
		if err := h.applyCall(ev.PlayerID); err != nil {
			return nil, err
		}
	case KindBet:
		if err := h.applyBet(ev.PlayerID, ev.Amount); err != nil {
			return nil, err
		}
	case KindRaise:
		if err := h.applyRaise(ev.PlayerID, ev.Amount); err != nil {
			return nil, err
		}
	default:
		return nil, newErr(InvalidState, "applyAction called with non-action kind %v", ev.Kind)
	}

	h.Registry.ResetTimeout(ev.PlayerID)
	h.Logger.Debug("action applied", "hand", h.HandID, "player", ev.PlayerID, "action", ev.Kind, "amount", ev.Amount, "street_bet", h.StreetBet)

	advanceOut, err := h.advance(hst)
	if err != nil {
		return nil, err
	}
	return append(out, advanceOut...), nil
}

// requireActor validates that id is the player currently on the clock.
func (h *Hand) requireActor(id types.PlayerID) error {
	if h.ActingPlayer == nil || h.ActingPlayer.ID != id {
		return newErr(InvalidActor, "player %d is not the current actor", id)
	}
	return nil
}

// applyCall matches the current street bet, capping at the player's stack
// (a short call puts the player all-in without affecting others' bets).
// Illegal when no bet is open.
func (h *Hand) applyCall(id types.PlayerID) error {
	if h.StreetBet == 0 {
		return newErr(InvalidAction, "player %d cannot call, no bet is open", id)
	}
	p, _ := h.Registry.Get(id)
	stack := p.Chips
	toCall := h.StreetBet - h.BetMap[id]
	posted := toCall
	if posted > stack {
		posted = stack
	}

	h.Registry.SubChips(id, posted)
	h.BetMap[id] += posted
	h.actedThisStreet[id] = true
	if posted == stack {
		h.allin[id] = true
		h.Registry.SetStatus(id, registry.StatusAllin)
	}
	return nil
}

// applyBet opens the street's betting. Only valid when nobody has bet yet.
func (h *Hand) applyBet(id types.PlayerID, amount uint64) error {
	if h.StreetBet != 0 {
		return newErr(InvalidAction, "player %d cannot bet, street bet is already %d", id, h.StreetBet)
	}
	p, _ := h.Registry.Get(id)
	stack := p.Chips
	if amount == 0 || amount > stack {
		return newErr(InvalidAction, "player %d bet %d exceeds stack %d", id, amount, stack)
	}
	if amount < h.MinRaise && amount != stack {
		return newErr(InvalidAction, "player %d bet %d is below the minimum %d", id, amount, h.MinRaise)
	}

	h.Registry.SubChips(id, amount)
	h.BetMap[id] += amount
	h.actedThisStreet[id] = true
	h.StreetBet = amount
	h.MinRaise = amount
	if amount == stack {
		h.allin[id] = true
		h.Registry.SetStatus(id, registry.StatusAllin)
	}
	return nil
}

// applyRaise raises the street bet to amount (the new total, not the
// increment). A short all-in raise (one that does not meet MinRaise) still
// forces everyone to act again, but does not grant a new
// Raise right to players who already acted this street and already matched
// the prior bet: noRaise flags them, and is cleared entirely by the next
// full raise.
func (h *Hand) applyRaise(id types.PlayerID, amount uint64) error {
	if h.StreetBet == 0 {
		return newErr(InvalidAction, "player %d cannot raise, no bet is open", id)
	}
	if h.noRaise[id] {
		return newErr(InvalidAction, "player %d cannot re-raise a short all-in they already faced", id)
	}
	if amount <= h.StreetBet {
		return newErr(InvalidAction, "player %d raise-to %d does not exceed the street bet %d", id, amount, h.StreetBet)
	}

	p, _ := h.Registry.Get(id)
	stack := p.Chips
	diff := amount - h.BetMap[id]
	if diff > stack {
		return newErr(InvalidAction, "player %d raise-to %d exceeds stack", id, amount)
	}

	increment := amount - h.StreetBet
	fullRaise := increment >= h.MinRaise
	if !fullRaise && diff != stack {
		return newErr(InvalidAction, "player %d raise-to %d is below the minimum re-raise", id, amount)
	}

	priorBet := h.StreetBet
	h.Registry.SubChips(id, diff)
	h.BetMap[id] += diff
	h.actedThisStreet[id] = true
	h.StreetBet = amount

	if fullRaise {
		h.MinRaise = increment
		h.noRaise = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	} else {
		for _, pid := range h.PlayerOrder {
			if pid != id && h.actedThisStreet[pid] && h.BetMap[pid] == priorBet {
				h.noRaise[pid] = true
			}
		}
	}

	if diff == stack {
		h.allin[id] = true
		h.Registry.SetStatus(id, registry.StatusAllin)
	}
	return nil
}
