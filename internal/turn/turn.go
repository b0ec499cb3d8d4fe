// Package turn computes the button, the per-hand acting order, and the
// button's advance from one hand to the next. It is a pure function of the
// registry snapshot it is given; it holds no state of its own between
// calls.
package turn

import (
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/types"
)

// Arrange returns this hand's acting order: the player immediately left of
// the button (the small blind) through the button itself.
// players must already be filtered to StatusWait (registry.EligibleForHand)
// and sorted by seat; Arrange only rotates them.
func Arrange(button types.Seat, players []*registry.Player) []types.PlayerID {
	if len(players) == 0 {
		return nil
	}

	// Heads-up is the one case where "immediately left of the button" isn't
	// the rule: the button posts the small blind and acts first preflop, per
	// standard heads-up play. Everywhere else the rotation starts at the
	// first seat clockwise of the button and wraps through the button last.
	if len(players) == 2 {
		startIdx := 0
		for i, p := range players {
			if p.Position == button {
				startIdx = i
				break
			}
		}
		return []types.PlayerID{players[startIdx].ID, players[(startIdx+1)%2].ID}
	}

	startIdx := 0
	for i, p := range players {
		if p.Position > button {
			startIdx = i
			break
		}
	}

	order := make([]types.PlayerID, 0, len(players))
	for i := 0; i < len(players); i++ {
		order = append(order, players[(startIdx+i)%len(players)].ID)
	}
	return order
}

// NextButton advances the button to the next seat, among players not
// StatusLeave/StatusOut, wrapping around the table. players must be sorted
// by seat (registry.SeatedForButton).
// If no seated player remains, the button is returned unchanged.
func NextButton(players []*registry.Player, from types.Seat) types.Seat {
	if len(players) == 0 {
		return from
	}

	first := -1
	for i, p := range players {
		if p.Status == registry.StatusLeave || p.Status == registry.StatusOut {
			continue
		}
		if first < 0 {
			first = i
		}
		if p.Position > from {
			return p.Position
		}
	}
	if first < 0 {
		return from
	}
	return players[first].Position
}
