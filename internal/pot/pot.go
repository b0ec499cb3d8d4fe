// Package pot folds a per-player bet map into main and side pots. It is a
// pure function of its inputs: it has no notion of streets, turns, or
// actions.
package pot

import (
	"sort"

	"github.com/lox/holdem-core/internal/types"
)

// Pot is one main or side pot. Owners are eligible to win it; Winners is
// filled in later, at showdown, by whatever calls this package (the street
// state machine or the runner coordinator).
type Pot struct {
	Amount  uint64
	Owners  []types.PlayerID
	Winners []types.PlayerID
}

// Contribution is how much a player put into the pot this street, and
// whether they are still live to contest it. Folded players' chips still
// seed the pots they contributed to, but they cannot win them.
type Contribution struct {
	Player types.PlayerID
	Amount uint64
	Live   bool
}

// Result is the outcome of folding one street's contributions into the
// running set of pots.
type Result struct {
	Pots []Pot
	// Refund is the uncalled portion of a single contributor's bet that
	// could not be matched by anyone else, returned before pot
	// construction.
	Refund uint64
	// RefundTo is the player the uncalled bet is returned to. Zero value
	// when Refund is zero.
	RefundTo types.PlayerID
}

// CollectBets folds the current street's contributions into existing,
// merging with the last existing pot when its owner set is unchanged, and
// otherwise appending a new layer. seatOrder gives the owner ordering
// within a layer (typically SB-first), so that later odd-chip allocation
// has a stable left-of-button order to walk.
//
// The algorithm: sort contributors by amount
// ascending, peel off the lowest nonzero layer across every contributor
// still contributing at or above it, and repeat until every contribution is
// zeroed out.
func CollectBets(existing []Pot, contributions []Contribution, seatOrder []types.PlayerID) Result {
	working := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		if c.Amount > 0 {
			working = append(working, c)
		}
	}

	result := Result{Pots: append([]Pot(nil), existing...)}

	if len(working) == 0 {
		return result
	}

	// An uncalled excess: exactly one contributor's amount exceeds every
	// other (live or not) contributor's amount. Refund the difference
	// before building layers.
	if refund, to, ok := uncalledExcess(working); ok {
		result.Refund = refund
		result.RefundTo = to
		for i := range working {
			if working[i].Player == to {
				working[i].Amount -= refund
			}
		}
	}

	remaining := make(map[types.PlayerID]uint64, len(working))
	live := make(map[types.PlayerID]bool, len(working))
	for _, c := range working {
		remaining[c.Player] = c.Amount
		live[c.Player] = c.Live
	}

	order := orderedPlayers(working, seatOrder)

	for {
		lowest, any := lowestNonzero(order, remaining)
		if !any {
			break
		}

		var owners []types.PlayerID
		layerTotal := uint64(0)
		for _, id := range order {
			amt := remaining[id]
			if amt == 0 {
				continue
			}
			remaining[id] = amt - lowest
			layerTotal += lowest
			if live[id] {
				owners = append(owners, id)
			}
		}

		if layerTotal == 0 {
			continue
		}

		if n := len(result.Pots); n > 0 && sameOwners(result.Pots[n-1].Owners, owners) {
			result.Pots[n-1].Amount += layerTotal
		} else {
			result.Pots = append(result.Pots, Pot{Amount: layerTotal, Owners: owners})
		}
	}

	return result
}

// uncalledExcess detects a single contributor whose amount is strictly
// greater than every other contributor's amount, and reports the
// difference between their amount and the next-highest amount.
func uncalledExcess(contributions []Contribution) (amount uint64, to types.PlayerID, ok bool) {
	if len(contributions) < 2 {
		if len(contributions) == 1 {
			return contributions[0].Amount, contributions[0].Player, contributions[0].Amount > 0
		}
		return 0, 0, false
	}

	sorted := append([]Contribution(nil), contributions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	highest, second := sorted[0], sorted[1]
	if highest.Amount > second.Amount {
		return highest.Amount - second.Amount, highest.Player, true
	}
	return 0, 0, false
}

func lowestNonzero(order []types.PlayerID, remaining map[types.PlayerID]uint64) (uint64, bool) {
	lowest := uint64(0)
	found := false
	for _, id := range order {
		amt := remaining[id]
		if amt == 0 {
			continue
		}
		if !found || amt < lowest {
			lowest = amt
			found = true
		}
	}
	return lowest, found
}

// orderedPlayers returns the contributors in seatOrder, appending any
// contributor missing from seatOrder at the end (defensive; callers are
// expected to pass a complete order).
func orderedPlayers(contributions []Contribution, seatOrder []types.PlayerID) []types.PlayerID {
	inSet := make(map[types.PlayerID]bool, len(contributions))
	for _, c := range contributions {
		inSet[c.Player] = true
	}

	ordered := make([]types.PlayerID, 0, len(contributions))
	seen := make(map[types.PlayerID]bool, len(contributions))
	for _, id := range seatOrder {
		if inSet[id] && !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}
	for _, c := range contributions {
		if !seen[c.Player] {
			ordered = append(ordered, c.Player)
			seen[c.Player] = true
		}
	}
	return ordered
}

func sameOwners(a, b []types.PlayerID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[types.PlayerID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

// Total returns the sum of every pot's amount.
func Total(pots []Pot) uint64 {
	var total uint64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
