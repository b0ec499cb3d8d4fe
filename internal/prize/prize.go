// Package prize turns a set of settled pots, each with its winners already
// assigned at showdown, into a per-player payout map. It is a pure function
// of its inputs.
package prize

import (
	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/types"
)

// Calculate splits each pot's amount equally among its winners and assigns
// the odd chips left over by integer division to a single deterministic
// recipient per pot: the winner seated closest, clockwise, to button+1,
// i.e. the first live winner left of the button. seatOf must carry every winner
// named in pots; numSeats is the
// table size used to wrap distance calculations at the button.
func Calculate(pots []pot.Pot, button int, numSeats int, seatOf map[types.PlayerID]int) map[types.PlayerID]uint64 {
	prizeMap := make(map[types.PlayerID]uint64)

	for _, p := range pots {
		if len(p.Winners) == 0 || p.Amount == 0 {
			continue
		}

		share := p.Amount / uint64(len(p.Winners))
		remainder := p.Amount % uint64(len(p.Winners))

		for _, w := range p.Winners {
			if share > 0 {
				prizeMap[w] += share
			}
		}

		if remainder > 0 {
			recipient := oddChipWinner(p.Winners, button, numSeats, seatOf)
			prizeMap[recipient] += remainder
		}
	}

	return prizeMap
}

// oddChipWinner picks the winner whose seat is the smallest clockwise
// distance from button+1. Ties cannot occur: seats are unique.
func oddChipWinner(winners []types.PlayerID, button int, numSeats int, seatOf map[types.PlayerID]int) types.PlayerID {
	best := winners[0]
	bestDist := clockwiseDistance(seatOf[best], button, numSeats)

	for _, w := range winners[1:] {
		dist := clockwiseDistance(seatOf[w], button, numSeats)
		if dist < bestDist {
			best = w
			bestDist = dist
		}
	}

	return best
}

// clockwiseDistance returns how many seats clockwise from button+1 seat
// sits, wrapping at numSeats. The seat immediately left of the button (the
// small blind's seat) has distance 0.
func clockwiseDistance(seat, button, numSeats int) int {
	if numSeats <= 0 {
		return 0
	}
	from := (button + 1) % numSeats
	d := seat - from
	if d < 0 {
		d += numSeats
	}
	return d
}

// Total returns the sum of every entry in a prize map, for conservation
// checks against the pot total.
func Total(prizeMap map[types.PlayerID]uint64) uint64 {
	var total uint64
	for _, v := range prizeMap {
		total += v
	}
	return total
}
