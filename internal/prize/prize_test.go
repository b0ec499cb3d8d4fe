package prize

import (
	"testing"

	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/types"
)

// A single winner takes the entire pot.
func TestCalculateSingleWinnerTakesWholePot(t *testing.T) {
	bob := types.PlayerID(2)
	pots := []pot.Pot{{Amount: 200, Owners: []types.PlayerID{1, 2, 3, 4, 5}, Winners: []types.PlayerID{bob}}}
	seatOf := map[types.PlayerID]int{1: 0, 2: 1, 3: 2, 4: 3, 5: 4}

	prizeMap := Calculate(pots, 0, 5, seatOf)

	if prizeMap[bob] != 200 {
		t.Errorf("expected bob to receive 200, got %d", prizeMap[bob])
	}
	if Total(prizeMap) != 200 {
		t.Errorf("expected prize total 200, got %d", Total(prizeMap))
	}
}

// Three-way chop of 200 with odd chips: base share 66 each; Alice (seat
// closest left of the button) receives the extra 2.
func TestCalculateOddChipGoesToFirstLiveWinnerLeftOfButton(t *testing.T) {
	alice, bob, dave := types.PlayerID(1), types.PlayerID(2), types.PlayerID(3)
	pots := []pot.Pot{{Amount: 200, Winners: []types.PlayerID{bob, dave, alice}}}
	// button is seat 4; alice sits in seat 0, the small blind, the closest
	// seat clockwise from button+1 (which wraps to seat 0 on a 5-seat table).
	seatOf := map[types.PlayerID]int{alice: 0, bob: 2, dave: 3}

	prizeMap := Calculate(pots, 4, 5, seatOf)

	if prizeMap[alice] != 68 {
		t.Errorf("expected alice (odd-chip winner) to receive 68, got %d", prizeMap[alice])
	}
	if prizeMap[bob] != 66 || prizeMap[dave] != 66 {
		t.Errorf("expected bob and dave to receive 66 each, got bob=%d dave=%d", prizeMap[bob], prizeMap[dave])
	}
	if Total(prizeMap) != 200 {
		t.Errorf("expected prize total 200, got %d", Total(prizeMap))
	}
}

func TestCalculateOddChipDeterministicRegardlessOfWinnerOrder(t *testing.T) {
	alice, bob, dave := types.PlayerID(1), types.PlayerID(2), types.PlayerID(3)
	seatOf := map[types.PlayerID]int{alice: 0, bob: 2, dave: 3}

	forward := Calculate([]pot.Pot{{Amount: 200, Winners: []types.PlayerID{alice, bob, dave}}}, 4, 5, seatOf)
	reversed := Calculate([]pot.Pot{{Amount: 200, Winners: []types.PlayerID{dave, bob, alice}}}, 4, 5, seatOf)

	if forward[alice] != reversed[alice] || forward[bob] != reversed[bob] || forward[dave] != reversed[dave] {
		t.Error("odd-chip recipient must not depend on winner slice order")
	}
}

func TestCalculateSkipsEmptyPots(t *testing.T) {
	pots := []pot.Pot{{Amount: 0, Winners: []types.PlayerID{1}}, {Amount: 50, Winners: nil}}
	seatOf := map[types.PlayerID]int{1: 0}

	prizeMap := Calculate(pots, 0, 2, seatOf)

	if len(prizeMap) != 0 {
		t.Errorf("expected no payouts for empty/unassigned pots, got %v", prizeMap)
	}
}

func TestCalculateMultiplePotsAccumulate(t *testing.T) {
	alice, bob := types.PlayerID(1), types.PlayerID(2)
	pots := []pot.Pot{
		{Amount: 100, Winners: []types.PlayerID{alice, bob}},
		{Amount: 60, Winners: []types.PlayerID{bob}},
	}
	seatOf := map[types.PlayerID]int{alice: 0, bob: 1}

	prizeMap := Calculate(pots, 1, 2, seatOf)

	if prizeMap[alice] != 50 {
		t.Errorf("expected alice 50, got %d", prizeMap[alice])
	}
	if prizeMap[bob] != 110 {
		t.Errorf("expected bob 110 (50 + 60), got %d", prizeMap[bob])
	}
}
