package engine

import (
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/evaluator"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/prize"
	"github.com/lox/holdem-core/internal/types"
)

// remainingBoardIndices returns the deck indices for whatever community
// cards have not yet been dealt, so the all-in runner path can complete the
// board in a single call regardless of which street the all-in happened on.
func (h *Hand) remainingBoardIndices() []int {
	n := len(h.PlayerOrder)
	base := 2 * n
	full := []int{base, base + 1, base + 2, base + 3, base + 4}
	return full[len(h.Board):]
}

// revealRunnerAndSettle completes the board and discloses every live
// player's hole cards in one combined host call, then ranks hands and
// settles. Used when fewer than two live players can still act (an all-in
// runner).
func (h *Hand) revealRunnerAndSettle(hst host.Host) (Outbox, error) {
	live := h.livePlayers()
	h.Logger.Debug("running out board", "hand", h.HandID, "live", len(live), "board_dealt", len(h.Board))

	boardIdx := h.remainingBoardIndices()
	indices := append([]int(nil), boardIdx...)
	for _, id := range live {
		hi := h.HandIndexMap[id]
		indices = append(indices, hi[0], hi[1])
	}

	cards := hst.RevealCards(h.DeckRandomID, indices)
	if len(cards) != len(indices) {
		return nil, newErr(MissingReveal, "host revealed %d cards for %d requested indices", len(cards), len(indices))
	}
	out := Outbox{RevealEffect{RandomID: h.DeckRandomID, Indices: indices, Cards: cards}}

	prevLen := len(h.Board)
	h.Board = append(h.Board, cards[:len(boardIdx)]...)
	if len(boardIdx) > 0 {
		out = append(out, h.record(DealBoardDisplay{Prev: prevLen, Board: append([]deck.Card(nil), h.Board...)}))
	}

	holeCards := make(map[types.PlayerID][2]deck.Card, len(live))
	rest := cards[len(boardIdx):]
	for i, id := range live {
		holeCards[id] = [2]deck.Card{rest[2*i], rest[2*i+1]}
	}

	h.assignPotWinners(holeCards)

	settleOut, err := h.settleHand(hst)
	if err != nil {
		return nil, err
	}
	return append(out, settleOut...), nil
}

// revealShowdownAndSettle discloses live players' hole cards at a river
// close, where the board is already fully dealt.
func (h *Hand) revealShowdownAndSettle(hst host.Host) (Outbox, error) {
	live := h.livePlayers()

	indices := make([]int, 0, 2*len(live))
	for _, id := range live {
		hi := h.HandIndexMap[id]
		indices = append(indices, hi[0], hi[1])
	}

	cards := hst.RevealCards(h.DeckRandomID, indices)
	if len(cards) != len(indices) {
		return nil, newErr(MissingReveal, "host revealed %d cards for %d requested indices", len(cards), len(indices))
	}
	out := Outbox{RevealEffect{RandomID: h.DeckRandomID, Indices: indices, Cards: cards}}

	holeCards := make(map[types.PlayerID][2]deck.Card, len(live))
	for i, id := range live {
		holeCards[id] = [2]deck.Card{cards[2*i], cards[2*i+1]}
	}

	h.assignPotWinners(holeCards)

	settleOut, err := h.settleHand(hst)
	if err != nil {
		return nil, err
	}
	return append(out, settleOut...), nil
}

// assignPotWinners ranks each live player's best 5-of-7 hand via the
// evaluator oracle and assigns each pot's Winners to whichever of its
// owners (restricted to live players: folded contributors seeded a pot but
// cannot win it) hold the highest rank, splitting ties.
func (h *Hand) assignPotWinners(holeCards map[types.PlayerID][2]deck.Card) {
	rank := make(map[types.PlayerID]evaluator.HandRank, len(holeCards))
	for id, hole := range holeCards {
		cards := append([]deck.Card{hole[0], hole[1]}, h.Board...)
		rank[id] = evaluator.Evaluate7(cards)
	}

	for i, p := range h.Pots {
		var best evaluator.HandRank
		var winners []types.PlayerID
		for _, owner := range p.Owners {
			r, ok := rank[owner]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || r > best:
				best = r
				winners = []types.PlayerID{owner}
			case r == best:
				winners = append(winners, owner)
			}
		}
		h.Pots[i].Winners = winners
	}
}

// settleHand assumes every pot's Winners is already populated and performs
// the shared tail of a hand: prize calculation (with rake deducted from
// each pot before splitting), chip application, registry lifecycle
// transitions, the host Settle call, and arming the inter-hand pause.
func (h *Hand) settleHand(hst host.Host) (Outbox, error) {
	rakedPots := make([]pot.Pot, len(h.Pots))
	for i, p := range h.Pots {
		amount := p.Amount
		if h.Config.RakeBps > 0 {
			amount -= amount * uint64(h.Config.RakeBps) / 10_000
		}
		rakedPots[i] = pot.Pot{Amount: amount, Owners: p.Owners, Winners: p.Winners}
	}

	for _, p := range rakedPots {
		if p.Amount > 0 && len(p.Winners) == 0 {
			return nil, newErr(InternalInvariant, "pot of %d has no winners at settle", p.Amount)
		}
	}

	seatOf := h.seatOf()
	intSeatOf := make(map[types.PlayerID]int, len(seatOf))
	numSeats := int(h.Button) + 1
	for id, seat := range seatOf {
		intSeatOf[id] = int(seat)
		if int(seat)+1 > numSeats {
			numSeats = int(seat) + 1
		}
	}

	h.PrizeMap = prize.Calculate(rakedPots, int(h.Button), numSeats, intSeatOf)
	if got, want := prize.Total(h.PrizeMap), pot.Total(rakedPots); got != want {
		return nil, newErr(InternalInvariant, "prize total %d does not cover pot total %d", got, want)
	}

	// Winners is the settlement winner order, first-to-act first.
	h.Winners = nil
	for _, id := range h.PlayerOrder {
		if h.PrizeMap[id] > 0 {
			h.Winners = append(h.Winners, id)
		}
	}

	for id, amount := range h.PrizeMap {
		h.Registry.AddChips(id, amount)
	}

	deltas := make(map[types.PlayerID]int64, len(h.PlayerOrder))
	for _, id := range h.PlayerOrder {
		p, _ := h.Registry.Get(id)
		deltas[id] = int64(p.Chips) - int64(h.startingChips[id])
	}

	h.Registry.SettleHandEnd(h.PlayerOrder)
	ejected := h.Registry.KickPlayers()
	h.Logger.Info("hand settled", "hand", h.HandID, "prizes", h.PrizeMap, "ejected", ejected)

	out := Outbox{
		h.record(GameResultDisplay{HandID: h.HandID, PrizeMap: h.PrizeMap}),
		h.record(AwardPotsDisplay{Pots: h.Pots}),
		SettleEffect{Deltas: deltas, Ejected: ejected},
	}
	hst.Settle(deltas, ejected)

	h.Stage = StageSettle
	h.Street = StreetShowdown
	h.ActingPlayer = nil
	out = append(out, DispatchEffect{Kind: host.WaitTimeoutSlot, Millis: h.Config.WaitTimeoutMs})
	hst.Schedule(host.WaitTimeoutSlot, 0, h.Config.WaitTimeoutMs)

	return out, nil
}
