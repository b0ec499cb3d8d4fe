package engine

import (
	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/handid"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/pot"
	"github.com/lox/holdem-core/internal/registry"
	"github.com/lox/holdem-core/internal/turn"
	"github.com/lox/holdem-core/internal/types"
)

// handleGameStart begins a new hand: Init -> Preflop. It admits mid-hand
// joiners, arranges the acting order, and asks the host to
// commit a fresh randomness session. Dealing itself waits for the matching
// RandomnessReady event (see handleRandomnessReady): InitRandomness's return
// value is never acted on directly, per the two-phase design documented on
// host.Host.
func (h *Hand) handleGameStart(hst host.Host) (Outbox, error) {
	if h.Stage != StageInit {
		return nil, newErr(InvalidState, "game_start received in stage %v", h.Stage)
	}

	h.Registry.BeginHand()
	eligible := h.Registry.EligibleForHand()
	if len(eligible) < 2 {
		return nil, newErr(InvalidState, "game_start requires at least two eligible players, got %d", len(eligible))
	}

	if h.Button == noButton {
		h.Button = eligible[0].Position
	}

	h.PlayerOrder = turn.Arrange(h.Button, eligible)
	h.BetMap = make(map[types.PlayerID]uint64, len(h.PlayerOrder))
	h.Pots = nil
	h.PrizeMap = nil
	h.Board = nil
	h.HandIndexMap = make(map[types.PlayerID][2]int, len(h.PlayerOrder))
	h.Winners = nil
	h.Display = nil
	h.actedThisStreet = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.noRaise = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.folded = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.allin = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.StreetBet = 0
	h.MinRaise = h.Config.BigBlind
	h.Street = StreetInit

	h.startingChips = make(map[types.PlayerID]uint64, len(h.PlayerOrder))
	for _, id := range h.PlayerOrder {
		p, _ := h.Registry.Get(id)
		h.startingChips[id] = p.Chips
	}

	size := 2*len(h.PlayerOrder) + 5
	randID := hst.InitRandomness(size)
	h.DeckRandomID = randID
	h.awaitingRandomness = true
	h.handSeq++
	h.HandID = handid.FromSession(uint64(randID), h.handSeq)

	h.Logger.Debug("starting hand", "hand", h.HandID, "button", h.Button, "players", len(h.PlayerOrder))

	return Outbox{
		InitRandomnessEffect{Size: size, RandomID: randID},
		h.record(HandStartDisplay{HandID: h.HandID, Button: h.Button, Order: append([]types.PlayerID(nil), h.PlayerOrder...)}),
	}, nil
}

// handleRandomnessReady completes the Init -> Preflop transition once the
// host's randomness commitment for this hand is durable: it assigns hole
// cards, posts blinds, and arms the first action clock.
func (h *Hand) handleRandomnessReady(ev Event, hst host.Host) (Outbox, error) {
	if !h.awaitingRandomness || ev.RandomID != h.DeckRandomID {
		return nil, newErr(InvalidState, "randomness_ready for unexpected random id %d", ev.RandomID)
	}
	h.awaitingRandomness = false

	var out Outbox
	for i, id := range h.PlayerOrder {
		i0, i1 := 2*i, 2*i+1
		h.HandIndexMap[id] = [2]int{i0, i1}
		hst.AssignCard(h.DeckRandomID, i0, id)
		hst.AssignCard(h.DeckRandomID, i1, id)
		out = append(out,
			AssignCardEffect{RandomID: h.DeckRandomID, Index: i0, To: id},
			AssignCardEffect{RandomID: h.DeckRandomID, Index: i1, To: id},
		)
	}

	sb := h.PlayerOrder[0]
	bb := h.PlayerOrder[1%len(h.PlayerOrder)]
	h.postBlind(sb, h.Config.SmallBlind)
	if len(h.PlayerOrder) > 1 {
		h.postBlind(bb, h.Config.BigBlind)
	}
	h.StreetBet = h.Config.BigBlind
	h.Street = StreetPreflop
	h.Stage = StagePlay

	h.Logger.Debug("posted blinds", "hand", h.HandID, "sb_player", sb, "bb_player", bb, "street_bet", h.StreetBet)

	actorIdx := firstActorPreflop(h.PlayerOrder)
	out = append(out, h.armActor(hst, actorIdx, h.Config.ActionTimeoutPreflopMs)...)

	// Blinds short enough to put everyone all-in leave nobody to act: the
	// hand runs out immediately instead of waiting for an action that can
	// never come.
	if h.ActingPlayer == nil {
		closeOut, err := h.closeStreet(hst)
		if err != nil {
			return nil, err
		}
		out = append(out, closeOut...)
	}

	return out, nil
}

// postBlind posts a forced bet, capping at the player's stack (a short
// blind posts the player all-in). It deliberately leaves actedThisStreet
// unset: a blind is forced, not a voluntary action, so the big blind still
// owes its preflop option
// even when every other player only calls.
func (h *Hand) postBlind(id types.PlayerID, amount uint64) {
	p, _ := h.Registry.Get(id)
	posted := amount
	if posted > p.Chips {
		posted = p.Chips
	}
	wentAllin := posted == p.Chips

	h.Registry.SubChips(id, posted)
	h.BetMap[id] = h.BetMap[id] + posted
	if wentAllin {
		h.allin[id] = true
		h.Registry.SetStatus(id, registry.StatusAllin)
	}
}

// armActor sets PlayerOrder[idx] as the current actor, calls host.Schedule
// to arm its action clock, and records the effect. It skips anyone already
// folded or all-in, clearing ActingPlayer (and returning no effect) if
// every remaining player is folded or all-in, which closeStreet's caller is
// responsible for checking beforehand.
func (h *Hand) armActor(hst host.Host, idx int, timeoutMs uint64) Outbox {
	n := len(h.PlayerOrder)
	for i := 0; i < n; i++ {
		pos := (idx + i) % n
		id := h.PlayerOrder[pos]
		if h.folded[id] || h.allin[id] {
			continue
		}
		p, _ := h.Registry.Get(id)
		h.ActingPlayer = &ActingPlayer{ID: id, Position: p.Position, TimeoutCount: p.TimeoutCount, TimeoutMs: timeoutMs}
		h.restoreStatus = p.Status
		h.Registry.SetStatus(id, registry.StatusActing)
		h.Logger.Debug("action on", "hand", h.HandID, "player", id, "street", h.Street, "timeout_ms", timeoutMs)
		hst.Schedule(host.ActionTimeoutSlot, id, timeoutMs)
		return Outbox{DispatchEffect{Kind: host.ActionTimeoutSlot, Player: id, Millis: timeoutMs}}
	}
	h.ActingPlayer = nil
	return nil
}

// actionTimeoutMs returns the clock length for the current street.
func (h *Hand) actionTimeoutMs() uint64 {
	if h.Street == StreetPreflop {
		return h.Config.ActionTimeoutPreflopMs
	}
	return h.Config.ActionTimeoutPostflopMs
}

// handleActionTimeout resolves an expired action clock: fold if facing a
// bet, otherwise check. Reaching the configured threshold of consecutive
// timeouts flags the player for ejection at the next safe boundary.
func (h *Hand) handleActionTimeout(ev Event, hst host.Host) (Outbox, error) {
	if h.ActingPlayer == nil || h.ActingPlayer.ID != ev.PlayerID {
		return nil, newErr(InvalidActor, "action_timeout for %d, current actor is %v", ev.PlayerID, h.ActingPlayer)
	}

	facingBet := h.BetMap[ev.PlayerID] < h.StreetBet
	var out Outbox
	if facingBet {
		out = append(out, h.fold(ev.PlayerID)...)
	} else {
		h.actedThisStreet[ev.PlayerID] = true
	}

	h.Logger.Debug("action timeout", "hand", h.HandID, "player", ev.PlayerID, "folded", facingBet)
	h.Registry.BumpTimeout(ev.PlayerID, h.Config.MaxConsecutiveTimeouts)

	advanceOut, err := h.advance(hst)
	if err != nil {
		return nil, err
	}
	return append(out, advanceOut...), nil
}

// handleWaitTimeout ends the inter-hand pause: Settle -> Init, advancing the
// button for the next deal.
func (h *Hand) handleWaitTimeout(hst host.Host) (Outbox, error) {
	if h.Stage != StageSettle {
		return nil, newErr(InvalidState, "wait_timeout received in stage %v", h.Stage)
	}

	seated := h.Registry.SeatedForButton()
	if len(seated) > 0 {
		from := h.Button
		if from == noButton {
			from = seated[0].Position
		}
		h.Button = turn.NextButton(seated, from)
	}
	h.Stage = StageInit
	h.Street = StreetInit
	h.ActingPlayer = nil
	h.Logger.Debug("ready for next hand", "button", h.Button, "seated", len(seated))
	return nil, nil
}

// advance moves the acting player forward after a resolved action or
// timeout, closing the street (and possibly the hand) once nobody else owes
// an action. A player facing an all-in still gets their turn even when they
// are the last one able to act: the street only closes once every unfolded,
// not-all-in player has matched the street bet.
func (h *Hand) advance(hst host.Host) (Outbox, error) {
	cur := h.indexOf(h.ActingPlayer.ID)
	h.releaseActor()

	if live, _ := h.liveCount(); live <= 1 {
		return h.closeStreet(hst)
	}

	n := len(h.PlayerOrder)
	for i := 1; i <= n; i++ {
		pos := (cur + i) % n
		id := h.PlayerOrder[pos]
		if h.folded[id] || h.allin[id] {
			continue
		}
		if h.owesAction(id) {
			return h.armActor(hst, pos, h.actionTimeoutMs()), nil
		}
	}

	return h.closeStreet(hst)
}

// releaseActor puts the outgoing actor's registry status back to whatever it
// was before its turn (Wait, or a still-pending Leave), preserving any
// terminal status (Fold, Allin, Leave) the action itself assigned, so at
// most one player is ever StatusActing.
func (h *Hand) releaseActor() {
	if h.ActingPlayer == nil {
		return
	}
	if p, ok := h.Registry.Get(h.ActingPlayer.ID); ok && p.Status == registry.StatusActing {
		h.Registry.SetStatus(p.ID, h.restoreStatus)
	}
}

// owesAction reports whether id still must act this street: either it has
// never acted, or its committed amount is below the current street bet.
// This dynamic formula (rather than a static "everyone has acted" flag) is
// what makes a post-flop Check followed by an opponent's Bet correctly
// reopen action to the checker instead of closing the street under them.
func (h *Hand) owesAction(id types.PlayerID) bool {
	return !(h.actedThisStreet[id] && h.BetMap[id] == h.StreetBet)
}

func (h *Hand) indexOf(id types.PlayerID) int {
	for i, pid := range h.PlayerOrder {
		if pid == id {
			return i
		}
	}
	return 0
}

func (h *Hand) fold(id types.PlayerID) Outbox {
	h.folded[id] = true
	h.actedThisStreet[id] = true
	h.Registry.SetStatus(id, registry.StatusFold)
	return nil
}

// closeStreet folds the current street's BetMap into pots, then decides
// whether the hand is over (one live player, or fewer than two not yet
// all-in), the river has closed into showdown, or play continues to the
// next street.
func (h *Hand) closeStreet(hst host.Host) (Outbox, error) {
	var out Outbox

	contributions := make([]pot.Contribution, 0, len(h.PlayerOrder))
	for _, id := range h.PlayerOrder {
		amt := h.BetMap[id]
		if amt == 0 {
			continue
		}
		contributions = append(contributions, pot.Contribution{Player: id, Amount: amt, Live: !h.folded[id]})
	}

	oldPots := append([]pot.Pot(nil), h.Pots...)
	betMapCopy := make(map[types.PlayerID]uint64, len(h.BetMap))
	for k, v := range h.BetMap {
		betMapCopy[k] = v
	}

	if len(contributions) > 0 {
		result := pot.CollectBets(h.Pots, contributions, h.PlayerOrder)
		if result.Refund > 0 {
			h.Registry.AddChips(result.RefundTo, result.Refund)
		}
		h.Pots = result.Pots
		h.Logger.Debug("collected bets", "hand", h.HandID, "street", h.Street, "pots", len(h.Pots), "total", pot.Total(h.Pots))
		out = append(out, h.record(CollectBetsDisplay{OldPots: oldPots, BetMap: betMapCopy}))
	}

	h.BetMap = make(map[types.PlayerID]uint64, len(h.PlayerOrder))
	h.StreetBet = 0
	h.MinRaise = h.Config.BigBlind
	h.actedThisStreet = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.noRaise = make(map[types.PlayerID]bool, len(h.PlayerOrder))
	h.ActingPlayer = nil

	live, liveNotAllin := h.liveCount()

	switch {
	case live <= 1:
		winners := h.livePlayers()
		for i := range h.Pots {
			h.Pots[i].Winners = intersect(h.Pots[i].Owners, winners)
		}
		settleOut, err := h.settleHand(hst)
		if err != nil {
			return nil, err
		}
		return append(out, settleOut...), nil

	case liveNotAllin <= 1:
		h.Stage = StageRunner
		revealOut, err := h.revealRunnerAndSettle(hst)
		if err != nil {
			return nil, err
		}
		return append(out, revealOut...), nil

	case h.Street == StreetRiver:
		showdownOut, err := h.revealShowdownAndSettle(hst)
		if err != nil {
			return nil, err
		}
		return append(out, showdownOut...), nil

	default:
		dealOut, err := h.dealNextStreet(hst)
		if err != nil {
			return nil, err
		}
		return append(out, dealOut...), nil
	}
}

// boardIndices returns the deck indices for the next board cards to reveal,
// given the current street. Hole cards occupy [0, 2n); the flop occupies
// the next three indices, the turn the one after, the river the one after
// that.
func (h *Hand) boardIndices(street Street) []int {
	n := len(h.PlayerOrder)
	base := 2 * n
	switch street {
	case StreetFlop:
		return []int{base, base + 1, base + 2}
	case StreetTurn:
		return []int{base + 3}
	case StreetRiver:
		return []int{base + 4}
	default:
		return nil
	}
}

// dealNextStreet reveals the next street's community cards and arms the
// next actor.
func (h *Hand) dealNextStreet(hst host.Host) (Outbox, error) {
	h.Street++
	indices := h.boardIndices(h.Street)
	cards := hst.RevealCards(h.DeckRandomID, indices)
	if len(cards) != len(indices) {
		return nil, newErr(MissingReveal, "host revealed %d cards for %d requested indices", len(cards), len(indices))
	}
	prev := len(h.Board)
	h.Board = append(h.Board, cards...)
	h.Logger.Debug("dealing board", "hand", h.HandID, "street", h.Street, "board", h.Board)

	out := Outbox{
		RevealEffect{RandomID: h.DeckRandomID, Indices: indices, Cards: cards},
		h.record(DealBoardDisplay{Prev: prev, Board: append([]deck.Card(nil), h.Board...)}),
	}

	actorIdx := firstActorPostflop(h.PlayerOrder)
	armed := h.armActor(hst, actorIdx, h.actionTimeoutMs())
	out = append(out, armed...)
	return out, nil
}

// intersect returns the elements of ids that also appear in allowed.
func intersect(ids, allowed []types.PlayerID) []types.PlayerID {
	set := make(map[types.PlayerID]bool, len(allowed))
	for _, id := range allowed {
		set[id] = true
	}
	var out []types.PlayerID
	for _, id := range ids {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
