// Package hosttest provides a scripted, in-process stand-in for the host
// runtime, for engine tests. It records every outbound call the engine
// makes and hands out cards from a fixed sequence, with timers driven by a
// github.com/coder/quartz clock so timeout scenarios run without real
// sleeps.
package hosttest

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-core/internal/deck"
	"github.com/lox/holdem-core/internal/host"
	"github.com/lox/holdem-core/internal/types"
)

// Call records one outbound call the engine made, for test assertions.
type Call struct {
	Kind     string // "init_randomness", "assign_card", "reveal_cards", "schedule", "settle"
	RandomID host.RandomID
	Index    int
	Indices  []int
	Player   types.PlayerID
	Slot     host.ScheduleKind
	Millis   uint64
	Deltas   map[types.PlayerID]int64
	Ejected  []types.PlayerID
}

// Fake is a scripted Host backed by a fixed card sequence and a
// quartz.Clock for deterministic timeout delivery. Fire is how a test
// advances time and gets back the event the host would have delivered.
type Fake struct {
	mu       sync.Mutex
	clock    quartz.Clock
	deck     []deck.Card
	nextID   host.RandomID
	sessions map[host.RandomID][]deck.Card
	Calls    []Call

	timers map[host.ScheduleKind]map[types.PlayerID]*quartz.Timer
	Fire   func(kind host.ScheduleKind, player types.PlayerID)
}

// New returns a Fake whose randomness sessions each hand out the leading
// cards of fullDeck, in order: every InitRandomness call opens a new session
// over the same sequence.
func New(clock quartz.Clock, fullDeck []deck.Card) *Fake {
	return &Fake{
		clock:    clock,
		deck:     fullDeck,
		sessions: make(map[host.RandomID][]deck.Card),
		timers:   make(map[host.ScheduleKind]map[types.PlayerID]*quartz.Timer),
	}
}

func (f *Fake) InitRandomness(size int) host.RandomID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	cards := make([]deck.Card, size)
	copy(cards, f.deck[:size])
	f.sessions[id] = cards
	f.Calls = append(f.Calls, Call{Kind: "init_randomness", RandomID: id})
	return id
}

func (f *Fake) AssignCard(id host.RandomID, index int, to types.PlayerID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Kind: "assign_card", RandomID: id, Index: index, Player: to})
}

func (f *Fake) RevealCards(id host.RandomID, indices []int) []deck.Card {
	f.mu.Lock()
	defer f.mu.Unlock()

	cards := f.sessions[id]
	out := make([]deck.Card, len(indices))
	for i, idx := range indices {
		out[i] = cards[idx]
	}
	f.Calls = append(f.Calls, Call{Kind: "reveal_cards", RandomID: id, Indices: append([]int(nil), indices...)})
	return out
}

func (f *Fake) Schedule(kind host.ScheduleKind, player types.PlayerID, millis uint64) {
	f.mu.Lock()
	f.Calls = append(f.Calls, Call{Kind: "schedule", Slot: kind, Player: player, Millis: millis})
	for _, existing := range f.timers[kind] {
		existing.Stop()
	}
	f.timers[kind] = make(map[types.PlayerID]*quartz.Timer)
	f.mu.Unlock()

	timer := f.clock.AfterFunc(time.Duration(millis)*time.Millisecond, func() {
		if f.Fire != nil {
			f.Fire(kind, player)
		}
	})
	f.mu.Lock()
	f.timers[kind][player] = timer
	f.mu.Unlock()
}

func (f *Fake) Settle(deltas map[types.PlayerID]int64, ejected []types.PlayerID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Kind: "settle", Deltas: deltas, Ejected: ejected})
}
