package deck

import "github.com/lox/holdem-core/internal/randutil"

// Standard52 returns an unshuffled 52-card deck in a fixed, deterministic
// order (spades, hearts, diamonds, clubs; two through ace within each suit).
func Standard52() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Deck is a fixed-size, indexable card sequence. The engine itself never
// shuffles a deck: card order belongs to the host's randomness session,
// and the engine only ever references an opaque random ID plus
// integer indices into whatever sequence the host committed to. Deck exists
// so that tests (and a local demo host) can stand in for that host with a
// reproducible sequence.
type Deck struct {
	cards []Card
}

// NewSeededDeck returns a deck shuffled deterministically from seed, using
// the same seeded-PCG approach as the rest of this module's test tooling
// (see internal/randutil) so that a given seed always reveals the same
// cards at the same indices.
func NewSeededDeck(seed int64) *Deck {
	cards := Standard52()
	rng := randutil.New(seed)
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// At returns the card at the given index into the committed sequence. It
// panics on an out-of-range index: an out-of-range reveal index from a host
// would be an InternalInvariant violation in the engine, never a normal
// runtime condition to recover from.
func (d *Deck) At(index int) Card {
	return d.cards[index]
}

// Len returns the number of cards in the sequence.
func (d *Deck) Len() int {
	return len(d.cards)
}
