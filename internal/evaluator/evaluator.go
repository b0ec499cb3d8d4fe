package evaluator

import "github.com/lox/holdem-core/internal/deck"

// Evaluate5 ranks exactly five cards.
func Evaluate5(cards []deck.Card) HandRank {
	if len(cards) != 5 {
		panic("evaluator: Evaluate5 requires exactly 5 cards")
	}
	return evaluate(cards)
}

// Evaluate7 finds the best five-card hand across five to seven cards and
// returns its rank: given an ordered hole + board selection, it returns an
// opaque, comparable
// strength, with no knowledge of pots, streets, or players.
func Evaluate7(cards []deck.Card) HandRank {
	n := len(cards)
	if n < 5 || n > 7 {
		panic("evaluator: Evaluate7 requires 5 to 7 cards")
	}
	if n == 5 {
		return evaluate(cards)
	}

	var best HandRank
	combo := make([]deck.Card, 5)
	chooseFive(cards, combo, 0, 0, &best)
	return best
}

// chooseFive enumerates every 5-card subset of cards and keeps the best rank.
func chooseFive(cards, combo []deck.Card, start, filled int, best *HandRank) {
	if filled == 5 {
		r := evaluate(combo)
		if r > *best {
			*best = r
		}
		return
	}
	remaining := 5 - filled
	for i := start; i <= len(cards)-remaining; i++ {
		combo[filled] = cards[i]
		chooseFive(cards, combo, i+1, filled+1, best)
	}
}

// evaluate ranks exactly five cards using rank/suit counting plus bitmap
// straight detection, packing the result into the larger-is-stronger
// HandRank encoding.
func evaluate(cards []deck.Card) HandRank {
	var rankCounts [15]int // index 2..14
	var suitCounts [4]int
	var rankBits uint32

	for _, c := range cards {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
		rankBits |= 1 << uint(c.Rank)
	}

	flushSuit := -1
	for s := 0; s < 4; s++ {
		if suitCounts[s] >= 5 {
			flushSuit = s
			break
		}
	}

	if flushSuit != -1 {
		var flushBits uint32
		for _, c := range cards {
			if int(c.Suit) == flushSuit {
				flushBits |= 1 << uint(c.Rank)
			}
		}
		if high := straightHigh(flushBits); high > 0 {
			return pack(StraightFlush, high)
		}
		ranks := descendingRanks(flushBits, 5)
		return pack(Flush, ranks...)
	}

	if high := straightHigh(rankBits); high > 0 {
		return pack(Straight, high)
	}

	var fours, threes, pairs []int
	for rank := 14; rank >= 2; rank-- {
		switch rankCounts[rank] {
		case 4:
			fours = append(fours, rank)
		case 3:
			threes = append(threes, rank)
		case 2:
			pairs = append(pairs, rank)
		}
	}

	if len(fours) > 0 {
		kicker := highestExcluding(rankCounts, fours[0])
		return pack(FourOfAKind, fours[0], kicker)
	}

	if len(threes) > 0 && (len(pairs) > 0 || len(threes) > 1) {
		pairRank := 0
		if len(threes) > 1 {
			pairRank = threes[1]
		} else {
			pairRank = pairs[0]
		}
		return pack(FullHouse, threes[0], pairRank)
	}

	if len(threes) > 0 {
		kickers := highestNExcluding(rankCounts, 2, threes[0])
		return pack(ThreeOfAKind, append([]int{threes[0]}, kickers...)...)
	}

	if len(pairs) >= 2 {
		kicker := highestExcluding(rankCounts, pairs[0], pairs[1])
		return pack(TwoPair, pairs[0], pairs[1], kicker)
	}

	if len(pairs) == 1 {
		kickers := highestNExcluding(rankCounts, 3, pairs[0])
		return pack(OnePair, append([]int{pairs[0]}, kickers...)...)
	}

	highs := descendingRanks(rankBits, 5)
	return pack(HighCard, highs...)
}

// straightHigh returns the high card of a straight found in rankBits, or 0.
// The wheel (A-2-3-4-5) ranks with a five-high straight.
func straightHigh(rankBits uint32) int {
	const wheel = uint32(1<<14 | 1<<5 | 1<<4 | 1<<3 | 1<<2)
	if rankBits&wheel == wheel {
		return 5
	}
	for high := 14; high >= 6; high-- {
		mask := uint32(0x1F) << uint(high-4)
		if rankBits&mask == mask {
			return high
		}
	}
	return 0
}

// descendingRanks returns up to n ranks set in bits, highest first.
func descendingRanks(bits uint32, n int) []int {
	var ranks []int
	for rank := 14; rank >= 2 && len(ranks) < n; rank-- {
		if bits&(1<<uint(rank)) != 0 {
			ranks = append(ranks, rank)
		}
	}
	return ranks
}

// highestExcluding returns the highest single-count rank not in exclude.
func highestExcluding(rankCounts [15]int, exclude ...int) int {
	for rank := 14; rank >= 2; rank-- {
		if rankCounts[rank] != 1 {
			continue
		}
		if contains(exclude, rank) {
			continue
		}
		return rank
	}
	return 0
}

// highestNExcluding returns the n highest single-count ranks not in exclude.
func highestNExcluding(rankCounts [15]int, n int, exclude ...int) []int {
	var kickers []int
	for rank := 14; rank >= 2 && len(kickers) < n; rank-- {
		if rankCounts[rank] != 1 {
			continue
		}
		if contains(exclude, rank) {
			continue
		}
		kickers = append(kickers, rank)
	}
	return kickers
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
