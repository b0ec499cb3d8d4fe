// Package randutil seeds reproducible math/rand/v2 generators for test
// decks and the demo harness. The engine itself never draws randomness;
// card order belongs to the host.
package randutil

import rand "math/rand/v2"

// New returns a generator whose sequence is fully determined by seed. The
// two 64-bit words PCG wants are expanded from the single seed by chained
// splitmix64 steps, so nearby seeds still produce uncorrelated streams.
func New(seed int64) *rand.Rand {
	a := splitmix64(uint64(seed))
	return rand.New(rand.NewPCG(a, splitmix64(a)))
}

// splitmix64 is the standard seed-expansion step: a golden-ratio increment
// followed by two xor-shift multiplications.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
