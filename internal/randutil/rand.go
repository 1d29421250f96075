// Package randutil turns configured seeds into math/rand/v2 generators.
// Every RNG in the process comes through here: one table seed fans out into
// reproducible, independent streams for the deck shuffle and each NPC.
package randutil

import rand "math/rand/v2"

// Weyl increment, 2^64 divided by the golden ratio. Keeps the two PCG seed
// words apart even for a zero seed.
const increment = 0x9e3779b97f4a7c15

// New returns the generator for a seed's primary stream.
func New(seed int64) *rand.Rand {
	return Derive(seed, 0)
}

// Derive returns the generator for one numbered stream of a seed. Stream 0
// is the primary; distinct streams of the same seed do not overlap, so a
// table can hand each NPC its own generator without disturbing the deck.
func Derive(seed int64, stream uint64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(finalize(u^finalize(stream)), finalize(u+increment+stream)))
}

// finalize is the splitmix64 finalizer. It spreads the low-entropy seeds
// humans actually configure (0, 1, 42) over the full 64-bit space.
func finalize(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
