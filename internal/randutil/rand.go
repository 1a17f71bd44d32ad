// Package randutil centralises how RNGs are seeded so that every call site
// gets reproducible sequences from a single int64 seed.
package randutil

import (
	rand "math/rand/v2"

	"github.com/google/uuid"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2's PCG wants two 64-bit seeds; both are derived here so shuffles
// replay identically for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForHand derives a deterministic RNG for one deal from the game id and the
// hand serial. Retrying the deal of the same hand after a crash produces the
// same shuffle.
func ForHand(gameID uuid.UUID, serial int) *rand.Rand {
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(gameID[i]^gameID[i+8])
	}
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64*uint64(serial+1))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
