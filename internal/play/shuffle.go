package play

import (
	"math/rand"
	"time"
)

// Shuffle returns a uniformly random permutation of in, leaving in untouched.
// A nil rnd falls back to a time-seeded source.
func Shuffle[T any](rnd *rand.Rand, in []T) []T {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
