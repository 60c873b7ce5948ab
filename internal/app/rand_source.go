package app

import (
	"math/rand"
	"sync"
)

// lockedSource hands out per-session seeds from one shared generator.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newLockedSource(seed int64) *lockedSource {
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (l *lockedSource) Int63() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Int63()
}
