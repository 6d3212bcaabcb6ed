package chess

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrNoCandidates = errors.New("no candidate moves to choose from")

// MoveSelector picks one move out of a non-empty candidate list.
type MoveSelector interface {
	Select(candidates []Move) (Move, error)
}

// SelectorFunc adapts a plain function to MoveSelector.
type SelectorFunc func(candidates []Move) (Move, error)

func (f SelectorFunc) Select(candidates []Move) (Move, error) { return f(candidates) }

// RandomSelector draws uniformly. Safe for concurrent use.
type RandomSelector struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandomSelector seeds from seed, or from the clock when seed is 0.
func NewRandomSelector(seed int64) *RandomSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSelector{rand: rand.New(rand.NewSource(seed))}
}

func (s *RandomSelector) SetRandomSeed(seed int64) {
	s.mu.Lock()
	s.rand = rand.New(rand.NewSource(seed))
	s.mu.Unlock()
}

func (s *RandomSelector) Select(candidates []Move) (Move, error) {
	if len(candidates) == 0 {
		return Move{}, ErrNoCandidates
	}
	s.mu.Lock()
	idx := s.rand.Intn(len(candidates))
	s.mu.Unlock()
	return candidates[idx], nil
}

// FirstSelector always takes the first candidate.
var FirstSelector = SelectorFunc(func(candidates []Move) (Move, error) {
	if len(candidates) == 0 {
		return Move{}, ErrNoCandidates
	}
	return candidates[0], nil
})
