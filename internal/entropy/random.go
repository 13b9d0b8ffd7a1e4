// Package entropy provides the random sources behind daily demand variance,
// the economic climate and stock prices. Sources are injected so that a game
// can be replayed from its seed and tests can pin every roll.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"sync"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float() float64
}

// DayAware sources are told which day is about to be settled before any roll
// for that day is drawn.
type DayAware interface {
	Begin(day uint32)
}

// Daily derives an independent deterministic stream for every simulated day.
// A game restored from disk therefore rolls exactly what an uninterrupted game
// would have rolled, without persisting generator state.
type Daily struct {
	seed int64

	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewDaily creates a day-keyed source for the given game seed.
func NewDaily(seed int64) *Daily {
	d := &Daily{seed: seed}
	d.Begin(0)
	return d
}

// Seed returns the game seed the source was created with.
func (d *Daily) Seed() int64 {
	return d.seed
}

// Begin reseeds the stream for the given day.
func (d *Daily) Begin(day uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rng = mathrand.New(mathrand.NewSource(DaySeed(d.seed, day)))
}

// Float returns the next value of the current day's stream.
func (d *Daily) Float() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64()
}

// DaySeed mixes a game seed with a day number (splitmix64 finaliser).
func DaySeed(seed int64, day uint32) int64 {
	z := uint64(seed) + uint64(day)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// Fixed always returns the same value. Useful to pin variance in tests.
type Fixed float64

// Float returns the fixed value.
func (f Fixed) Float() float64 {
	return float64(f)
}

// Sequence replays a list of values, wrapping around at the end.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence. With no values it behaves like Fixed(0.5).
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Sequence{values: values}
}

// Float returns the next value in the sequence.
func (s *Sequence) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Drawn returns how many values have been consumed.
func (s *Sequence) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// NewSeed returns a fresh non-zero game seed from crypto/rand.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 42
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Signed maps a [0, 1) roll onto [-1, 1).
func Signed(s Source) float64 {
	return s.Float()*2 - 1
}
