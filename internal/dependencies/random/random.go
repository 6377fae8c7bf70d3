package random

import (
	"math/rand/v2"
	"strings"
)

// Random provides the choices behind generated demo data
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// Source implements Random over a PCG generator
type Source struct {
	rng *rand.Rand
}

// New creates a Source seeded from the runtime's entropy
func New() *Source {
	return NewSeeded(rand.Uint64())
}

// NewSeeded creates a Source that repeats the same sequence for the same seed
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns an int in [0, n), or 0 when n is not positive
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// String draws length bytes from alphabet
func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(alphabet[s.Intn(len(alphabet))])
	}
	return b.String()
}
