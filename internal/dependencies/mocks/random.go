package mocks

import (
	"github.com/mcoot/bakery2048/internal/dependencies/random"
)

// MockRandom replays queued values. With nothing queued it behaves as if
// every draw came out lowest: Intn returns 0 and String returns "".
type MockRandom struct {
	ints    []int
	strings []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates an empty MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued value, wrapped into [0, n)
func (r *MockRandom) Intn(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// String returns the next queued string whatever the requested length
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		return ""
	}
	s := r.strings[0]
	r.strings = r.strings[1:]
	return s
}

// QueueIntn appends values for Intn to return
func (r *MockRandom) QueueIntn(values ...int) {
	r.ints = append(r.ints, values...)
}

// QueueString appends values for String to return
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}

// Pending reports how many queued values have not been drawn yet
func (r *MockRandom) Pending() int {
	return len(r.ints) + len(r.strings)
}
