package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/partygames/internal/dependencies/random"
)

// MockRandom replays queued values. Once a queue runs dry Intn returns 0
// and NewID returns sequential "id-N" values.
type MockRandom struct {
	mu sync.Mutex

	intn    []int
	ids     []string
	idCount int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued value reduced into [0, n)
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.intn) == 0 || n <= 0 {
		return 0
	}
	v := r.intn[0]
	r.intn = r.intn[1:]
	return v % n
}

func (r *MockRandom) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) > 0 {
		id := r.ids[0]
		r.ids = r.ids[1:]
		return id
	}
	r.idCount++
	return fmt.Sprintf("id-%d", r.idCount)
}

// QueueIntn adds values to the Intn queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intn = append(r.intn, values...)
}

// QueueID adds values to the NewID queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, values...)
}

// Reset clears all queues
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intn = nil
	r.ids = nil
	r.idCount = 0
}
