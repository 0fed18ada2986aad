package random

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Random is the randomness source for question draws, dice rolls and
// session identifiers
type Random interface {
	// Intn returns a uniformly distributed int in [0, n)
	Intn(n int) int

	// NewID returns a fresh opaque identifier
	NewID() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		return 0
	}
	return int(result.Int64())
}

func (r *CryptoRandom) NewID() string {
	return uuid.NewString()
}
