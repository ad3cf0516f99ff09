package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the source of chance in a game: bag order, turn order and
// game keys. Tests swap in a queue-driven fake.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Shuffle permutes n elements with a Fisher-Yates walk, calling swap
	// for each exchange
	Shuffle(n int, swap func(i, j int))

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// Shuffle permutes n elements
func (r *CryptoRandom) Shuffle(n int, swap func(i, j int)) {
	FisherYates(r, n, swap)
}

// String generates a game key or similar token from the alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}

// FisherYates walks n elements from the back, swapping each with a
// position drawn from rnd.Intn
func FisherYates(rnd interface{ Intn(n int) int }, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		if j := rnd.Intn(i + 1); j != i {
			swap(i, j)
		}
	}
}
