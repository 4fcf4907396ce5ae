package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RollFunc draws a uniform number in [0, n). The engine takes it as a
// dependency so tests can fix the outcome.
type RollFunc func(n int) (int, error)

// CryptoRoll draws from crypto/rand. rand.Int performs rejection sampling,
// so all n outcomes are equiprobable; never replace this with a
// time-seeded generator.
func CryptoRoll(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("draw: %w", err)
	}
	return int(v.Int64()), nil
}
