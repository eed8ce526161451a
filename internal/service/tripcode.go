package service

import (
	"crypto/rand"
	"math/big"

	"github.com/pkordes/trip-planner/internal/domain"
)

// CodeGenerator produces a candidate trip code. Uniqueness is not its concern:
// the database constraint decides, and TripService.Create retries on conflict.
type CodeGenerator func() (string, error)

// MaxTripCodeAttempts bounds how many codes TripService.Create tries before
// giving up.
const MaxTripCodeAttempts = 16

// NewTripCode returns TripCodeLength characters drawn uniformly from
// TripCodeAlphabet using crypto/rand.
func NewTripCode() (string, error) {
	n := big.NewInt(int64(len(domain.TripCodeAlphabet)))
	code := make([]byte, domain.TripCodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		code[i] = domain.TripCodeAlphabet[num.Int64()]
	}
	return string(code), nil
}
