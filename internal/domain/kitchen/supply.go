package kitchen

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	ReasonExpired = "expired"
	ReasonDamaged = "damaged"
	ReasonSpoiled = "spoiled"
	ReasonOther   = "other"
)

// DefaultExpiryWindow is how far ahead the expiring-soon filters and
// notifications look.
const DefaultExpiryWindow = 72 * time.Hour

var (
	ErrInvalidReason    = errors.New("invalid disposal reason")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrSupplyNameNeeded = errors.New("supply name is required")
)

func ValidReason(reason string) bool {
	switch reason {
	case ReasonExpired, ReasonDamaged, ReasonSpoiled, ReasonOther:
		return true
	}
	return false
}

func ValidateDisposal(reason string, quantity float64) error {
	if !ValidReason(reason) {
		return ErrInvalidReason
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func ValidateNewSupply(name string, quantity float64) error {
	if strings.TrimSpace(name) == "" {
		return ErrSupplyNameNeeded
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// IsExpired reports whether a supply's expiry timestamp has passed.
// A zero expiry means the supply does not expire.
func IsExpired(expiresAt time.Time, now time.Time) bool {
	return !expiresAt.IsZero() && !expiresAt.After(now)
}

func IsExpiringSoon(expiresAt time.Time, now time.Time, window time.Duration) bool {
	if expiresAt.IsZero() {
		return false
	}
	return expiresAt.Before(now.Add(window))
}

func IsLowStock(quantity float64, minQuantity float64) bool {
	return minQuantity > 0 && quantity <= minQuantity
}

// ExpiredRemainder is the stock that must be written off during a refill:
// the full on-hand quantity when the supply has passed its expiry, zero
// otherwise.
func ExpiredRemainder(quantity float64, expiresAt time.Time, now time.Time) float64 {
	if quantity <= 0 || !IsExpired(expiresAt, now) {
		return 0
	}
	return quantity
}

// DisposalCost rounds to cents to keep aggregate spend figures stable.
func DisposalCost(quantity float64, costPerUnit float64) float64 {
	return math.Round(quantity*costPerUnit*100) / 100
}
