package kitchen

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDisposal(t *testing.T) {
	if err := ValidateDisposal(ReasonExpired, 2.5); err != nil {
		t.Fatalf("ValidateDisposal() error = %v", err)
	}
	if err := ValidateDisposal("melted", 1); !errors.Is(err, ErrInvalidReason) {
		t.Fatalf("ValidateDisposal(bad reason) error = %v", err)
	}
	if err := ValidateDisposal(ReasonDamaged, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("ValidateDisposal(zero quantity) error = %v", err)
	}
}

func TestExpiryChecks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if !IsExpired(now.Add(-time.Hour), now) {
		t.Fatalf("IsExpired(past) = false")
	}
	if IsExpired(now.Add(time.Hour), now) {
		t.Fatalf("IsExpired(future) = true")
	}
	if IsExpired(time.Time{}, now) {
		t.Fatalf("IsExpired(zero) = true, non-perishable must not expire")
	}

	if !IsExpiringSoon(now.Add(24*time.Hour), now, DefaultExpiryWindow) {
		t.Fatalf("IsExpiringSoon(24h ahead) = false")
	}
	if IsExpiringSoon(now.Add(96*time.Hour), now, DefaultExpiryWindow) {
		t.Fatalf("IsExpiringSoon(96h ahead) = true")
	}
}

func TestIsLowStock(t *testing.T) {
	if !IsLowStock(2, 5) {
		t.Fatalf("IsLowStock(2, 5) = false")
	}
	if IsLowStock(10, 5) {
		t.Fatalf("IsLowStock(10, 5) = true")
	}
	if IsLowStock(0, 0) {
		t.Fatalf("IsLowStock with no threshold = true")
	}
}

func TestExpiredRemainder(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := ExpiredRemainder(4, now.Add(-time.Hour), now); got != 4 {
		t.Fatalf("ExpiredRemainder(expired) = %v", got)
	}
	if got := ExpiredRemainder(4, now.Add(time.Hour), now); got != 0 {
		t.Fatalf("ExpiredRemainder(fresh) = %v", got)
	}
	if got := ExpiredRemainder(0, now.Add(-time.Hour), now); got != 0 {
		t.Fatalf("ExpiredRemainder(empty) = %v", got)
	}
}

func TestDisposalCost(t *testing.T) {
	if got := DisposalCost(2.5, 1.333); got != 3.33 {
		t.Fatalf("DisposalCost() = %v", got)
	}
}
