package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusDisposed    = "disposed"
)

var (
	ErrInvalidStatus      = errors.New("invalid asset status")
	ErrStatusTransition   = errors.New("status transition not allowed")
	ErrAlreadyDisposed    = errors.New("asset already disposed")
	ErrNameRequired       = errors.New("asset name is required")
	ErrNegativePurchase   = errors.New("purchase price must not be negative")
	ErrDisposalReason     = errors.New("disposal reason is required")
	ErrLocationIncomplete = errors.New("both floor and room are required")
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusMaintenance, StatusDisposed:
		return true
	}
	return false
}

// CheckTransition enforces the status lifecycle: active and maintenance move
// freely between each other, disposed is terminal and only reachable through
// the dispose operation.
func CheckTransition(from string, to string) error {
	if !ValidStatus(from) || !ValidStatus(to) {
		return ErrInvalidStatus
	}
	if from == StatusDisposed {
		return ErrAlreadyDisposed
	}
	if to == StatusDisposed {
		return fmt.Errorf("%w: use dispose to retire an asset", ErrStatusTransition)
	}
	return nil
}

// NormalizeCode canonicalizes a scanned or typed code before lookup so the
// same physical label always yields the same cache key.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateBarcode produces a new printable asset code.
func GenerateBarcode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AST-" + strings.ToUpper(raw[:12])
}

type NewAsset struct {
	Name          string
	Category      string
	Floor         string
	Room          string
	PurchasePrice float64
}

func ValidateNew(input NewAsset) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.PurchasePrice < 0 {
		return ErrNegativePurchase
	}
	return nil
}

func ValidateMove(floor string, room string) error {
	if strings.TrimSpace(floor) == "" || strings.TrimSpace(room) == "" {
		return ErrLocationIncomplete
	}
	return nil
}

func ValidateDisposal(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrDisposalReason
	}
	return nil
}
