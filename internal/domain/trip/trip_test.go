package trip

import (
	"errors"
	"math"
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(52.52, 13.405); err != nil {
		t.Fatalf("ValidateCoordinate() error = %v", err)
	}
	if err := ValidateCoordinate(91, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("ValidateCoordinate(lat=91) error = %v", err)
	}
	if err := ValidateCoordinate(0, -181); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("ValidateCoordinate(lng=-181) error = %v", err)
	}
}

func TestHaversine(t *testing.T) {
	// Berlin -> Munich, roughly 504 km.
	got := Haversine(52.5200, 13.4050, 48.1351, 11.5820)
	if math.Abs(got-504) > 5 {
		t.Fatalf("Haversine(Berlin, Munich) = %v km", got)
	}

	if got := Haversine(48.0, 11.0, 48.0, 11.0); got != 0 {
		t.Fatalf("Haversine(same point) = %v", got)
	}
}

func TestCost(t *testing.T) {
	if got := Cost(12.345, 0.5); got != 6.17 {
		t.Fatalf("Cost() = %v", got)
	}
	if got := Cost(0, 0.5); got != 0 {
		t.Fatalf("Cost(zero distance) = %v", got)
	}
}
