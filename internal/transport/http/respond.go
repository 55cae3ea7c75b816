package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/domain/asset"
	"opsdeck/internal/domain/kitchen"
	"opsdeck/internal/domain/trip"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
	"opsdeck/internal/usecase/scan"
	"opsdeck/internal/usecase/vehicles"
)

type errorBody struct {
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message}})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		writeErrorMessage(w, status, "internal error")
		return
	}
	writeErrorMessage(w, status, err.Error())
}

var notFoundErrors = []error{
	ports.ErrAssetNotFound,
	ports.ErrKitchenNotFound,
	ports.ErrSupplyNotFound,
	ports.ErrVehicleNotFound,
	ports.ErrTripNotFound,
	ports.ErrNoActiveTrip,
	scan.ErrUnknownDevice,
}

var conflictErrors = []error{
	vehicles.ErrTripInProgress,
	asset.ErrAlreadyDisposed,
	asset.ErrStatusTransition,
	trip.ErrTripAlreadyEnded,
	scan.ErrDeviceBusy,
}

var badRequestErrors = []error{
	asset.ErrInvalidStatus,
	asset.ErrNameRequired,
	asset.ErrNegativePurchase,
	asset.ErrDisposalReason,
	asset.ErrLocationIncomplete,
	kitchen.ErrInvalidReason,
	kitchen.ErrInvalidQuantity,
	kitchen.ErrSupplyNameNeeded,
	trip.ErrInvalidCoordinate,
	scan.ErrCodeRequired,
}

func statusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
