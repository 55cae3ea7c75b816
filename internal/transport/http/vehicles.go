package http

import (
	"net/http"

	"opsdeck/internal/usecase/vehicles"
)

type vehicleHandlers struct {
	svc *vehicles.Service
}

type startTripRequest struct {
	VehicleID string  `json:"vehicleId"`
	Driver    string  `json:"driver"`
	Purpose   string  `json:"purpose"`
	StartLat  float64 `json:"startLat"`
	StartLng  float64 `json:"startLng"`
}

func (h vehicleHandlers) startTrip(w http.ResponseWriter, r *http.Request) {
	var req startTripRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.StartTrip(r.Context(), vehicles.StartTripInput{
		TenantID:  TenantFromContext(r.Context()),
		VehicleID: req.VehicleID,
		Driver:    req.Driver,
		Purpose:   req.Purpose,
		StartLat:  req.StartLat,
		StartLng:  req.StartLng,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(record))
}

type endTripRequest struct {
	VehicleID string  `json:"vehicleId"`
	EndLat    float64 `json:"endLat"`
	EndLng    float64 `json:"endLng"`
}

func (h vehicleHandlers) endTrip(w http.ResponseWriter, r *http.Request) {
	var req endTripRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.EndTrip(r.Context(), vehicles.EndTripInput{
		TenantID:  TenantFromContext(r.Context()),
		VehicleID: req.VehicleID,
		EndLat:    req.EndLat,
		EndLng:    req.EndLng,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(record))
}

func (h vehicleHandlers) activeTrip(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.URL.Query().Get("vehicleId")
	if vehicleID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "query parameter vehicleId is required")
		return
	}

	record, err := h.svc.ActiveTrip(r.Context(), TenantFromContext(r.Context()), vehicleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(record))
}

type setTripEndpointRequest struct {
	TripID string  `json:"tripId"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

func (h vehicleHandlers) setTripEndpoint(w http.ResponseWriter, r *http.Request) {
	var req setTripEndpointRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.SetTripEndpoint(r.Context(), TenantFromContext(r.Context()), req.TripID, vehicles.TripEndpoint{
		Lat: req.Lat,
		Lng: req.Lng,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h vehicleHandlers) tripEndpoint(w http.ResponseWriter, r *http.Request) {
	tripID := r.URL.Query().Get("tripId")
	if tripID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "query parameter tripId is required")
		return
	}

	endpoint, found, err := h.svc.TripEndpoint(r.Context(), TenantFromContext(r.Context()), tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeErrorMessage(w, http.StatusNotFound, "no endpoint draft for trip")
		return
	}
	writeJSON(w, http.StatusOK, endpoint)
}
