package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsdeck/internal/domain/asset"
	"opsdeck/internal/ports"
	"opsdeck/internal/usecase/assets"
)

type assetHandlers struct {
	svc *assets.Service
}

func (h assetHandlers) lookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("q")
	if code == "" {
		writeErrorMessage(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	record, err := h.svc.Lookup(r.Context(), TenantFromContext(r.Context()), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(record))
}

func (h assetHandlers) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	records, err := h.svc.List(r.Context(), ports.AssetFilter{
		TenantID: TenantFromContext(r.Context()),
		Search:   query.Get("search"),
		Status:   query.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTOs(records))
}

type createAssetRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Floor         string  `json:"floor"`
	Room          string  `json:"room"`
	Barcode       string  `json:"barcode"`
	PurchasePrice float64 `json:"purchasePrice"`
}

func (h assetHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Create(r.Context(), assets.CreateAssetInput{
		TenantID:      TenantFromContext(r.Context()),
		Name:          req.Name,
		Category:      req.Category,
		Floor:         req.Floor,
		Room:          req.Room,
		Barcode:       req.Barcode,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(record))
}

func (h assetHandlers) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.Get(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assetID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(record))
}

type updateAssetRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Status        *string  `json:"status"`
	Floor         *string  `json:"floor"`
	Room          *string  `json:"room"`
	PurchasePrice *float64 `json:"purchasePrice"`
}

func (h assetHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Update(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assetID"), assets.UpdateAssetInput{
		Name:          req.Name,
		Category:      req.Category,
		Status:        req.Status,
		Floor:         req.Floor,
		Room:          req.Room,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(record))
}

type moveAssetRequest struct {
	Floor string `json:"floor"`
	Room  string `json:"room"`
}

func (h assetHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Move(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assetID"), req.Floor, req.Room); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type disposeAssetRequest struct {
	Reason string `json:"reason"`
}

func (h assetHandlers) dispose(w http.ResponseWriter, r *http.Request) {
	var req disposeAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Dispose(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assetID"), req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h assetHandlers) generateBarcode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"barcode": asset.GenerateBarcode()})
}
