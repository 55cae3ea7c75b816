package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsdeck/internal/ports"
	"opsdeck/internal/usecase/kitchen"
)

type kitchenHandlers struct {
	svc *kitchen.Service
}

func (h kitchenHandlers) listSupplies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	records, err := h.svc.ListSupplies(r.Context(), kitchen.SupplyQuery{
		TenantID:     TenantFromContext(r.Context()),
		KitchenID:    query.Get("kitchenId"),
		ExpiringSoon: query.Get("expiringSoon") == "true",
		LowStock:     query.Get("lowStock") == "true",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyDTOs(records))
}

func (h kitchenHandlers) listDisposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	records, err := h.svc.ListDisposals(r.Context(), TenantFromContext(r.Context()), ports.DisposalFilter{
		KitchenID: query.Get("kitchenId"),
		From:      query.Get("from"),
		To:        query.Get("to"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDisposalDTOs(records))
}

func (h kitchenHandlers) notifications(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Notifications(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type refillRequest struct {
	SupplyID  string  `json:"supplyId"`
	Quantity  float64 `json:"quantity"`
	ExpiresAt string  `json:"expiresAt"`
}

type refillResponse struct {
	Supply           supplyDTO `json:"supply"`
	DisposedQuantity float64   `json:"disposedQuantity"`
	DisposalCost     float64   `json:"disposalCost"`
}

func (h kitchenHandlers) refill(w http.ResponseWriter, r *http.Request) {
	var req refillRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Refill(r.Context(), kitchen.RefillInput{
		TenantID:  TenantFromContext(r.Context()),
		SupplyID:  req.SupplyID,
		Quantity:  req.Quantity,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refillResponse{
		Supply:           toSupplyDTO(result.Supply),
		DisposedQuantity: result.DisposedQuantity,
		DisposalCost:     result.DisposalCost,
	})
}

type disposeSupplyRequest struct {
	SupplyID string  `json:"supplyId"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason"`
}

func (h kitchenHandlers) disposeSupply(w http.ResponseWriter, r *http.Request) {
	var req disposeSupplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	disposal, err := h.svc.DisposeSupply(r.Context(), kitchen.DisposeSupplyInput{
		TenantID: TenantFromContext(r.Context()),
		SupplyID: req.SupplyID,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDisposalDTO(disposal))
}

func (h kitchenHandlers) listKitchens(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListKitchens(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toKitchenDTOs(records))
}

type bundleResponse struct {
	Supplies []supplyDTO `json:"supplies"`
	Recipes  []recipeDTO `json:"recipes"`
}

func (h kitchenHandlers) bundle(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	bundle, err := h.svc.Bundle(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "kitchenID"), force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundleResponse{
		Supplies: toSupplyDTOs(bundle.Supplies),
		Recipes:  toRecipeDTOs(bundle.Recipes),
	})
}

func (h kitchenHandlers) listRecipes(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListRecipes(r.Context(), TenantFromContext(r.Context()), r.URL.Query().Get("kitchenId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeDTOs(records))
}
