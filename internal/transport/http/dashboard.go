package http

import (
	"net/http"

	"opsdeck/internal/usecase/dashboard"
)

type dashboardHandlers struct {
	svc *dashboard.Service
}

func (h dashboardHandlers) stats(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	stats, err := h.svc.Stats(r.Context(), TenantFromContext(r.Context()), force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h dashboardHandlers) totalSpent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	spent, err := h.svc.Spent(r.Context(), TenantFromContext(r.Context()), query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spent)
}
