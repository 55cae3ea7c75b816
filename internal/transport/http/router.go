package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsdeck/internal/usecase/assets"
	"opsdeck/internal/usecase/dashboard"
	"opsdeck/internal/usecase/kitchen"
	"opsdeck/internal/usecase/scan"
	"opsdeck/internal/usecase/vehicles"
)

// Services bundles the usecases the router exposes.
type Services struct {
	Assets    *assets.Service
	Kitchen   *kitchen.Service
	Vehicles  *vehicles.Service
	Dashboard *dashboard.Service
	Scans     *scan.Manager
}

func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, requestLogger, recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(tenantRequired)

		api.Route("/assets", func(ar chi.Router) {
			h := assetHandlers{svc: svc.Assets}
			ar.Get("/scan", h.lookup)
			ar.Get("/", h.list)
			ar.Post("/", h.create)
			ar.Post("/generate-barcode", h.generateBarcode)
			ar.Route("/{assetID}", func(one chi.Router) {
				one.Get("/", h.get)
				one.Patch("/", h.update)
				one.Post("/move", h.move)
				one.Post("/dispose", h.dispose)
			})
		})

		api.Route("/food-supply", func(fr chi.Router) {
			h := kitchenHandlers{svc: svc.Kitchen}
			fr.Get("/", h.listSupplies)
			fr.Get("/disposals", h.listDisposals)
			fr.Get("/notifications", h.notifications)
			fr.Post("/refill", h.refill)
			fr.Post("/dispose", h.disposeSupply)
		})

		api.Route("/kitchens", func(kr chi.Router) {
			h := kitchenHandlers{svc: svc.Kitchen}
			kr.Get("/", h.listKitchens)
			kr.Get("/{kitchenID}/bundle", h.bundle)
		})

		api.Get("/recipes", kitchenHandlers{svc: svc.Kitchen}.listRecipes)

		api.Route("/vehicles", func(vr chi.Router) {
			h := vehicleHandlers{svc: svc.Vehicles}
			vr.Post("/start-trip", h.startTrip)
			vr.Post("/end-trip", h.endTrip)
			vr.Get("/active-trip", h.activeTrip)
			vr.Post("/set-trip-endpoint", h.setTripEndpoint)
			vr.Get("/trip-endpoint", h.tripEndpoint)
		})

		api.Route("/dashboard", func(dr chi.Router) {
			h := dashboardHandlers{svc: svc.Dashboard}
			dr.Get("/stats", h.stats)
			dr.Get("/total-spent", h.totalSpent)
		})

		if svc.Scans != nil {
			api.Get("/scan/ws", scanFeedHandler{manager: svc.Scans}.serve)
		}
	})

	return r
}
