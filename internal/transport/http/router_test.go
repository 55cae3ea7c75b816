package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"opsdeck/internal/infrastructure/cache"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
	"opsdeck/internal/infrastructure/persistence/sqlite/repository"
	"opsdeck/internal/infrastructure/persistence/sqlite/uow"
	"opsdeck/internal/usecase/assets"
	"opsdeck/internal/usecase/dashboard"
	"opsdeck/internal/usecase/kitchen"
	"opsdeck/internal/usecase/scan"
	"opsdeck/internal/usecase/vehicles"
)

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.Asset{},
		&model.Kitchen{},
		&model.FoodSupply{},
		&model.FoodDisposal{},
		&model.FoodRefill{},
		&model.Recipe{},
		&model.Vehicle{},
		&model.Trip{},
		&model.OpsKV{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	requestCache := cache.NewMemory()
	kv := cache.NewSQLiteCache(db)
	assetRepo := repository.NewAssetRepository(db)
	kitchenRepo := repository.NewKitchenRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	assetSvc := assets.NewService(assetRepo, nil, requestCache)
	router := NewRouter(Services{
		Assets:    assetSvc,
		Kitchen:   kitchen.NewService(kitchenRepo, uow.NewUnitOfWork(db), requestCache, nil, kitchen.Config{}),
		Vehicles:  vehicles.NewService(vehicleRepo, kv, requestCache, nil),
		Dashboard: dashboard.NewService(repository.NewDashboardRepository(db), requestCache, dashboard.Config{}),
		Scans:     scan.NewManager(assetSvc, kv, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, db
}

func doRequest(t *testing.T, srv *httptest.Server, method string, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Tenant-ID", "t-1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func TestTenantHeaderRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/assets")
	if err != nil {
		t.Fatalf("GET /api/assets: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without tenant header", resp.StatusCode)
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Message == "" {
		t.Fatalf("error envelope missing message")
	}

	health, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", health.StatusCode)
	}
}

func TestAssetLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodPost, "/api/assets", map[string]any{
		"name": "Espresso machine", "category": "appliance", "floor": "1", "room": "bar",
		"purchasePrice": 2400.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created assetDTO
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created asset: %v", err)
	}
	if created.Barcode == "" {
		t.Fatalf("created asset without barcode: %+v", created)
	}

	resp, body = doRequest(t, srv, http.MethodGet, "/api/assets/scan?q="+created.Barcode, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan status = %d: %s", resp.StatusCode, body)
	}
	var found assetDTO
	if err := json.Unmarshal(body, &found); err != nil {
		t.Fatalf("decode scan result: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("scan resolved %q, want %q", found.ID, created.ID)
	}

	resp, _ = doRequest(t, srv, http.MethodGet, "/api/assets/scan?q=AST-NOPE", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("scan miss status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, http.MethodPost, "/api/assets/"+created.ID+"/move", map[string]any{
		"floor": "2", "room": "storage",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("move status = %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, http.MethodPost, "/api/assets/"+created.ID+"/dispose", map[string]any{
		"reason": "water damage",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("dispose status = %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, srv, http.MethodPost, "/api/assets/"+created.ID+"/dispose", map[string]any{
		"reason": "again",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("repeat dispose status = %d, want 409", resp.StatusCode)
	}
}

func TestTripEndpointsOverHTTP(t *testing.T) {
	srv, db := newTestServer(t)

	if err := db.Create(&model.Vehicle{VehicleID: "v-1", TenantID: "t-1", Name: "Van", Plate: "B-OD-1", CostPerKM: 0.5}).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	resp, body := doRequest(t, srv, http.MethodPost, "/api/vehicles/start-trip", map[string]any{
		"vehicleId": "v-1", "driver": "kim", "purpose": "delivery",
		"startLat": 52.52, "startLng": 13.405,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start-trip status = %d: %s", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, srv, http.MethodPost, "/api/vehicles/start-trip", map[string]any{
		"vehicleId": "v-1", "startLat": 52.52, "startLng": 13.405,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second start-trip status = %d, want 409", resp.StatusCode)
	}

	resp, body = doRequest(t, srv, http.MethodGet, "/api/vehicles/active-trip?vehicleId=v-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("active-trip status = %d: %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, srv, http.MethodPost, "/api/vehicles/end-trip", map[string]any{
		"vehicleId": "v-1", "endLat": 52.53, "endLng": 13.41,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end-trip status = %d: %s", resp.StatusCode, body)
	}
	var ended tripDTO
	if err := json.Unmarshal(body, &ended); err != nil {
		t.Fatalf("decode ended trip: %v", err)
	}
	if ended.Status != "ended" || ended.DistanceKM <= 0 {
		t.Fatalf("ended trip = %+v", ended)
	}

	resp, _ = doRequest(t, srv, http.MethodGet, "/api/vehicles/active-trip?vehicleId=v-1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("active-trip after end status = %d, want 404", resp.StatusCode)
	}
}

func TestFoodSupplyRefillOverHTTP(t *testing.T) {
	srv, db := newTestServer(t)

	if err := db.Create(&model.FoodSupply{
		SupplyID: "s-1", TenantID: "t-1", KitchenID: "k-1", Name: "Rice",
		Quantity: 10, Unit: "kg", CostPerUnit: 2,
	}).Error; err != nil {
		t.Fatalf("seed supply: %v", err)
	}

	resp, body := doRequest(t, srv, http.MethodPost, "/api/food-supply/refill", map[string]any{
		"supplyId": "s-1", "quantity": 5.0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refill status = %d: %s", resp.StatusCode, body)
	}
	var refilled refillResponse
	if err := json.Unmarshal(body, &refilled); err != nil {
		t.Fatalf("decode refill: %v", err)
	}
	if refilled.Supply.Quantity != 15 {
		t.Fatalf("refill quantity = %v", refilled.Supply.Quantity)
	}

	resp, _ = doRequest(t, srv, http.MethodPost, "/api/food-supply/refill", map[string]any{
		"supplyId": "missing", "quantity": 5.0,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("refill unknown supply status = %d, want 404", resp.StatusCode)
	}

	resp, body = doRequest(t, srv, http.MethodGet, "/api/food-supply/notifications", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("notifications status = %d: %s", resp.StatusCode, body)
	}
}

func TestDashboardStatsOverHTTP(t *testing.T) {
	srv, db := newTestServer(t)

	if err := db.Create(&model.Asset{AssetID: "a-1", TenantID: "t-1", Name: "Oven", Barcode: "AST-1", Status: "active"}).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	resp, body := doRequest(t, srv, http.MethodGet, "/api/dashboard/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d: %s", resp.StatusCode, body)
	}
	var stats dashboard.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Assets.Active != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func dialScanFeed(t *testing.T, srv *httptest.Server, device string) (*websocket.Conn, *http.Response) {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/api/scan/ws?device=" + device
	header := http.Header{"X-Tenant-ID": []string{"t-1"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil && resp == nil {
		t.Fatalf("dial scan feed: %v", err)
	}
	return conn, resp
}

func TestScanFeedExclusiveAndLookup(t *testing.T) {
	srv, db := newTestServer(t)

	if err := db.Create(&model.Asset{AssetID: "a-1", TenantID: "t-1", Name: "Oven", Barcode: "AST-1", Status: "active"}).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	conn, _ := dialScanFeed(t, srv, "dock-1")
	if conn == nil {
		t.Fatalf("first dial refused")
	}
	defer conn.Close()

	var hello feedEvent
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.State != "idle" {
		t.Fatalf("hello state = %q", hello.State)
	}

	// The device is busy for a second connection.
	second, resp := dialScanFeed(t, srv, "dock-1")
	if second != nil {
		second.Close()
		t.Fatalf("second dial succeeded, want exclusive session")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Fatalf("second dial response = %+v, want 409", resp)
	}

	if err := conn.WriteJSON(feedMessage{Action: "scan", Code: "ast-1"}); err != nil {
		t.Fatalf("write scan: %v", err)
	}
	var found feedEvent
	if err := conn.ReadJSON(&found); err != nil {
		t.Fatalf("read scan result: %v", err)
	}
	if found.State != "found" || found.Asset == nil || found.Asset.ID != "a-1" {
		t.Fatalf("scan result = %+v", found)
	}

	if err := conn.WriteJSON(feedMessage{Action: "openPanel", Panel: "details"}); err != nil {
		t.Fatalf("write openPanel: %v", err)
	}
	var panel feedEvent
	if err := conn.ReadJSON(&panel); err != nil {
		t.Fatalf("read panel event: %v", err)
	}
	if panel.Panel != "details" {
		t.Fatalf("panel event = %+v", panel)
	}
}
