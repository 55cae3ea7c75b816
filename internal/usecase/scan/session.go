package scan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/domain/asset"
	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

// State is the scan session lifecycle. A session starts idle, enters
// searching when a code is submitted, and settles on found or notFound.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateFound     State = "found"
	StateNotFound  State = "notFound"
)

// Panel names a detail view that can be opened on a found asset.
type Panel string

const (
	PanelNone     Panel = ""
	PanelDetails  Panel = "details"
	PanelTransfer Panel = "transfer"
	PanelStatus   Panel = "status"
	PanelDispose  Panel = "dispose"
)

var (
	ErrSuperseded   = errors.New("lookup superseded by a newer scan")
	ErrIllegalState = errors.New("operation not allowed in current state")
	ErrUnknownPanel = errors.New("unknown panel")
	ErrCodeRequired = errors.New("code is required")
)

const lookupCacheTTL = 60 * time.Second

var validPanels = map[Panel]bool{
	PanelDetails:  true,
	PanelTransfer: true,
	PanelStatus:   true,
	PanelDispose:  true,
}

// Lookuper resolves a scanned code to an asset.
type Lookuper interface {
	Lookup(ctx context.Context, tenantID string, code string) (ports.AssetRecord, error)
}

type cachedLookup struct {
	record   ports.AssetRecord
	storedAt time.Time
}

// Session is one device's scan workflow. Submissions supersede each other:
// a newer code cancels the lookup of the previous one, and a cancelled
// lookup performs no state transition, so the last submission always wins.
// Successful lookups are remembered per code for a short window so
// rescanning the same label does not hit the repository again.
type Session struct {
	tenantID string
	deviceID string
	lookup   Lookuper
	kv       ports.KVCache

	mu      sync.Mutex
	state   State
	panel   Panel
	result  ports.AssetRecord
	recent  map[string]cachedLookup
	gen     uint64
	cancel  context.CancelFunc

	now func() time.Time
}

func NewSession(tenantID string, deviceID string, lookup Lookuper, kv ports.KVCache) *Session {
	return &Session{
		tenantID: tenantID,
		deviceID: deviceID,
		lookup:   lookup,
		kv:       kv,
		state:    StateIdle,
		recent:   make(map[string]cachedLookup),
		now:      time.Now,
	}
}

func (s *Session) DeviceID() string { return s.deviceID }

// Snapshot reports the current state, open panel and last found asset.
func (s *Session) Snapshot() (State, Panel, ports.AssetRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.panel, s.result
}

// Submit resolves a scanned code and moves the session to found or
// notFound. Calling Submit again while a lookup is in flight cancels the
// older lookup; the older call returns ErrSuperseded without touching
// session state.
func (s *Session) Submit(ctx context.Context, code string) (State, error) {
	if ctx == nil {
		return StateIdle, errors.New("context is required")
	}

	normalized := asset.NormalizeCode(code)
	if normalized == "" {
		return s.state, ErrCodeRequired
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	lookupCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	myGen := s.gen
	s.state = StateSearching
	s.panel = PanelNone

	if hit, ok := s.recent[normalized]; ok && s.now().Sub(hit.storedAt) < lookupCacheTTL {
		s.state = StateFound
		s.result = hit.record
		s.mu.Unlock()
		cancel()
		return StateFound, nil
	}
	s.mu.Unlock()

	record, err := s.lookup.Lookup(lookupCtx, s.tenantID, normalized)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != myGen {
		return s.state, ErrSuperseded
	}
	s.cancel = nil
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return s.state, ErrSuperseded
		}
		if errors.Is(err, ports.ErrAssetNotFound) {
			// Misses are never cached; the label may be registered moments later.
			s.state = StateNotFound
			s.result = ports.AssetRecord{}
			return StateNotFound, nil
		}
		s.state = StateIdle
		return StateIdle, errs.Wrap(err, "scan lookup")
	}

	s.state = StateFound
	s.result = record
	s.recent[normalized] = cachedLookup{record: record, storedAt: s.now()}
	s.rememberLastScan(ctx, normalized, record)
	return StateFound, nil
}

// ScanAgain returns a settled session to idle so the next code can be read.
func (s *Session) ScanAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFound && s.state != StateNotFound {
		return ErrIllegalState
	}
	s.state = StateIdle
	s.panel = PanelNone
	s.result = ports.AssetRecord{}
	return nil
}

// OpenPanel opens a detail view on the found asset.
func (s *Session) OpenPanel(panel Panel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !validPanels[panel] {
		return ErrUnknownPanel
	}
	if s.state != StateFound {
		return ErrIllegalState
	}
	s.panel = panel
	return nil
}

// ClosePanel returns from an open panel to the found view.
func (s *Session) ClosePanel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFound || s.panel == PanelNone {
		return ErrIllegalState
	}
	s.panel = PanelNone
	return nil
}

// Close cancels any in-flight lookup. The session is unusable afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

type lastScan struct {
	Code    string `json:"code"`
	AssetID string `json:"assetId"`
	At      string `json:"at"`
}

func (s *Session) rememberLastScan(ctx context.Context, code string, record ports.AssetRecord) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(lastScan{
		Code:    code,
		AssetID: record.AssetID,
		At:      s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, "device_last_scan:"+s.deviceID, string(data), 0); err != nil {
		logging.Warn(ctx, "store last scan failed",
			slog.String("device", s.deviceID), slog.Any("err", errs.Loggable(err)))
	}
}
