package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/errs"
	"opsdeck/internal/usecase/scan"
)

type scanFeedHandler struct {
	manager *scan.Manager
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Scanner devices connect directly, not from a browser page.
	CheckOrigin: func(*http.Request) bool { return true },
}

type feedMessage struct {
	Action string `json:"action"`
	Code   string `json:"code,omitempty"`
	Panel  string `json:"panel,omitempty"`
}

type feedEvent struct {
	State string    `json:"state"`
	Panel string    `json:"panel,omitempty"`
	Asset *assetDTO `json:"asset,omitempty"`
	Error string    `json:"error,omitempty"`
}

// serve runs one scan session over a websocket. A device id owns at most
// one live connection; the session is released when the connection drops.
// Scan submissions run on their own goroutine so a fresh scan can cancel
// the lookup of the previous one mid-flight.
func (h scanFeedHandler) serve(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device")
	if deviceID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "query parameter device is required")
		return
	}

	session, err := h.manager.Acquire(TenantFromContext(r.Context()), deviceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer h.manager.Release(session)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(r.Context(), "websocket upgrade failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan feedEvent, 16)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				if err := conn.WriteJSON(event); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	h.pushSnapshot(ctx, events, session, nil)

	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn(ctx, "scan feed closed unexpectedly",
					slog.String("device", deviceID), slog.Any("err", errs.Loggable(err)))
			}
			return
		}

		switch msg.Action {
		case "scan":
			go func(code string) {
				if _, err := session.Submit(ctx, code); err != nil {
					if errors.Is(err, scan.ErrSuperseded) || errors.Is(err, context.Canceled) {
						return
					}
					h.pushSnapshot(ctx, events, session, err)
					return
				}
				h.pushSnapshot(ctx, events, session, nil)
			}(msg.Code)
		case "scanAgain":
			h.pushSnapshot(ctx, events, session, session.ScanAgain())
		case "openPanel":
			h.pushSnapshot(ctx, events, session, session.OpenPanel(scan.Panel(msg.Panel)))
		case "closePanel":
			h.pushSnapshot(ctx, events, session, session.ClosePanel())
		default:
			h.pushSnapshot(ctx, events, session, errors.New("unknown action"))
		}
	}
}

func (h scanFeedHandler) pushSnapshot(ctx context.Context, events chan<- feedEvent, session *scan.Session, err error) {
	state, panel, result := session.Snapshot()
	event := feedEvent{State: string(state), Panel: string(panel)}
	if state == scan.StateFound {
		dto := toAssetDTO(result)
		event.Asset = &dto
	}
	if err != nil {
		event.Error = err.Error()
	}

	select {
	case <-ctx.Done():
	case events <- event:
	}
}
