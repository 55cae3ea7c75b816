package scan

import (
	"errors"
	"sync"

	"opsdeck/internal/ports"
)

var ErrDeviceBusy = errors.New("device already has an active session")

// Manager hands out scan sessions with exclusive device ownership: at most
// one live session per device id. A second acquire for the same device is
// rejected until the first session is released.
type Manager struct {
	lookup   Lookuper
	kv       ports.KVCache
	registry *DeviceRegistry

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(lookup Lookuper, kv ports.KVCache, registry *DeviceRegistry) *Manager {
	return &Manager{
		lookup:   lookup,
		kv:       kv,
		registry: registry,
		sessions: make(map[string]*Session),
	}
}

// Acquire opens a session for a registered device. The caller must Release
// it when the connection ends.
func (m *Manager) Acquire(tenantID string, deviceID string) (*Session, error) {
	if deviceID == "" {
		return nil, errors.New("device id is required")
	}
	if m.registry != nil {
		if _, err := m.registry.Profile(deviceID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.sessions[deviceID]; held {
		return nil, ErrDeviceBusy
	}
	session := NewSession(tenantID, deviceID, m.lookup, m.kv)
	m.sessions[deviceID] = session
	return session, nil
}

// Release closes the session and frees the device for the next owner.
// Releasing a session that no longer owns its device is a no-op, so a
// stale connection cannot evict its successor.
func (m *Manager) Release(session *Session) {
	if session == nil {
		return
	}
	session.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if current, held := m.sessions[session.DeviceID()]; held && current == session {
		delete(m.sessions, session.DeviceID())
	}
}

// Active reports whether a device currently owns a session.
func (m *Manager) Active(deviceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, held := m.sessions[deviceID]
	return held
}
