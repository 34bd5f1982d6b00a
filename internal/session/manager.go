package session

import (
	"sync"
	"time"

	"family-ledger-go/internal/domain/family"
	"family-ledger-go/pkg/logger"
)

// Manager hands out one Session per user id, created lazily on first
// authenticated request.
type Manager struct {
	families    *family.Service
	prefs       Preferences
	loadTimeout time.Duration
	log         logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(families *family.Service, prefs Preferences, loadTimeout time.Duration, log logger.Logger) *Manager {
	return &Manager{
		families:    families,
		prefs:       prefs,
		loadTimeout: loadTimeout,
		log:         log,
		sessions:    make(map[string]*Session),
	}
}

func (m *Manager) ForUser(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[userID]; ok {
		return existing
	}

	created := newSession(userID, m.families, m.prefs, m.loadTimeout, m.log)
	m.sessions[userID] = created
	return created
}
