package inmemory

import "sync"

// InMemoryPreferences keeps each user's active-family selection for
// the lifetime of the process. Single scalar per user, written on
// switch and read on session restore.
type InMemoryPreferences struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewInMemoryPreferences() *InMemoryPreferences {
	return &InMemoryPreferences{items: make(map[string]string)}
}

func (p *InMemoryPreferences) ActiveFamily(userID string) (string, bool) {
	p.mu.RLock()
	familyID, ok := p.items[userID]
	p.mu.RUnlock()
	return familyID, ok
}

func (p *InMemoryPreferences) SetActiveFamily(userID, familyID string) {
	p.mu.Lock()
	p.items[userID] = familyID
	p.mu.Unlock()
}
