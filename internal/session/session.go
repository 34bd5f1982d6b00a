// Package session owns per-user client state: the loaded membership
// list and the active-family selection. Each signed-in user gets their
// own Session; there is no ambient global. Store state is pull-based —
// callers reload after mutations, nothing is pushed.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"family-ledger-go/internal/domain/family"
	"family-ledger-go/pkg/logger"
)

// ErrNoActiveFamily rejects mutations attempted before a family is
// selected (or when the user belongs to none).
var ErrNoActiveFamily = errors.New("no active family selected")

const defaultLoadTimeout = 8 * time.Second

// Preferences persists the active-family selection across sessions:
// one familyID per user, the server-side equivalent of the client's
// "currentFamilyId" key.
type Preferences interface {
	ActiveFamily(userID string) (string, bool)
	SetActiveFamily(userID, familyID string)
}

type Session struct {
	userID      string
	families    *family.Service
	prefs       Preferences
	loadTimeout time.Duration
	log         logger.Logger

	mu             sync.Mutex
	loaded         bool
	memberships    []family.FamilyWithMembership
	activeFamilyID string
}

func newSession(userID string, families *family.Service, prefs Preferences, loadTimeout time.Duration, log logger.Logger) *Session {
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &Session{
		userID:      userID,
		families:    families,
		prefs:       prefs,
		loadTimeout: loadTimeout,
		log:         log,
	}
}

// EnsureLoaded loads the membership list on first use; later calls are
// no-ops until a mutation triggers a refresh.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.reload(ctx)
}

// Refresh reloads memberships unconditionally and restores the active
// selection against the fresh list.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// reload applies the bounded wait and leaves the previous list in
// place on failure. Callers hold s.mu.
func (s *Session) reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	list, err := s.families.ListFamilies(loadCtx, s.userID)
	if err != nil {
		s.log.InternalError("session: load memberships failed", err, "user_id", s.userID)
		return err
	}

	s.memberships = list
	s.loaded = true
	s.restoreActive()
	return nil
}

// restoreActive prefers the persisted selection, then the first
// membership, then none. Callers hold s.mu.
func (s *Session) restoreActive() {
	if saved, ok := s.prefs.ActiveFamily(s.userID); ok && s.membershipFor(saved) != nil {
		s.activeFamilyID = saved
		return
	}
	if len(s.memberships) > 0 {
		s.activeFamilyID = s.memberships[0].ID
		return
	}
	s.activeFamilyID = ""
}

func (s *Session) membershipFor(familyID string) *family.FamilyWithMembership {
	for i := range s.memberships {
		if s.memberships[i].ID == familyID {
			return &s.memberships[i]
		}
	}
	return nil
}

func (s *Session) Memberships() []family.FamilyWithMembership {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]family.FamilyWithMembership, len(s.memberships))
	copy(result, s.memberships)
	return result
}

func (s *Session) ActiveFamily() (family.FamilyWithMembership, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.membershipFor(s.activeFamilyID)
	if entry == nil {
		return family.FamilyWithMembership{}, false
	}
	return *entry, true
}

// SwitchFamily is a no-op when familyID is not among the loaded
// memberships. A successful switch is persisted for future restores.
func (s *Session) SwitchFamily(familyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switchTo(familyID)
}

func (s *Session) switchTo(familyID string) bool {
	if s.membershipFor(familyID) == nil {
		return false
	}
	s.activeFamilyID = familyID
	s.prefs.SetActiveFamily(s.userID, familyID)
	return true
}

func (s *Session) CreateFamily(ctx context.Context, name, displayName string) (*family.Family, error) {
	created, err := s.families.CreateFamily(ctx, s.userID, name, displayName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	s.switchTo(created.ID)
	return created, nil
}

func (s *Session) JoinFamily(ctx context.Context, code, displayName string) (*family.Family, error) {
	joined, err := s.families.JoinFamily(ctx, s.userID, code, displayName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	s.switchTo(joined.ID)
	return joined, nil
}

// UpdateDisplayName renames the caller within the active family and
// reloads so the cached membership list stays consistent. No-op when
// nothing is selected.
func (s *Session) UpdateDisplayName(ctx context.Context, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.membershipFor(s.activeFamilyID)
	if entry == nil {
		return nil
	}

	if err := s.families.UpdateDisplayName(ctx, entry.Membership.ID, displayName); err != nil {
		return err
	}
	return s.reload(ctx)
}

// Members lists the active family's memberships joined with identity
// profiles. Empty when no family is selected.
func (s *Session) Members(ctx context.Context) ([]family.MemberProfile, error) {
	active, ok := s.ActiveFamily()
	if !ok {
		return []family.MemberProfile{}, nil
	}
	return s.families.ListMembers(ctx, active.ID)
}
