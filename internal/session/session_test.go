package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"family-ledger-go/internal/domain/family"
	"family-ledger-go/pkg/logger"
)

type fakeFamilyRepo struct {
	families    map[string]*family.Family
	memberships map[string]*family.Membership
	codes       map[string]string
	listErr     error
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		families:    make(map[string]*family.Family),
		memberships: make(map[string]*family.Membership),
		codes:       make(map[string]string),
	}
}

func (r *fakeFamilyRepo) addFamily(id, name, code, ownerID string) {
	r.families[id] = &family.Family{ID: id, Name: name, InviteCode: code, OwnerID: ownerID}
	r.codes[code] = id
}

func (r *fakeFamilyRepo) addMembership(id, familyID, userID, displayName, role string) {
	r.memberships[id] = &family.Membership{
		ID:          id,
		FamilyID:    familyID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(family.Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) ListMembershipsByUser(ctx context.Context, userID string) ([]family.FamilyWithMembership, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]family.FamilyWithMembership, 0)
	for _, membership := range r.memberships {
		if membership.UserID != userID {
			continue
		}
		fam, ok := r.families[membership.FamilyID]
		if !ok {
			continue
		}
		result = append(result, family.FamilyWithMembership{Family: *fam, Membership: *membership})
	}
	return result, nil
}

func (r *fakeFamilyRepo) GetFamilyByCode(ctx context.Context, code string) (*family.Family, error) {
	id, ok := r.codes[code]
	if !ok {
		return nil, family.ErrFamilyCodeNotFound
	}
	return r.families[id], nil
}

func (r *fakeFamilyRepo) HasMembership(ctx context.Context, familyID, userID string) (bool, error) {
	for _, membership := range r.memberships {
		if membership.FamilyID == familyID && membership.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, fam *family.Family) error {
	r.families[fam.ID] = fam
	r.codes[fam.InviteCode] = fam.ID
	return nil
}

func (r *fakeFamilyRepo) AddMembership(ctx context.Context, membership *family.Membership) error {
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}
	r.memberships[membership.ID] = membership
	return nil
}

func (r *fakeFamilyRepo) UpdateDisplayName(ctx context.Context, membershipID, displayName string) error {
	membership, ok := r.memberships[membershipID]
	if !ok {
		return family.ErrMembershipNotFound
	}
	membership.DisplayName = displayName
	return nil
}

func (r *fakeFamilyRepo) ListMemberProfiles(ctx context.Context, familyID string) ([]family.MemberProfile, error) {
	result := make([]family.MemberProfile, 0)
	for _, membership := range r.memberships {
		if membership.FamilyID != familyID {
			continue
		}
		result = append(result, family.MemberProfile{
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			DisplayName:  membership.DisplayName,
			Role:         membership.Role,
			JoinedAt:     membership.JoinedAt,
		})
	}
	return result, nil
}

func (r *fakeFamilyRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok := r.codes[code]
	return ok, nil
}

type fakePrefs struct {
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (p *fakePrefs) ActiveFamily(userID string) (string, bool) {
	value, ok := p.values[userID]
	return value, ok
}

func (p *fakePrefs) SetActiveFamily(userID, familyID string) {
	p.values[userID] = familyID
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func newTestManager(repo *fakeFamilyRepo, prefs Preferences) *Manager {
	return NewManager(family.NewService(repo), prefs, time.Second, testLogger())
}

func TestRestoreSavedSelection(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addFamily("fam-2", "Work", "BBBBBB", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)
	repo.addMembership("m-2", "fam-2", "user-1", "A.", family.RoleOwner)

	prefs := newFakePrefs()
	prefs.SetActiveFamily("user-1", "fam-2")

	sess := newTestManager(repo, prefs).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	active, ok := sess.ActiveFamily()
	if !ok || active.ID != "fam-2" {
		t.Fatalf("expected saved selection fam-2, got %+v ok=%v", active, ok)
	}
}

func TestRestoreFallsBackToFirstMembership(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)

	prefs := newFakePrefs()
	prefs.SetActiveFamily("user-1", "fam-gone")

	sess := newTestManager(repo, prefs).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	active, ok := sess.ActiveFamily()
	if !ok || active.ID != "fam-1" {
		t.Fatalf("expected fallback to fam-1, got %+v ok=%v", active, ok)
	}
}

func TestNoMembershipsMeansNoActiveFamily(t *testing.T) {
	sess := newTestManager(newFakeFamilyRepo(), newFakePrefs()).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := sess.ActiveFamily(); ok {
		t.Fatalf("expected no active family")
	}
	members, err := sess.Members(context.Background())
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected no members, got %d", len(members))
	}
}

func TestSwitchFamilyUnknownIDIsNoOp(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)

	prefs := newFakePrefs()
	sess := newTestManager(repo, prefs).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if sess.SwitchFamily("fam-other") {
		t.Fatalf("expected switch to unknown family to fail")
	}
	active, _ := sess.ActiveFamily()
	if active.ID != "fam-1" {
		t.Fatalf("selection changed by failed switch: %q", active.ID)
	}
	if saved, ok := prefs.ActiveFamily("user-1"); ok && saved == "fam-other" {
		t.Fatalf("failed switch must not be persisted")
	}
}

func TestSwitchFamilyPersists(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addFamily("fam-2", "Work", "BBBBBB", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)
	repo.addMembership("m-2", "fam-2", "user-1", "A.", family.RoleOwner)

	prefs := newFakePrefs()
	sess := newTestManager(repo, prefs).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if !sess.SwitchFamily("fam-2") {
		t.Fatalf("expected switch to succeed")
	}
	if saved, _ := prefs.ActiveFamily("user-1"); saved != "fam-2" {
		t.Fatalf("expected persisted selection fam-2, got %q", saved)
	}
}

func TestCreateFamilySwitchesToNewFamily(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)

	sess := newTestManager(repo, newFakePrefs()).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	created, err := sess.CreateFamily(context.Background(), "Work", "A.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, ok := sess.ActiveFamily()
	if !ok || active.ID != created.ID {
		t.Fatalf("expected new family active, got %+v", active)
	}
	if len(sess.Memberships()) != 2 {
		t.Fatalf("expected reloaded membership list")
	}
}

func TestJoinFamilySwitchesToJoinedFamily(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "owner")
	repo.addMembership("m-1", "fam-1", "owner", "Alex", family.RoleOwner)

	sess := newTestManager(repo, newFakePrefs()).ForUser("user-2")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	joined, err := sess.JoinFamily(context.Background(), "AAAAAA", "Bea")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	active, ok := sess.ActiveFamily()
	if !ok || active.ID != joined.ID {
		t.Fatalf("expected joined family active, got %+v", active)
	}
	if active.Membership.DisplayName != "Bea" {
		t.Fatalf("expected own membership in active entry, got %q", active.Membership.DisplayName)
	}
}

func TestUpdateDisplayNameWithoutActiveFamilyIsNoOp(t *testing.T) {
	sess := newTestManager(newFakeFamilyRepo(), newFakePrefs()).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := sess.UpdateDisplayName(context.Background(), "New Name"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestUpdateDisplayNameRefreshesList(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)

	sess := newTestManager(repo, newFakePrefs()).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := sess.UpdateDisplayName(context.Background(), "Alexander"); err != nil {
		t.Fatalf("update: %v", err)
	}
	active, _ := sess.ActiveFamily()
	if active.Membership.DisplayName != "Alexander" {
		t.Fatalf("expected refreshed display name, got %q", active.Membership.DisplayName)
	}
}

func TestRefreshKeepsStaleListOnError(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Home", "AAAAAA", "user-1")
	repo.addMembership("m-1", "fam-1", "user-1", "Alex", family.RoleOwner)

	sess := newTestManager(repo, newFakePrefs()).ForUser("user-1")
	if err := sess.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	repo.listErr = context.DeadlineExceeded
	if err := sess.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if len(sess.Memberships()) != 1 {
		t.Fatalf("expected stale list kept on failure")
	}
	if _, ok := sess.ActiveFamily(); !ok {
		t.Fatalf("expected selection kept on failure")
	}
}

func TestManagerReturnsSameSessionPerUser(t *testing.T) {
	manager := newTestManager(newFakeFamilyRepo(), newFakePrefs())
	first := manager.ForUser("user-1")
	second := manager.ForUser("user-1")
	if first != second {
		t.Fatalf("expected one session per user")
	}
	other := manager.ForUser("user-2")
	if other == first {
		t.Fatalf("expected separate sessions for different users")
	}
}
