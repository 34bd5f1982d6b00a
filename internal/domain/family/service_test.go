package family

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeFamilyRepo struct {
	families    map[string]*Family
	memberships map[string]*Membership
	codes       map[string]string
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		families:    make(map[string]*Family),
		memberships: make(map[string]*Membership),
		codes:       make(map[string]string),
	}
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) ListMembershipsByUser(ctx context.Context, userID string) ([]FamilyWithMembership, error) {
	result := make([]FamilyWithMembership, 0)
	for _, membership := range r.memberships {
		if membership.UserID != userID {
			continue
		}
		fam, ok := r.families[membership.FamilyID]
		if !ok {
			continue
		}
		result = append(result, FamilyWithMembership{Family: *fam, Membership: *membership})
	}
	return result, nil
}

func (r *fakeFamilyRepo) GetFamilyByCode(ctx context.Context, code string) (*Family, error) {
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrFamilyCodeNotFound
	}
	fam, ok := r.families[id]
	if !ok {
		return nil, ErrFamilyCodeNotFound
	}
	return fam, nil
}

func (r *fakeFamilyRepo) HasMembership(ctx context.Context, familyID, userID string) (bool, error) {
	for _, membership := range r.memberships {
		if membership.FamilyID == familyID && membership.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, family *Family) error {
	r.families[family.ID] = family
	r.codes[family.InviteCode] = family.ID
	return nil
}

func (r *fakeFamilyRepo) AddMembership(ctx context.Context, membership *Membership) error {
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}
	r.memberships[membership.ID] = membership
	return nil
}

func (r *fakeFamilyRepo) UpdateDisplayName(ctx context.Context, membershipID, displayName string) error {
	membership, ok := r.memberships[membershipID]
	if !ok {
		return ErrMembershipNotFound
	}
	membership.DisplayName = displayName
	return nil
}

func (r *fakeFamilyRepo) ListMemberProfiles(ctx context.Context, familyID string) ([]MemberProfile, error) {
	result := make([]MemberProfile, 0)
	for _, membership := range r.memberships {
		if membership.FamilyID != familyID {
			continue
		}
		result = append(result, MemberProfile{
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

func (r *fakeFamilyRepo) membershipFor(familyID, userID string) *Membership {
	for _, membership := range r.memberships {
		if membership.FamilyID == familyID && membership.UserID == userID {
			return membership
		}
	}
	return nil
}

func TestCreateFamilySuccess(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)

	result, err := svc.CreateFamily(context.Background(), "user-1", "  My Family  ", "  Alex  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "My Family" {
		t.Fatalf("expected name trimmed, got %q", result.Name)
	}
	if result.OwnerID != "user-1" {
		t.Fatalf("expected owner user-1, got %q", result.OwnerID)
	}
	if len(result.InviteCode) != 6 {
		t.Fatalf("expected code length 6, got %q", result.InviteCode)
	}
	for _, c := range result.InviteCode {
		if c == 'I' || c == 'O' || c == '0' || c == '1' {
			t.Fatalf("code contains ambiguous character: %q", result.InviteCode)
		}
	}
	membership := repo.membershipFor(result.ID, "user-1")
	if membership == nil {
		t.Fatalf("expected membership created")
	}
	if membership.Role != RoleOwner {
		t.Fatalf("expected owner role, got %q", membership.Role)
	}
	if membership.DisplayName != "Alex" {
		t.Fatalf("expected display name trimmed, got %q", membership.DisplayName)
	}
}

func TestCreateFamilyEmptyName(t *testing.T) {
	svc := NewService(newFakeFamilyRepo())
	if _, err := svc.CreateFamily(context.Background(), "user-1", "   ", "Alex"); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := svc.CreateFamily(context.Background(), "user-1", "Home", "   "); err == nil {
		t.Fatalf("expected error for empty display name")
	}
}

func TestCreateFamilyAllowsMultipleMemberships(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)

	first, err := svc.CreateFamily(context.Background(), "user-1", "Home", "Alex")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.CreateFamily(context.Background(), "user-1", "Work", "A.")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct family ids")
	}

	list, err := svc.ListFamilies(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(list))
	}
}

func TestJoinFamilySuccess(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.families["fam-1"] = &Family{ID: "fam-1", Name: "Fam", InviteCode: "ZXCVBN", OwnerID: "owner"}
	repo.codes["ZXCVBN"] = "fam-1"

	svc := NewService(repo)
	result, err := svc.JoinFamily(context.Background(), "user-1", "  zxcvbn ", "Bea")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID != "fam-1" {
		t.Fatalf("expected family fam-1, got %s", result.ID)
	}
	membership := repo.membershipFor("fam-1", "user-1")
	if membership == nil || membership.Role != RoleMember {
		t.Fatalf("expected member role, got %+v", membership)
	}
	if membership.DisplayName != "Bea" {
		t.Fatalf("expected display name Bea, got %q", membership.DisplayName)
	}
}

func TestJoinFamilyCodeNotFound(t *testing.T) {
	svc := NewService(newFakeFamilyRepo())
	_, err := svc.JoinFamily(context.Background(), "user-1", "MISSIN", "Bea")
	if !errors.Is(err, ErrFamilyCodeNotFound) {
		t.Fatalf("expected ErrFamilyCodeNotFound, got %v", err)
	}
}

func TestJoinFamilyAlreadyMember(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.families["fam-1"] = &Family{ID: "fam-1", Name: "Fam", InviteCode: "ZXCVBN", OwnerID: "owner"}
	repo.codes["ZXCVBN"] = "fam-1"
	repo.memberships["m-1"] = &Membership{ID: "m-1", FamilyID: "fam-1", UserID: "user-1", Role: RoleMember}

	svc := NewService(repo)
	_, err := svc.JoinFamily(context.Background(), "user-1", "ZXCVBN", "Bea")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestUpdateDisplayName(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.memberships["m-1"] = &Membership{ID: "m-1", FamilyID: "fam-1", UserID: "user-1", DisplayName: "Old"}

	svc := NewService(repo)
	if err := svc.UpdateDisplayName(context.Background(), "m-1", "  New  "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.memberships["m-1"].DisplayName != "New" {
		t.Fatalf("expected trimmed name, got %q", repo.memberships["m-1"].DisplayName)
	}

	if err := svc.UpdateDisplayName(context.Background(), "m-1", "   "); err == nil {
		t.Fatalf("expected error for empty display name")
	}
	if err := svc.UpdateDisplayName(context.Background(), "missing", "New"); !errors.Is(err, ErrMembershipNotFound) {
		t.Fatalf("expected ErrMembershipNotFound, got %v", err)
	}
}

func TestGenerateUniqueCodeExhaustsAttempts(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(codeAlwaysTaken{repo})

	_, err := svc.CreateFamily(context.Background(), "user-1", "Home", "Alex")
	if !errors.Is(err, ErrCodeGenerationFailed) {
		t.Fatalf("expected ErrCodeGenerationFailed, got %v", err)
	}
}

type codeAlwaysTaken struct {
	*fakeFamilyRepo
}

func (r codeAlwaysTaken) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r codeAlwaysTaken) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	return true, nil
}
