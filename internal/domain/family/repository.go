package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListMembershipsByUser(ctx context.Context, userID string) ([]FamilyWithMembership, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	HasMembership(ctx context.Context, familyID, userID string) (bool, error)
	CreateFamily(ctx context.Context, family *Family) error
	AddMembership(ctx context.Context, membership *Membership) error
	UpdateDisplayName(ctx context.Context, membershipID, displayName string) error
	ListMemberProfiles(ctx context.Context, familyID string) ([]MemberProfile, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
