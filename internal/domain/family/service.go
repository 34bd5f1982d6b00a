package family

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 6
	inviteCodeAttempts = 10
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFamilies returns every family the user belongs to, each joined
// with the user's own membership row.
func (s *Service) ListFamilies(ctx context.Context, userID string) ([]FamilyWithMembership, error) {
	return s.repo.ListMembershipsByUser(ctx, userID)
}

func (s *Service) CreateFamily(ctx context.Context, userID, name, displayName string) (*Family, error) {
	name = strings.TrimSpace(name)
	displayName = strings.TrimSpace(displayName)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		fam := Family{
			ID:         uuid.NewString(),
			Name:       name,
			InviteCode: code,
			OwnerID:    userID,
		}
		if err := tx.CreateFamily(ctx, &fam); err != nil {
			return err
		}

		membership := Membership{
			ID:          uuid.NewString(),
			FamilyID:    fam.ID,
			UserID:      userID,
			DisplayName: displayName,
			Role:        RoleOwner,
		}
		if err := tx.AddMembership(ctx, &membership); err != nil {
			return err
		}

		result = fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) JoinFamily(ctx context.Context, userID, code, displayName string) (*Family, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	displayName = strings.TrimSpace(displayName)
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		exists, err := tx.HasMembership(ctx, fam.ID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyMember
		}

		membership := Membership{
			ID:          uuid.NewString(),
			FamilyID:    fam.ID,
			UserID:      userID,
			DisplayName: displayName,
			Role:        RoleMember,
		}
		if err := tx.AddMembership(ctx, &membership); err != nil {
			return err
		}

		result = *fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, membershipID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("display name is required")
	}
	return s.repo.UpdateDisplayName(ctx, membershipID, displayName)
}

func (s *Service) ListMembers(ctx context.Context, familyID string) ([]MemberProfile, error) {
	return s.repo.ListMemberProfiles(ctx, familyID)
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := generateCode(inviteCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
