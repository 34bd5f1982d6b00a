package family

import (
	"context"
	"errors"
	"time"

	familydomain "family-ledger-go/internal/domain/family"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]familydomain.FamilyWithMembership, error) {
	type row struct {
		FamilyID     string    `gorm:"column:family_id"`
		Name         string    `gorm:"column:name"`
		InviteCode   string    `gorm:"column:invite_code"`
		OwnerID      string    `gorm:"column:owner_id"`
		CreatedAt    time.Time `gorm:"column:created_at"`
		MembershipID string    `gorm:"column:membership_id"`
		DisplayName  string    `gorm:"column:display_name"`
		Role         string    `gorm:"column:role"`
		JoinedAt     time.Time `gorm:"column:joined_at"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("families.id as family_id, families.name, families.invite_code, families.owner_id, families.created_at, family_members.id as membership_id, family_members.display_name, family_members.role, family_members.joined_at").
		Joins("join families on families.id = family_members.family_id").
		Where("family_members.user_id = ?", userID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]familydomain.FamilyWithMembership, 0, len(rows))
	for _, item := range rows {
		result = append(result, familydomain.FamilyWithMembership{
			Family: familydomain.Family{
				ID:         item.FamilyID,
				Name:       item.Name,
				InviteCode: item.InviteCode,
				OwnerID:    item.OwnerID,
				CreatedAt:  item.CreatedAt,
			},
			Membership: familydomain.Membership{
				ID:          item.MembershipID,
				FamilyID:    item.FamilyID,
				UserID:      userID,
				DisplayName: item.DisplayName,
				Role:        item.Role,
				JoinedAt:    item.JoinedAt,
			},
		})
	}
	return result, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var fam familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&fam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyCodeNotFound
		}
		return nil, err
	}
	return &fam, nil
}

func (r *PostgresRepository) HasMembership(ctx context.Context, familyID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Membership{}).
		Where("family_id = ? AND user_id = ?", familyID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) AddMembership(ctx context.Context, membership *familydomain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *PostgresRepository) UpdateDisplayName(ctx context.Context, membershipID, displayName string) error {
	result := r.db.WithContext(ctx).Model(&familydomain.Membership{}).
		Where("id = ?", membershipID).
		Update("display_name", displayName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrMembershipNotFound
	}
	return nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, familyID string) ([]familydomain.MemberProfile, error) {
	type row struct {
		MembershipID string    `gorm:"column:membership_id"`
		UserID       string    `gorm:"column:user_id"`
		DisplayName  string    `gorm:"column:display_name"`
		Role         string    `gorm:"column:role"`
		JoinedAt     time.Time `gorm:"column:joined_at"`
		Name         *string   `gorm:"column:name"`
		AvatarURL    *string   `gorm:"column:avatar_url"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.id as membership_id, family_members.user_id, family_members.display_name, family_members.role, family_members.joined_at, user_profiles.name, user_profiles.avatar_url").
		Joins("left join user_profiles on user_profiles.user_id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.MemberProfile, 0, len(rows))
	for _, item := range rows {
		members = append(members, familydomain.MemberProfile{
			MembershipID: item.MembershipID,
			UserID:       item.UserID,
			DisplayName:  item.DisplayName,
			Role:         item.Role,
			JoinedAt:     item.JoinedAt,
			Name:         item.Name,
			AvatarURL:    item.AvatarURL,
		})
	}
	return members, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
