package family

import "time"

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Family struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	InviteCode string    `gorm:"size:6;not null;uniqueIndex"`
	OwnerID    string    `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Membership links one user to one family and carries the per-family
// display name (the same person can be "Dad" in one family and "Budi"
// in another). The (family_id, user_id) pair is unique.
type Membership struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	FamilyID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_family_members_family_user"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_family_members_family_user"`
	DisplayName string    `gorm:"not null"`
	Role        string    `gorm:"type:varchar(16);not null"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Membership) TableName() string {
	return "family_members"
}

// FamilyWithMembership is one row of a user's membership list: a family
// joined with that user's own membership in it.
type FamilyWithMembership struct {
	Family
	Membership Membership
}

// MemberProfile is a membership row joined with the member's identity profile.
type MemberProfile struct {
	MembershipID string
	UserID       string
	DisplayName  string
	Role         string
	JoinedAt     time.Time
	Name         *string
	AvatarURL    *string
}
