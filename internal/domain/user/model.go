package user

import "time"

// Profile mirrors what the identity provider reports at sign-in. It is
// owned by the auth collaborator; this service only keeps a copy for
// member lists and display-name fallbacks.
type Profile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Email     *string   `gorm:"type:text"`
	Name      *string   `gorm:"type:text"`
	AvatarURL *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
