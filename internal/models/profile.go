package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName  string    `gorm:"type:text" json:"full_name"`
	Email     string    `gorm:"type:text" json:"email"`
	Phone     string    `gorm:"type:text" json:"phone"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Location  string    `gorm:"type:text" json:"location"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileFields is the mutable scalar subset of a profile, edited as a whole
// by the profile editor and written back on save.
type ProfileFields struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

func (p *Profile) Fields() ProfileFields {
	return ProfileFields{
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Bio:       p.Bio,
		Location:  p.Location,
		AvatarURL: p.AvatarURL,
	}
}
