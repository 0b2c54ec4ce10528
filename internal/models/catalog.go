package models

import (
	"github.com/google/uuid"
)

// Interest is a global catalog entry. Users may append new entries by
// submitting a name not yet present; de-duplication is enforced by the
// unique index, not the client.
type Interest struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
}

func (Interest) TableName() string {
	return "interests"
}

// AcademicSubject is a global catalog entry, read-only from the client.
type AcademicSubject struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
}

func (AcademicSubject) TableName() string {
	return "academic_subjects"
}

type University struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name    string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Website string    `gorm:"type:text" json:"website"`
	Country string    `gorm:"type:text" json:"country"`
}

func (University) TableName() string {
	return "universities"
}
