package models

import (
	"github.com/google/uuid"
)

// Grade is a letter grade for an academic subject.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return true
	}
	return false
}

// UserInterest records that a user selected an interest. Membership implies
// "selected"; at most one row per (user, interest) pair.
type UserInterest struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	InterestID uuid.UUID `gorm:"type:uuid;primaryKey" json:"interest_id"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}

// UserSubject records a user's grade for a subject; at most one grade per
// (user, subject) pair.
type UserSubject struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"subject_id"`
	Grade     Grade     `gorm:"type:text;not null" json:"grade"`
}

func (UserSubject) TableName() string {
	return "user_subjects"
}

// SubjectGrade is the wire form of a graded subject.
type SubjectGrade struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Grade     Grade     `json:"grade"`
}
