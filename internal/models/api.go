package models

import (
	"github.com/google/uuid"
)

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// SessionUser is the identity the provider reports for a session.
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is issued by the identity provider on sign-in/sign-up.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         SessionUser `json:"user"`
}

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

type PasswordStrengthResponse struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// ProfileBundle is everything the profile editor loads as a unit: scalar
// fields, both catalogs, and the user's current selections.
type ProfileBundle struct {
	Profile           ProfileFields     `json:"profile"`
	Interests         []Interest        `json:"interests"`
	Subjects          []AcademicSubject `json:"subjects"`
	SelectedInterests []uuid.UUID       `json:"selected_interests"`
	SubjectGrades     []SubjectGrade    `json:"subject_grades"`
}

type ToggleInterestRequest struct {
	InterestID uuid.UUID `json:"interest_id"`
}

type SetGradeRequest struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Grade     Grade     `json:"grade"`
}

type AddInterestRequest struct {
	Name string `json:"name"`
}

type UpdateFieldsRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

type ChatSendRequest struct {
	Message string `json:"message"`
}

type ChatSendResponse struct {
	Reply      string        `json:"reply"`
	Transcript []ChatMessage `json:"transcript"`
}

// RecommendationStateResponse reports the viewer state machine alongside
// whatever it currently displays.
type RecommendationStateResponse struct {
	State          string                `json:"state"`
	Recommendation *RecommendationResult `json:"recommendation,omitempty"`
	ErrorMessage   string                `json:"error_message,omitempty"`
}
