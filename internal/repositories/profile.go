package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"niapath/guidance-api/internal/models"
)

type ProfileRepository interface {
	FindByID(id uuid.UUID) (*models.Profile, error)
	Ensure(id uuid.UUID, email string) error
	UpdateFields(id uuid.UUID, fields models.ProfileFields) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID implements ProfileRepository.
func (r *profileRepository) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

// Ensure creates the profile row for a freshly signed-up user if it does not
// exist yet. An existing row is left untouched.
func (r *profileRepository) Ensure(id uuid.UUID, email string) error {
	profile := models.Profile{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := r.db.Where("id = ?", id).FirstOrCreate(&profile).Error; err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}

	return nil
}

// UpdateFields implements ProfileRepository.
func (r *profileRepository) UpdateFields(id uuid.UUID, fields models.ProfileFields) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name":  fields.FullName,
			"email":      fields.Email,
			"phone":      fields.Phone,
			"bio":        fields.Bio,
			"location":   fields.Location,
			"avatar_url": fields.AvatarURL,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}
