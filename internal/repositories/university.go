package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"niapath/guidance-api/internal/models"
)

type UniversityRepository interface {
	FindByNames(names []string) ([]models.University, error)
}

type universityRepository struct {
	db *gorm.DB
}

func NewUniversityRepository(db *gorm.DB) UniversityRepository {
	return &universityRepository{db: db}
}

// FindByNames implements UniversityRepository.
func (r *universityRepository) FindByNames(names []string) ([]models.University, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var universities []models.University
	if err := r.db.Where("name IN ?", names).Find(&universities).Error; err != nil {
		return nil, fmt.Errorf("failed to find universities: %w", err)
	}

	return universities, nil
}
