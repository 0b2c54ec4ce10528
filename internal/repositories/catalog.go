package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"niapath/guidance-api/internal/models"
)

type CatalogRepository interface {
	ListInterests() ([]models.Interest, error)
	ListSubjects() ([]models.AcademicSubject, error)
	CreateInterest(name string) (*models.Interest, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListInterests implements CatalogRepository.
func (r *catalogRepository) ListInterests() ([]models.Interest, error) {
	var interests []models.Interest
	if err := r.db.Order("name ASC").Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	return interests, nil
}

// ListSubjects implements CatalogRepository.
func (r *catalogRepository) ListSubjects() ([]models.AcademicSubject, error) {
	var subjects []models.AcademicSubject
	if err := r.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	return subjects, nil
}

// CreateInterest appends a user-submitted entry to the global catalog. The
// unique index on name rejects duplicates.
func (r *catalogRepository) CreateInterest(name string) (*models.Interest, error) {
	interest := models.Interest{
		ID:   uuid.New(),
		Name: name,
	}

	if err := r.db.Create(&interest).Error; err != nil {
		return nil, fmt.Errorf("failed to create interest: %w", err)
	}

	return &interest, nil
}
