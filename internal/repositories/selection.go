package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"niapath/guidance-api/internal/models"
)

// SelectionRepository manages the per-user selection rows. Writes are full
// replacements (delete-all-then-insert-all); concurrent editors for the same
// user race and the last writer wins.
type SelectionRepository interface {
	ListInterestIDs(userID uuid.UUID) ([]uuid.UUID, error)
	ListSubjectGrades(userID uuid.UUID) ([]models.SubjectGrade, error)
	ReplaceInterests(userID uuid.UUID, interestIDs []uuid.UUID) error
	ReplaceGrades(userID uuid.UUID, grades []models.SubjectGrade) error
}

type selectionRepository struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

// ListInterestIDs implements SelectionRepository.
func (r *selectionRepository) ListInterestIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []models.UserInterest
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user interests: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.InterestID)
	}

	return ids, nil
}

// ListSubjectGrades implements SelectionRepository.
func (r *selectionRepository) ListSubjectGrades(userID uuid.UUID) ([]models.SubjectGrade, error) {
	var rows []models.UserSubject
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user subjects: %w", err)
	}

	grades := make([]models.SubjectGrade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, models.SubjectGrade{
			SubjectID: row.SubjectID,
			Grade:     row.Grade,
		})
	}

	return grades, nil
}

// ReplaceInterests implements SelectionRepository.
func (r *selectionRepository) ReplaceInterests(userID uuid.UUID, interestIDs []uuid.UUID) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.UserInterest{}).Error; err != nil {
		return fmt.Errorf("failed to clear user interests: %w", err)
	}

	if len(interestIDs) == 0 {
		return nil
	}

	rows := make([]models.UserInterest, 0, len(interestIDs))
	for _, interestID := range interestIDs {
		rows = append(rows, models.UserInterest{
			UserID:     userID,
			InterestID: interestID,
		})
	}

	if err := r.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert user interests: %w", err)
	}

	return nil
}

// ReplaceGrades implements SelectionRepository.
func (r *selectionRepository) ReplaceGrades(userID uuid.UUID, grades []models.SubjectGrade) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.UserSubject{}).Error; err != nil {
		return fmt.Errorf("failed to clear user subjects: %w", err)
	}

	if len(grades) == 0 {
		return nil
	}

	rows := make([]models.UserSubject, 0, len(grades))
	for _, grade := range grades {
		rows = append(rows, models.UserSubject{
			UserID:    userID,
			SubjectID: grade.SubjectID,
			Grade:     grade.Grade,
		})
	}

	if err := r.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert user subjects: %w", err)
	}

	return nil
}
