package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/repositories"
)

type EditorState string

const (
	EditorIdle      EditorState = "idle"
	EditorLoading   EditorState = "loading"
	EditorReady     EditorState = "ready"
	EditorLoadError EditorState = "load_error"
	EditorSaving    EditorState = "saving"
	EditorSaveError EditorState = "save_error"
)

var (
	// ErrSyncFailed reports a load that failed as a unit; prior in-memory
	// state is left untouched.
	ErrSyncFailed = errors.New("sync error")

	// ErrSaveFailed reports a save in which any sub-step failed. Partial
	// writes that already happened are not rolled back.
	ErrSaveFailed = errors.New("save failed")

	// ErrInterestRejected reports that the catalog rejected a submitted
	// interest, e.g. a duplicate name.
	ErrInterestRejected = errors.New("could not add interest")

	// ErrNotLoaded guards edit operations before a successful load.
	ErrNotLoaded = errors.New("profile not loaded")

	// ErrInvalidGrade rejects grade letters outside A-E.
	ErrInvalidGrade = errors.New("invalid grade")
)

// ProfileEditor owns the in-progress selection state for one user until a
// save commits it to the store. Selections are explicit sets, so the toggle
// operations are self-inverse by construction.
type ProfileEditor struct {
	userID        uuid.UUID
	profileRepo   repositories.ProfileRepository
	catalogRepo   repositories.CatalogRepository
	selectionRepo repositories.SelectionRepository

	mu       sync.Mutex
	state    EditorState
	fields   models.ProfileFields
	catalog  []models.Interest
	subjects []models.AcademicSubject
	selected map[uuid.UUID]struct{}
	grades   map[uuid.UUID]models.Grade
}

func NewProfileEditor(
	userID uuid.UUID,
	profileRepo repositories.ProfileRepository,
	catalogRepo repositories.CatalogRepository,
	selectionRepo repositories.SelectionRepository,
) *ProfileEditor {
	return &ProfileEditor{
		userID:        userID,
		profileRepo:   profileRepo,
		catalogRepo:   catalogRepo,
		selectionRepo: selectionRepo,
		state:         EditorIdle,
		selected:      make(map[uuid.UUID]struct{}),
		grades:        make(map[uuid.UUID]models.Grade),
	}
}

func (e *ProfileEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Load fetches the profile, both catalogs, and the user's current
// selections concurrently. The operation fails as a unit: on any fetch
// error the editor reports a single sync error and keeps whatever state it
// had before.
func (e *ProfileEditor) Load(ctx context.Context) error {
	e.mu.Lock()
	e.state = EditorLoading
	e.mu.Unlock()

	var (
		profile     *models.Profile
		catalog     []models.Interest
		subjects    []models.AcademicSubject
		interestIDs []uuid.UUID
		gradeRows   []models.SubjectGrade
	)

	// The fetches are independent; no ordering between them, combined only
	// after all complete.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = e.profileRepo.FindByID(e.userID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = e.catalogRepo.ListInterests()
		return err
	})
	g.Go(func() error {
		var err error
		subjects, err = e.catalogRepo.ListSubjects()
		return err
	})
	g.Go(func() error {
		var err error
		interestIDs, err = e.selectionRepo.ListInterestIDs(e.userID)
		return err
	})
	g.Go(func() error {
		var err error
		gradeRows, err = e.selectionRepo.ListSubjectGrades(e.userID)
		return err
	})

	if err := g.Wait(); err != nil {
		e.mu.Lock()
		e.state = EditorLoadError
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	selected := make(map[uuid.UUID]struct{}, len(interestIDs))
	for _, id := range interestIDs {
		selected[id] = struct{}{}
	}
	grades := make(map[uuid.UUID]models.Grade, len(gradeRows))
	for _, row := range gradeRows {
		grades[row.SubjectID] = row.Grade
	}

	e.mu.Lock()
	e.fields = profile.Fields()
	e.catalog = catalog
	e.subjects = subjects
	e.selected = selected
	e.grades = grades
	e.state = EditorReady
	e.mu.Unlock()

	return nil
}

// ToggleInterest applies a symmetric-difference update to the selected set:
// present is removed, absent is added. Pure and synchronous.
func (e *ProfileEditor) ToggleInterest(interestID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable() {
		return ErrNotLoaded
	}

	if _, ok := e.selected[interestID]; ok {
		delete(e.selected, interestID)
	} else {
		e.selected[interestID] = struct{}{}
	}

	return nil
}

// SetGrade sets or replaces the grade for a subject. Re-selecting the grade
// a subject already has removes the record entirely (toggle-off).
func (e *ProfileEditor) SetGrade(subjectID uuid.UUID, grade models.Grade) error {
	if !grade.Valid() {
		return ErrInvalidGrade
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable() {
		return ErrNotLoaded
	}

	if e.grades[subjectID] == grade {
		delete(e.grades, subjectID)
	} else {
		e.grades[subjectID] = grade
	}

	return nil
}

// SetFields replaces the in-progress scalar profile fields.
func (e *ProfileEditor) SetFields(fields models.ProfileFields) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editable() {
		return ErrNotLoaded
	}

	e.fields = fields
	return nil
}

// AddCustomInterest submits a new name to the interest catalog and, on
// success, appends the returned entry to both the local catalog and the
// selected set. Blank or whitespace-only input is a no-op.
func (e *ProfileEditor) AddCustomInterest(name string) (*models.Interest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	e.mu.Lock()
	if !e.editable() {
		e.mu.Unlock()
		return nil, ErrNotLoaded
	}
	e.mu.Unlock()

	interest, err := e.catalogRepo.CreateInterest(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterestRejected, err)
	}

	e.mu.Lock()
	e.catalog = append(e.catalog, *interest)
	e.selected[interest.ID] = struct{}{}
	e.mu.Unlock()

	return interest, nil
}

// Save replaces all persisted selections with the in-memory sets and
// updates the scalar profile fields. The three writes are not one
// transaction: a partial failure reports a single save error and leaves
// already-applied writes in place.
func (e *ProfileEditor) Save() error {
	e.mu.Lock()
	if !e.editable() {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	fields := e.fields
	interestIDs := e.selectedIDs()
	grades := e.gradeList()
	e.state = EditorSaving
	e.mu.Unlock()

	err := e.profileRepo.UpdateFields(e.userID, fields)
	if err == nil {
		err = e.selectionRepo.ReplaceInterests(e.userID, interestIDs)
	}
	if err == nil {
		err = e.selectionRepo.ReplaceGrades(e.userID, grades)
	}

	e.mu.Lock()
	if err != nil {
		e.state = EditorSaveError
	} else {
		e.state = EditorReady
	}
	e.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	return nil
}

// Bundle snapshots the editor's full state for the caller.
func (e *ProfileEditor) Bundle() models.ProfileBundle {
	e.mu.Lock()
	defer e.mu.Unlock()

	catalog := make([]models.Interest, len(e.catalog))
	copy(catalog, e.catalog)
	subjects := make([]models.AcademicSubject, len(e.subjects))
	copy(subjects, e.subjects)

	return models.ProfileBundle{
		Profile:           e.fields,
		Interests:         catalog,
		Subjects:          subjects,
		SelectedInterests: e.selectedIDs(),
		SubjectGrades:     e.gradeList(),
	}
}

// editable reports whether the in-memory state can be modified. A failed
// save keeps its edits, so save_error stays editable.
func (e *ProfileEditor) editable() bool {
	switch e.state {
	case EditorReady, EditorSaveError:
		return true
	}
	return false
}

// selectedIDs returns the selected set in a stable order. Caller holds mu.
func (e *ProfileEditor) selectedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// gradeList returns the graded subjects in a stable order. Caller holds mu.
func (e *ProfileEditor) gradeList() []models.SubjectGrade {
	grades := make([]models.SubjectGrade, 0, len(e.grades))
	for subjectID, grade := range e.grades {
		grades = append(grades, models.SubjectGrade{
			SubjectID: subjectID,
			Grade:     grade,
		})
	}
	sort.Slice(grades, func(i, j int) bool {
		return grades[i].SubjectID.String() < grades[j].SubjectID.String()
	})
	return grades
}
