package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"niapath/guidance-api/internal/models"
)

// In-memory collaborators for the service tests.

type fakeProfileRepo struct {
	mu      sync.Mutex
	profile models.Profile
	findErr error
	saveErr error
	updates int
}

func (f *fakeProfileRepo) FindByID(id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p := f.profile
	p.ID = id
	return &p, nil
}

func (f *fakeProfileRepo) Ensure(id uuid.UUID, email string) error {
	return nil
}

func (f *fakeProfileRepo) UpdateFields(id uuid.UUID, fields models.ProfileFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.profile.FullName = fields.FullName
	f.profile.Bio = fields.Bio
	f.updates++
	return nil
}

type fakeCatalogRepo struct {
	mu        sync.Mutex
	interests []models.Interest
	subjects  []models.AcademicSubject
	listErr   error
	createErr error
}

func (f *fakeCatalogRepo) ListInterests() ([]models.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Interest(nil), f.interests...), nil
}

func (f *fakeCatalogRepo) ListSubjects() ([]models.AcademicSubject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.AcademicSubject(nil), f.subjects...), nil
}

func (f *fakeCatalogRepo) CreateInterest(name string) (*models.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	interest := models.Interest{ID: uuid.New(), Name: name}
	f.interests = append(f.interests, interest)
	return &interest, nil
}

type fakeSelectionRepo struct {
	mu          sync.Mutex
	interestIDs []uuid.UUID
	grades      []models.SubjectGrade
	listErr     error
	replaceErr  error
}

func (f *fakeSelectionRepo) ListInterestIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]uuid.UUID(nil), f.interestIDs...), nil
}

func (f *fakeSelectionRepo) ListSubjectGrades(userID uuid.UUID) ([]models.SubjectGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.SubjectGrade(nil), f.grades...), nil
}

func (f *fakeSelectionRepo) ReplaceInterests(userID uuid.UUID, interestIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.interestIDs = append([]uuid.UUID(nil), interestIDs...)
	return nil
}

func (f *fakeSelectionRepo) ReplaceGrades(userID uuid.UUID, grades []models.SubjectGrade) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.grades = append([]models.SubjectGrade(nil), grades...)
	return nil
}

type fakeUniversityRepo struct {
	universities []models.University
	err          error
}

func (f *fakeUniversityRepo) FindByNames(names []string) ([]models.University, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.universities, nil
}

// fakeFunctionClient scripts the serverless collaborators. Chat replies are
// consumed in order; calls record the arguments they received.
type fakeFunctionClient struct {
	mu sync.Mutex

	recommendation *models.RecommendationResult
	recommendErr   error

	reportPayload *models.ReportPayload
	reportErr     error
	reportCalls   []ReportRequest

	chatReplies []string
	chatErr     error
	chatCalls   []chatCall
}

type chatCall struct {
	history    []models.ChatMessage
	newMessage string
}

var errScriptExhausted = errors.New("no scripted reply left")

func (f *fakeFunctionClient) GetRecommendation(ctx context.Context, auth FunctionAuth) (*models.RecommendationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	return f.recommendation, nil
}

func (f *fakeFunctionClient) GenerateReport(ctx context.Context, auth FunctionAuth, req ReportRequest) (*models.ReportPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCalls = append(f.reportCalls, req)
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.reportPayload, nil
}

func (f *fakeFunctionClient) Chat(ctx context.Context, auth FunctionAuth, recommendation *models.RecommendationResult, history []models.ChatMessage, newMessage string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls = append(f.chatCalls, chatCall{
		history:    append([]models.ChatMessage(nil), history...),
		newMessage: newMessage,
	})
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatReplies) == 0 {
		return "", errScriptExhausted
	}
	reply := f.chatReplies[0]
	f.chatReplies = f.chatReplies[1:]
	return reply, nil
}
