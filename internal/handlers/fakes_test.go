package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/services"
)

// In-memory collaborators for the handler tests. The identity fake runs in
// dev mode so requests resolve to a fixed user without real tokens.

type fakeIdentity struct {
	userID     uuid.UUID
	devMode    bool
	signUpErr  error
	signInErr  error
	signOutErr error
	session    *models.Session
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.session, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context, accessToken string) error {
	return f.signOutErr
}

func (f *fakeIdentity) ResolveUserID(authHeader string) (uuid.UUID, error) {
	if f.devMode || authHeader != "" {
		return f.userID, nil
	}
	return uuid.Nil, services.ErrUnauthenticated
}

func (f *fakeIdentity) DevMode() bool {
	return f.devMode
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]models.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[uuid.UUID]models.Profile)}
}

func (r *memProfileRepo) FindByID(id uuid.UUID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return &p, nil
}

func (r *memProfileRepo) Ensure(id uuid.UUID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		r.profiles[id] = models.Profile{ID: id, Email: email}
	}
	return nil
}

func (r *memProfileRepo) UpdateFields(id uuid.UUID, fields models.ProfileFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[id]
	p.ID = id
	p.FullName = fields.FullName
	p.Email = fields.Email
	p.Phone = fields.Phone
	p.Bio = fields.Bio
	p.Location = fields.Location
	p.AvatarURL = fields.AvatarURL
	r.profiles[id] = p
	return nil
}

type memCatalogRepo struct {
	mu        sync.Mutex
	interests []models.Interest
	subjects  []models.AcademicSubject
}

func (r *memCatalogRepo) ListInterests() ([]models.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Interest(nil), r.interests...), nil
}

func (r *memCatalogRepo) ListSubjects() ([]models.AcademicSubject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AcademicSubject(nil), r.subjects...), nil
}

func (r *memCatalogRepo) CreateInterest(name string) (*models.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.interests {
		if existing.Name == name {
			return nil, errors.New("duplicate interest")
		}
	}
	interest := models.Interest{ID: uuid.New(), Name: name}
	r.interests = append(r.interests, interest)
	return &interest, nil
}

type memSelectionRepo struct {
	mu          sync.Mutex
	interestIDs map[uuid.UUID][]uuid.UUID
	grades      map[uuid.UUID][]models.SubjectGrade
}

func newMemSelectionRepo() *memSelectionRepo {
	return &memSelectionRepo{
		interestIDs: make(map[uuid.UUID][]uuid.UUID),
		grades:      make(map[uuid.UUID][]models.SubjectGrade),
	}
}

func (r *memSelectionRepo) ListInterestIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.interestIDs[userID]...), nil
}

func (r *memSelectionRepo) ListSubjectGrades(userID uuid.UUID) ([]models.SubjectGrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SubjectGrade(nil), r.grades[userID]...), nil
}

func (r *memSelectionRepo) ReplaceInterests(userID uuid.UUID, interestIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interestIDs[userID] = append([]uuid.UUID(nil), interestIDs...)
	return nil
}

func (r *memSelectionRepo) ReplaceGrades(userID uuid.UUID, grades []models.SubjectGrade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grades[userID] = append([]models.SubjectGrade(nil), grades...)
	return nil
}

type memUniversityRepo struct{}

func (memUniversityRepo) FindByNames(names []string) ([]models.University, error) {
	return nil, nil
}

type stubFunctions struct {
	mu             sync.Mutex
	recommendation *models.RecommendationResult
	recommendErr   error
	reportPayload  *models.ReportPayload
	reportErr      error
	chatReply      string
	chatErr        error
}

func (s *stubFunctions) GetRecommendation(ctx context.Context, auth services.FunctionAuth) (*models.RecommendationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendErr != nil {
		return nil, s.recommendErr
	}
	return s.recommendation, nil
}

func (s *stubFunctions) GenerateReport(ctx context.Context, auth services.FunctionAuth, req services.ReportRequest) (*models.ReportPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reportErr != nil {
		return nil, s.reportErr
	}
	return s.reportPayload, nil
}

func (s *stubFunctions) Chat(ctx context.Context, auth services.FunctionAuth, recommendation *models.RecommendationResult, history []models.ChatMessage, newMessage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chatReply, nil
}

// testEnv wires a Fiber app with the same routes the server registers.
type testEnv struct {
	app       *fiber.App
	userID    uuid.UUID
	identity  *fakeIdentity
	profiles  *memProfileRepo
	catalog   *memCatalogRepo
	selection *memSelectionRepo
	functions *stubFunctions
}

func newTestEnv() *testEnv {
	userID := uuid.New()
	identity := &fakeIdentity{userID: userID, devMode: true}
	profiles := newMemProfileRepo()
	profiles.Ensure(userID, "ada@example.com")

	catalog := &memCatalogRepo{
		interests: []models.Interest{
			{ID: uuid.New(), Name: "Science"},
			{ID: uuid.New(), Name: "Technology"},
		},
		subjects: []models.AcademicSubject{
			{ID: uuid.New(), Name: "Mathematics"},
		},
	}
	selection := newMemSelectionRepo()
	functions := &stubFunctions{}

	sessions := services.NewSessionManager(profiles, catalog, selection, memUniversityRepo{}, functions)

	authHandler := NewAuthHandler(identity, profiles, sessions)
	profileHandler := NewProfileHandler(identity, sessions, services.NewStorageService("./uploads"), 1<<20)
	recommendationHandler := NewRecommendationHandler(identity, sessions)
	reportHandler := NewReportHandler(identity, sessions, services.NewReportService(functions), profiles)
	chatHandler := NewChatHandler(identity, sessions)

	app := fiber.New()
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.HandleSignup)
	auth.Post("/login", authHandler.HandleLogin)
	auth.Post("/logout", authHandler.HandleLogout)
	auth.Post("/password-strength", authHandler.HandlePasswordStrength)

	profile := api.Group("/profile")
	profile.Get("/", profileHandler.HandleLoad)
	profile.Put("/fields", profileHandler.HandleSetFields)
	profile.Post("/interests", profileHandler.HandleAddInterest)
	profile.Post("/interests/toggle", profileHandler.HandleToggleInterest)
	profile.Post("/subjects/grade", profileHandler.HandleSetGrade)
	profile.Post("/save", profileHandler.HandleSave)

	api.Post("/recommendation", recommendationHandler.HandleRequest)
	api.Get("/recommendation", recommendationHandler.HandleGetState)
	api.Post("/recommendation/report", reportHandler.HandleExport)

	api.Post("/chat", chatHandler.HandleSend)
	api.Get("/chat", chatHandler.HandleTranscript)
	api.Delete("/chat", chatHandler.HandleClose)

	return &testEnv{
		app:       app,
		userID:    userID,
		identity:  identity,
		profiles:  profiles,
		catalog:   catalog,
		selection: selection,
		functions: functions,
	}
}
