package services

import (
	"sync"

	"github.com/google/uuid"

	"niapath/guidance-api/internal/repositories"
)

// UserSession bundles the per-user view state: the profile editor owns the
// in-progress selection sets, the viewer owns the current recommendation.
type UserSession struct {
	Editor *ProfileEditor
	Viewer *RecommendationViewer
}

// SessionManager creates user sessions on demand and tears them down on
// sign-out.
type SessionManager struct {
	profileRepo    repositories.ProfileRepository
	catalogRepo    repositories.CatalogRepository
	selectionRepo  repositories.SelectionRepository
	universityRepo repositories.UniversityRepository
	functions      FunctionClient

	mu       sync.Mutex
	sessions map[uuid.UUID]*UserSession
}

func NewSessionManager(
	profileRepo repositories.ProfileRepository,
	catalogRepo repositories.CatalogRepository,
	selectionRepo repositories.SelectionRepository,
	universityRepo repositories.UniversityRepository,
	functions FunctionClient,
) *SessionManager {
	return &SessionManager{
		profileRepo:    profileRepo,
		catalogRepo:    catalogRepo,
		selectionRepo:  selectionRepo,
		universityRepo: universityRepo,
		functions:      functions,
		sessions:       make(map[uuid.UUID]*UserSession),
	}
}

// Get returns the session for a user, creating it on first use.
func (m *SessionManager) Get(userID uuid.UUID) *UserSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		session = &UserSession{
			Editor: NewProfileEditor(userID, m.profileRepo, m.catalogRepo, m.selectionRepo),
			Viewer: NewRecommendationViewer(m.functions, m.universityRepo),
		}
		m.sessions[userID] = session
	}

	return session
}

// Drop discards a user's session state, including any recommendation and
// chat transcript.
func (m *SessionManager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
