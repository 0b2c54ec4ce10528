package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"niapath/guidance-api/internal/config"
	"niapath/guidance-api/internal/models"
)

// ErrUnauthenticated is returned when no usable identity can be resolved
// from a request.
var ErrUnauthenticated = errors.New("authentication required")

// IdentityService fronts the external identity provider. Sign-in/sign-up
// failures surface the provider's human-readable message unmodified. In dev
// mode, ResolveUserID substitutes a fixed test user id and skips real
// authentication.
type IdentityService interface {
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResolveUserID(authHeader string) (uuid.UUID, error)
	DevMode() bool
}

type identityService struct {
	baseURL   string
	anonKey   string
	jwtSecret string
	devMode   bool
	devUserID uuid.UUID
	client    *http.Client
}

func NewIdentityService(cfg config.IdentityConfig) (IdentityService, error) {
	devUserID, err := uuid.Parse(cfg.DevUserID)
	if err != nil {
		return nil, fmt.Errorf("invalid dev user id: %w", err)
	}

	return &identityService{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:   cfg.AnonKey,
		jwtSecret: cfg.JWTSecret,
		devMode:   cfg.DevMode,
		devUserID: devUserID,
		client:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// DevMode implements IdentityService.
func (s *identityService) DevMode() bool {
	return s.devMode
}

// SignUp implements IdentityService.
func (s *identityService) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	return s.credentialExchange(ctx, "/auth/v1/signup", email, password)
}

// SignIn implements IdentityService.
func (s *identityService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return s.credentialExchange(ctx, "/auth/v1/token?grant_type=password", email, password)
}

// SignOut implements IdentityService.
func (s *identityService) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build sign-out request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New(providerMessage(resp.Body, "Sign out failed"))
	}

	return nil
}

func (s *identityService) credentialExchange(ctx context.Context, path, email, password string) (*models.Session, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// The provider's message is shown to the user unmodified.
		return nil, errors.New(providerMessage(resp.Body, "Authentication failed"))
	}

	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// ResolveUserID is the single identity-resolution point for every screen.
func (s *identityService) ResolveUserID(authHeader string) (uuid.UUID, error) {
	if s.devMode {
		return s.devUserID, nil
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}

	return userID, nil
}

// providerMessage extracts a human-readable message from a provider error
// body, falling back to generic text.
func providerMessage(body io.Reader, fallback string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return fallback
	}

	var parsed struct {
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fallback
	}

	for _, candidate := range []string{parsed.ErrorDescription, parsed.Message, parsed.Msg, parsed.Error} {
		if candidate != "" {
			return candidate
		}
	}

	return fallback
}
