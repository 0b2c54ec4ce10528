package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"niapath/guidance-api/internal/config"
)

const testDevUserID = "d3c25e6a-71a0-4b0d-a125-8e0731c06a8b"

func newTestIdentity(t *testing.T, cfg config.IdentityConfig) IdentityService {
	t.Helper()
	if cfg.DevUserID == "" {
		cfg.DevUserID = testDevUserID
	}
	service, err := NewIdentityService(cfg)
	if err != nil {
		t.Fatalf("failed to build identity service: %v", err)
	}
	return service
}

func TestResolveUserIDDevMode(t *testing.T) {
	service := newTestIdentity(t, config.IdentityConfig{DevMode: true})

	// Dev mode ignores the header entirely.
	userID, err := service.ResolveUserID("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if userID.String() != testDevUserID {
		t.Errorf("expected dev user id, got %s", userID)
	}
}

func TestResolveUserIDFromBearerToken(t *testing.T) {
	secret := "test-secret"
	service := newTestIdentity(t, config.IdentityConfig{JWTSecret: secret})

	subject := uuid.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	userID, err := service.ResolveUserID("Bearer " + signed)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if userID != subject {
		t.Errorf("expected %s, got %s", subject, userID)
	}
}

func TestResolveUserIDRejectsBadTokens(t *testing.T) {
	service := newTestIdentity(t, config.IdentityConfig{JWTSecret: "test-secret"})

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signedWithWrongKey, err := wrongKey.SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + signedWithWrongKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.ResolveUserID(tc.header); !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestSignInReturnsSession(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("expected password grant, got %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("expected apikey header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "token-123",
			"refresh_token": "refresh-456",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "` + testDevUserID + `", "email": "ada@example.com"}
		}`))
	}))
	defer provider.Close()

	service := newTestIdentity(t, config.IdentityConfig{
		BaseURL: provider.URL,
		AnonKey: "anon-key",
	})

	session, err := service.SignIn(context.Background(), "ada@example.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session.AccessToken != "token-123" {
		t.Errorf("expected access token, got %q", session.AccessToken)
	}
	if session.User.Email != "ada@example.com" {
		t.Errorf("expected user email, got %q", session.User.Email)
	}
}

func TestSignInSurfacesProviderMessage(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description": "Invalid login credentials"}`))
	}))
	defer provider.Close()

	service := newTestIdentity(t, config.IdentityConfig{BaseURL: provider.URL})

	_, err := service.SignIn(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected sign in to fail")
	}
	// The provider's message reaches the user unmodified.
	if err.Error() != "Invalid login credentials" {
		t.Errorf("expected provider message, got %q", err.Error())
	}
}

func TestSignInFallsBackOnOpaqueError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer provider.Close()

	service := newTestIdentity(t, config.IdentityConfig{BaseURL: provider.URL})

	_, err := service.SignIn(context.Background(), "ada@example.com", "pw")
	if err == nil {
		t.Fatal("expected sign in to fail")
	}
	if err.Error() != "Authentication failed" {
		t.Errorf("expected fallback message, got %q", err.Error())
	}
}

func TestSignOutSendsBearerToken(t *testing.T) {
	var gotAuth string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer provider.Close()

	service := newTestIdentity(t, config.IdentityConfig{BaseURL: provider.URL})

	if err := service.SignOut(context.Background(), "token-123"); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("expected bearer token forwarded, got %q", gotAuth)
	}
}
