package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"niapath/guidance-api/internal/config"
	"niapath/guidance-api/internal/models"
)

// FunctionAuth selects how a function call is authenticated: the session's
// bearer token, or (in dev mode) the fixed test user id passed in the body.
type FunctionAuth struct {
	AccessToken string
	UserID      uuid.UUID
	Dev         bool
}

// FunctionError carries the status and server-provided message of a failed
// function call, when one is present.
type FunctionError struct {
	StatusCode int
	Message    string
}

func (e *FunctionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("function call failed with status %d", e.StatusCode)
}

// ReportRequest is the payload of the report-formatting function.
type ReportRequest struct {
	User           models.ProfileFields  `json:"user"`
	Recommendation models.Recommendation `json:"recommendation"`
	Alternatives   []models.Alternative  `json:"alternatives"`
}

// FunctionClient is the typed client for the serverless function
// collaborators. Endpoint and key come from configuration, never from
// source literals.
type FunctionClient interface {
	GetRecommendation(ctx context.Context, auth FunctionAuth) (*models.RecommendationResult, error)
	GenerateReport(ctx context.Context, auth FunctionAuth, req ReportRequest) (*models.ReportPayload, error)
	Chat(ctx context.Context, auth FunctionAuth, recommendation *models.RecommendationResult, history []models.ChatMessage, newMessage string) (string, error)
}

type functionClient struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewFunctionClient(cfg config.FunctionsConfig) FunctionClient {
	return &functionClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// GetRecommendation implements FunctionClient.
func (c *functionClient) GetRecommendation(ctx context.Context, auth FunctionAuth) (*models.RecommendationResult, error) {
	body := map[string]interface{}{}
	if auth.Dev {
		body["user_id"] = auth.UserID.String()
	}

	var result models.RecommendationResult
	if err := c.invoke(ctx, auth, "/functions/v1/get-recommendation", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GenerateReport implements FunctionClient.
func (c *functionClient) GenerateReport(ctx context.Context, auth FunctionAuth, req ReportRequest) (*models.ReportPayload, error) {
	var payload models.ReportPayload
	if err := c.invoke(ctx, auth, "/functions/v1/generate-report", req, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// Chat implements FunctionClient.
func (c *functionClient) Chat(ctx context.Context, auth FunctionAuth, recommendation *models.RecommendationResult, history []models.ChatMessage, newMessage string) (string, error) {
	body := map[string]interface{}{
		"recOutput":   recommendation,
		"chatHistory": history,
		"newMessage":  newMessage,
	}

	var reply struct {
		Reply string `json:"reply"`
	}
	if err := c.invoke(ctx, auth, "/functions/v1/chat-llm", body, &reply); err != nil {
		return "", err
	}

	return reply.Reply, nil
}

func (c *functionClient) invoke(ctx context.Context, auth FunctionAuth, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode function payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build function request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if !auth.Dev && auth.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("function request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FunctionError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed function response: %w", err)
	}

	return nil
}

func serverMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}

	if parsed.Error != "" {
		return parsed.Error
	}
	return parsed.Message
}
