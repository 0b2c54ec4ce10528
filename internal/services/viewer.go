package services

import (
	"context"
	"errors"
	"sync"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/repositories"
)

type ViewerState string

const (
	ViewerEmpty        ViewerState = "empty"
	ViewerRequesting   ViewerState = "requesting"
	ViewerDisplaying   ViewerState = "displaying"
	ViewerRequestError ViewerState = "request_error"
)

var (
	// ErrRequestInFlight rejects a recommendation request while one is
	// already running.
	ErrRequestInFlight = errors.New("recommendation request already in flight")

	// ErrNoRecommendation guards operations that need a displayed result.
	ErrNoRecommendation = errors.New("no recommendation to act on")

	// ErrExportInFlight rejects a report export while one is already
	// running. Chat stays available during an export.
	ErrExportInFlight = errors.New("report export already in flight")
)

const genericRequestError = "Failed to get recommendation. Please try again."

// RecommendationViewer owns the current recommendation for the lifetime of
// a page view. A new request fully replaces the prior value only after the
// response is received and parsed; there is never a partial overwrite.
type RecommendationViewer struct {
	functions    FunctionClient
	universities repositories.UniversityRepository

	mu        sync.Mutex
	state     ViewerState
	result    *models.RecommendationResult
	errMsg    string
	exporting bool
	chat      *Chat
}

func NewRecommendationViewer(functions FunctionClient, universities repositories.UniversityRepository) *RecommendationViewer {
	return &RecommendationViewer{
		functions:    functions,
		universities: universities,
		state:        ViewerEmpty,
	}
}

// Request calls the recommendation function and replaces the displayed
// result wholesale on success. On failure the viewer moves to request_error
// with the server-provided message when there is one.
func (v *RecommendationViewer) Request(ctx context.Context, auth FunctionAuth) (*models.RecommendationResult, error) {
	v.mu.Lock()
	if v.state == ViewerRequesting {
		v.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	v.state = ViewerRequesting
	v.mu.Unlock()

	result, err := v.functions.GetRecommendation(ctx, auth)
	if err != nil {
		msg := genericRequestError
		var fnErr *FunctionError
		if errors.As(err, &fnErr) && fnErr.Message != "" {
			msg = fnErr.Message
		}

		v.mu.Lock()
		v.state = ViewerRequestError
		v.result = nil
		v.errMsg = msg
		v.mu.Unlock()
		return nil, err
	}

	v.enrichDegrees(result)

	v.mu.Lock()
	v.state = ViewerDisplaying
	v.result = result
	v.errMsg = ""
	v.mu.Unlock()

	return result, nil
}

// enrichDegrees attaches catalog websites to recommended degrees. Lookup
// failures leave the degrees as the function returned them.
func (v *RecommendationViewer) enrichDegrees(result *models.RecommendationResult) {
	degrees := result.Recommendation.RecommendedDegrees
	if len(degrees) == 0 {
		return
	}

	names := make([]string, 0, len(degrees))
	for _, degree := range degrees {
		names = append(names, degree.University)
	}

	universities, err := v.universities.FindByNames(names)
	if err != nil {
		return
	}

	websites := make(map[string]string, len(universities))
	for _, u := range universities {
		websites[u.Name] = u.Website
	}
	for i := range degrees {
		degrees[i].Website = websites[degrees[i].University]
	}
}

// State snapshots the viewer for the caller.
func (v *RecommendationViewer) State() models.RecommendationStateResponse {
	v.mu.Lock()
	defer v.mu.Unlock()

	return models.RecommendationStateResponse{
		State:          string(v.state),
		Recommendation: v.result,
		ErrorMessage:   v.errMsg,
	}
}

// Current returns the displayed recommendation, if any.
func (v *RecommendationViewer) Current() (*models.RecommendationResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != ViewerDisplaying || v.result == nil {
		return nil, ErrNoRecommendation
	}
	return v.result, nil
}

// BeginExport enters the exporting_report sub-state. It requires a
// displayed recommendation and rejects overlapping exports; it does not
// block chat interaction.
func (v *RecommendationViewer) BeginExport() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != ViewerDisplaying || v.result == nil {
		return ErrNoRecommendation
	}
	if v.exporting {
		return ErrExportInFlight
	}
	v.exporting = true
	return nil
}

// EndExport leaves the exporting_report sub-state, on completion or
// failure alike.
func (v *RecommendationViewer) EndExport() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.exporting = false
}

// Chat returns the viewer's chat, creating it on first use.
func (v *RecommendationViewer) Chat() *Chat {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.chat == nil {
		v.chat = NewChat(v.functions)
	}
	return v.chat
}

// CloseChat discards the transcript, as when the widget is unmounted.
func (v *RecommendationViewer) CloseChat() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chat = nil
}
