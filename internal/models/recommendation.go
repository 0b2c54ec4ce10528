package models

// Transient recommendation types. A recommendation is held only in view
// state for the lifetime of a page view and never persisted.

type RecommendedDegree struct {
	Title      string `json:"title"`
	University string `json:"university"`
	Website    string `json:"website,omitempty"`
}

type Alternative struct {
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

type Recommendation struct {
	Title              string              `json:"title"`
	Explanation        string              `json:"explanation"`
	Description        string              `json:"description"`
	Score              float64             `json:"score"`
	RecommendedDegrees []RecommendedDegree `json:"recommended_degrees"`
}

// RecommendationResult is the payload of the recommendation function: one
// primary result plus ranked alternatives.
type RecommendationResult struct {
	Recommendation Recommendation `json:"recommendation"`
	Alternatives   []Alternative  `json:"alternatives"`
}

// Report function response.

type ReportFits struct {
	InterestFit string `json:"interest_fit"`
	IndustryFit string `json:"industry_fit"`
	SubjectFit  string `json:"subject_fit"`
}

type ReportTopRecommendation struct {
	Details string     `json:"details"`
	Fits    ReportFits `json:"fits"`
}

type ReportContent struct {
	UserDescription    string                  `json:"user_description"`
	TopRecommendation  ReportTopRecommendation `json:"top_recommendation"`
	RecommendedDegrees string                  `json:"recommended_degrees"`
}

type ReportPayload struct {
	ReportContent  ReportContent `json:"report_content"`
	Recommendation struct {
		Title string `json:"title"`
	} `json:"recommendation"`
}
