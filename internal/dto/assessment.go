package dto

import (
	"time"

	"risk-scorecard/internal/domain"
)

// FollowUpResponse is the conditional follow-up of a question
type FollowUpResponse struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuestionResponse represents a question definition in the API response
// @Description Question definition
type QuestionResponse struct {
	ID         int               `json:"id"`
	Text       string            `json:"text"`
	Category   string            `json:"category"`
	Options    []string          `json:"options,omitempty"`
	IsFreeText bool              `json:"is_free_text"`
	Hint       string            `json:"hint,omitempty"`
	FollowUp   *FollowUpResponse `json:"follow_up,omitempty"`
}

// QuestionListResponse is the full question set
type QuestionListResponse struct {
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

// PromptResponse is the pending question of a session
// @Description The question the respondent should answer next
type PromptResponse struct {
	ResponseID string   `json:"response_id"`
	QuestionID int      `json:"question_id"`
	Category   string   `json:"category"`
	Text       string   `json:"text"`
	Options    []string `json:"options,omitempty"`
	IsFreeText bool     `json:"is_free_text"`
	Hint       string   `json:"hint,omitempty"`
	IsFollowUp bool     `json:"is_follow_up"`
}

// SessionResponse is the state of a questionnaire session
// @Description Questionnaire session state
type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Done      bool                   `json:"done"`
	Answered  int                    `json:"answered"`
	Total     int                    `json:"total"`
	Current   *PromptResponse        `json:"current,omitempty"`
	Responses []domain.ResponseEntry `json:"responses"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SubmitAnswerRequest represents one answer in the API request
// @Description Request body for answering the current question
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// Classification status of a report
const (
	ClassificationPending = "pending"
	ClassificationDone    = "done"
)

// CategoryResultResponse is one category line of a report, with its advice
type CategoryResultResponse struct {
	Category string      `json:"category"`
	Points   int         `json:"points"`
	Tier     domain.Tier `json:"tier"`
	Advice   string      `json:"advice,omitempty"`
	Link     string      `json:"link,omitempty"`
	Icon     string      `json:"icon,omitempty"`
}

// NoteResultResponse is a free-text note with its verdict, if any yet
type NoteResultResponse struct {
	Note    string              `json:"note"`
	Verdict *domain.NoteVerdict `json:"verdict,omitempty"`
}

// ReportResponse represents a scored questionnaire in the API response
// @Description Scored report
type ReportResponse struct {
	SessionID            string                   `json:"session_id,omitempty"`
	Title                string                   `json:"title"`
	OverallScore         domain.Score             `json:"overall_score" swaggertype:"string"`
	OverallRisk          domain.Tier              `json:"overall_risk,omitempty"`
	Earned               int                      `json:"earned"`
	Possible             int                      `json:"possible"`
	Categories           []CategoryResultResponse `json:"categories"`
	Notes                []NoteResultResponse     `json:"notes"`
	ClassificationStatus string                   `json:"classification_status"`
	GeneratedAt          time.Time                `json:"generated_at"`
}

// ScoreRequest scores a saved response log without a session
// @Description Request body for scoring a response log
type ScoreRequest struct {
	Responses []domain.ResponseEntry `json:"responses"`
}

// ClassifyNoteRequest represents a note to classify
// @Description Request body for classifying a free-text note
type ClassifyNoteRequest struct {
	Note string `json:"note"`
}

// ClassifyNoteResponse is the verdict for one note
type ClassifyNoteResponse struct {
	Note           string                `json:"note"`
	Classification domain.Classification `json:"classification"`
	Explanation    string                `json:"explanation"`
	DoctorAdvice   string                `json:"doctor_advice"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}
