package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Tier is a coarse risk level
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

// notApplicable is the wire form of a Score without scoreable responses.
const notApplicable = "N/A"

// Score is the 0-100 safety index, or not applicable when nothing scoreable was answered.
type Score struct {
	Value      int
	Applicable bool
}

// NotApplicable is the score of a report with no points in play.
func NotApplicable() Score {
	return Score{}
}

// ScoreOf returns an applicable score.
func ScoreOf(v int) Score {
	return Score{Value: v, Applicable: true}
}

func (s Score) String() string {
	if !s.Applicable {
		return notApplicable
	}
	return strconv.Itoa(s.Value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Applicable {
		return json.Marshal(notApplicable)
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		*s = ScoreOf(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil || str != notApplicable {
		return fmt.Errorf("score must be a number or %q", notApplicable)
	}
	*s = NotApplicable()
	return nil
}

// CategoryScoreEntry is the points earned in one category
type CategoryScoreEntry struct {
	Category     string `json:"category"`
	EarnedPoints int    `json:"earned_points"`
	Tier         Tier   `json:"tier"`
}

// Report is the scored outcome of one finished questionnaire
type Report struct {
	OverallScore        Score                  `json:"overall_score"`
	OverallRisk         Tier                   `json:"overall_risk,omitempty"`
	Earned              int                    `json:"earned"`
	Possible            int                    `json:"possible"`
	CategoryScores      []CategoryScoreEntry   `json:"category_scores"`
	CategoryRiskTiers   map[string]Tier        `json:"category_risk_tiers"`
	FreeTextNotes       []string               `json:"free_text_notes"`
	NoteClassifications map[string]NoteVerdict `json:"note_classifications,omitempty"`
}

// WithClassifications returns a copy of r annotated with verdicts.
func (r *Report) WithClassifications(verdicts map[string]NoteVerdict) *Report {
	annotated := *r
	annotated.NoteClassifications = verdicts
	return &annotated
}
