package domain

import (
	"fmt"
	"slices"
)

const (
	// AnswerYes is the only primary answer that opens a follow-up.
	AnswerYes = "Yes"
	// AnswerUnknown is excluded from the scoring denominator.
	AnswerUnknown = "I don't know"
)

// FollowUp is the conditional sub-question asked after a "Yes".
type FollowUp struct {
	Text    string         `yaml:"text" json:"text"`
	Options []string       `yaml:"options" json:"options"`
	Points  map[string]int `yaml:"points" json:"points"`
}

// QuestionDefinition represents one primary item of a question set
type QuestionDefinition struct {
	ID         int            `yaml:"id" json:"id"`
	Text       string         `yaml:"text" json:"text"`
	Category   string         `yaml:"category,omitempty" json:"category,omitempty"`
	Options    []string       `yaml:"options,omitempty" json:"options,omitempty"`
	Points     map[string]int `yaml:"points,omitempty" json:"points,omitempty"`
	FollowUp   *FollowUp      `yaml:"follow_up,omitempty" json:"follow_up,omitempty"`
	IsFreeText bool           `yaml:"is_free_text,omitempty" json:"is_free_text,omitempty"`
	Hint       string         `yaml:"hint,omitempty" json:"hint,omitempty"`
}

// HasOption reports whether answer is one of the primary options.
func (q *QuestionDefinition) HasOption(answer string) bool {
	return slices.Contains(q.Options, answer)
}

// HasFollowUpOption reports whether answer is one of the follow-up options.
func (q *QuestionDefinition) HasFollowUpOption(answer string) bool {
	return q.FollowUp != nil && slices.Contains(q.FollowUp.Options, answer)
}

// Scored reports whether responses to q contribute to the score.
func (q *QuestionDefinition) Scored() bool {
	return q.Category != "" && !q.IsFreeText
}

// MaxPoints is the worst-case weight reachable through q or its follow-up.
func (q *QuestionDefinition) MaxPoints() int {
	highest := 0
	for _, p := range q.Points {
		highest = max(highest, p)
	}
	if q.FollowUp != nil {
		for _, p := range q.FollowUp.Points {
			highest = max(highest, p)
		}
	}
	return highest
}

// PointsFor looks the answer up in the primary points first, then in the follow-up points.
func (q *QuestionDefinition) PointsFor(answer string) int {
	if p, ok := q.Points[answer]; ok {
		return p
	}
	if q.FollowUp != nil {
		if p, ok := q.FollowUp.Points[answer]; ok {
			return p
		}
	}
	return 0
}

// Validate validates the question definition
func (q *QuestionDefinition) Validate() error {
	if q.Text == "" {
		return NewDefinitionError(fmt.Sprintf("question %d: text is required", q.ID))
	}
	if q.IsFreeText {
		if len(q.Options) > 0 || len(q.Points) > 0 || q.FollowUp != nil {
			return NewDefinitionError(fmt.Sprintf("question %d: free-text questions take no options, points or follow-up", q.ID))
		}
		return nil
	}
	if err := validateChoices(q.ID, "options", q.Options, q.Points); err != nil {
		return err
	}
	if q.FollowUp != nil {
		if !q.HasOption(AnswerYes) {
			return NewDefinitionError(fmt.Sprintf("question %d: a follow-up requires a %q option", q.ID, AnswerYes))
		}
		if q.FollowUp.Text == "" {
			return NewDefinitionError(fmt.Sprintf("question %d: follow-up text is required", q.ID))
		}
		if err := validateChoices(q.ID, "follow-up options", q.FollowUp.Options, q.FollowUp.Points); err != nil {
			return err
		}
	}
	return nil
}

func validateChoices(id int, label string, options []string, points map[string]int) error {
	if len(options) == 0 {
		return NewDefinitionError(fmt.Sprintf("question %d: %s are required", id, label))
	}
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if _, dup := seen[opt]; dup {
			return NewDefinitionError(fmt.Sprintf("question %d: duplicate option %q", id, opt))
		}
		seen[opt] = struct{}{}
		p, ok := points[opt]
		if !ok {
			return NewDefinitionError(fmt.Sprintf("question %d: %s %q has no points", id, label, opt))
		}
		if p < 0 {
			return NewDefinitionError(fmt.Sprintf("question %d: %s %q has negative points", id, label, opt))
		}
	}
	return nil
}

// QuestionSet is the ordered, immutable list a questionnaire walks through.
type QuestionSet []QuestionDefinition

// Validate checks every definition and id uniqueness.
func (s QuestionSet) Validate() error {
	if len(s) == 0 {
		return NewDefinitionError("question set is empty")
	}
	ids := make(map[int]struct{}, len(s))
	for i := range s {
		if _, dup := ids[s[i].ID]; dup {
			return NewDefinitionError(fmt.Sprintf("duplicate question id %d", s[i].ID))
		}
		ids[s[i].ID] = struct{}{}
		if err := s[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ByID returns the definition with the given id.
func (s QuestionSet) ByID(id int) (*QuestionDefinition, bool) {
	for i := range s {
		if s[i].ID == id {
			return &s[i], true
		}
	}
	return nil, false
}

// InvalidDefinitionError represents a question set that breaks its invariants
type InvalidDefinitionError struct {
	message string
}

func (e *InvalidDefinitionError) Error() string {
	return e.message
}

func NewDefinitionError(message string) error {
	return &InvalidDefinitionError{message: message}
}
