package validation

import (
	"strings"
	"unicode/utf8"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/util"
)

const (
	// MaxAnswerLength bounds a single answer, free-text notes included.
	MaxAnswerLength = 2000
	// MaxResponses bounds a saved response log submitted for scoring.
	MaxResponses = 200
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID validates a session id path parameter
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !util.IsULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", id))
	}

	return errors
}

// ValidateAnswer validates one submitted answer. Empty answers are allowed
// because a free-text question may be left blank; membership in the option
// list is the engine's concern.
func (v *Validator) ValidateAnswer(answer string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if n := utf8.RuneCountInString(answer); n > MaxAnswerLength {
		errors = append(errors, domain.NewOutOfRangeError("answer", n, 0, MaxAnswerLength))
	}

	return errors
}

// ValidateNote validates a note sent for classification
func (v *Validator) ValidateNote(note string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(note) == "" {
		errors = append(errors, domain.NewMissingFieldError("note"))
	} else if n := utf8.RuneCountInString(note); n > MaxAnswerLength {
		errors = append(errors, domain.NewOutOfRangeError("note", n, 1, MaxAnswerLength))
	}

	return errors
}

// ValidateResponses validates a saved response log
func (v *Validator) ValidateResponses(responses []domain.ResponseEntry) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(responses) == 0 {
		errors = append(errors, domain.NewMissingFieldError("responses"))
		return errors
	}
	if len(responses) > MaxResponses {
		errors = append(errors, domain.NewOutOfRangeError("responses", len(responses), 1, MaxResponses))
		return errors
	}
	for _, r := range responses {
		if r.QuestionID.Question <= 0 {
			errors = append(errors, domain.NewInvalidFormatError("question_id", r.QuestionID.String()))
		}
		if n := utf8.RuneCountInString(r.Answer); n > MaxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answer", n, 0, MaxAnswerLength))
		}
	}

	return errors
}

// ValidateExportFormat validates the export format query parameter
func (v *Validator) ValidateExportFormat(format string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	switch strings.ToLower(format) {
	case "md", "markdown", "html":
	default:
		errors = append(errors, domain.NewInvalidFormatError("format", format))
	}

	return errors
}
