package validation

import (
	"strings"
	"testing"

	"risk-scorecard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSessionID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSessionID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	errs := v.ValidateSessionID("")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)

	errs = v.ValidateSessionID("session-1")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	assert.Equal(t, "session_id", errs[0].Field)
}

func TestValidateAnswer(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAnswer(""))
	assert.Empty(t, v.ValidateAnswer("Yes"))
	assert.Empty(t, v.ValidateAnswer(strings.Repeat("é", MaxAnswerLength)))

	errs := v.ValidateAnswer(strings.Repeat("a", MaxAnswerLength+1))
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
}

func TestValidateNote(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateNote("idk"))
	assert.Equal(t, domain.CodeMissingField, v.ValidateNote("  ")[0].Code)
	assert.Equal(t, domain.CodeOutOfRange, v.ValidateNote(strings.Repeat("a", MaxAnswerLength+1))[0].Code)
}

func TestValidateResponses(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateResponses([]domain.ResponseEntry{
		{QuestionID: domain.PrimaryID(1), Answer: "Yes"},
		{QuestionID: domain.FollowUpID(1), Answer: "Once"},
	}))
	assert.Equal(t, domain.CodeMissingField, v.ValidateResponses(nil)[0].Code)

	errs := v.ValidateResponses([]domain.ResponseEntry{
		{QuestionID: domain.PrimaryID(0), Answer: "Yes"},
		{QuestionID: domain.PrimaryID(2), Answer: strings.Repeat("a", MaxAnswerLength+1)},
	})
	require.Len(t, errs, 2)
	assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	assert.Equal(t, domain.CodeOutOfRange, errs[1].Code)

	tooMany := make([]domain.ResponseEntry, MaxResponses+1)
	assert.Equal(t, domain.CodeOutOfRange, v.ValidateResponses(tooMany)[0].Code)
}

func TestValidateExportFormat(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateExportFormat("md"))
	assert.Empty(t, v.ValidateExportFormat("HTML"))
	assert.Len(t, v.ValidateExportFormat("pdf"), 1)
	assert.Len(t, v.ValidateExportFormat(""), 1)
}
