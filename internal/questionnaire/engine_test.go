package questionnaire

import (
	"testing"

	"risk-scorecard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions() domain.QuestionSet {
	yesNo := []string{"Yes", "No", "I don't know"}
	return domain.QuestionSet{
		{
			ID:       1,
			Text:     "Have you fallen in the past 12 months?",
			Category: "Fall History",
			Options:  yesNo,
			Points:   map[string]int{"Yes": 6, "No": 0, "I don't know": 0},
			FollowUp: &domain.FollowUp{
				Text:    "How many times?",
				Options: []string{"Once", "2–3 times", "More than 3 times", "I don't know"},
				Points:  map[string]int{"Once": 2, "2–3 times": 4, "More than 3 times": 6, "I don't know": 0},
			},
		},
		{
			ID:       2,
			Text:     "Do you live alone?",
			Category: "Social",
			Options:  yesNo,
			Points:   map[string]int{"Yes": 2, "No": 0, "I don't know": 0},
		},
		{
			ID:         3,
			Text:       "Anything else?",
			Category:   "Notes",
			IsFreeText: true,
			Hint:       "Describe your home.",
		},
	}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testQuestions())
	require.NoError(t, err)
	return e
}

func TestNew_RejectsInvalidSet(t *testing.T) {
	qs := testQuestions()
	qs[1].Points = map[string]int{"Yes": 2}

	_, err := New(qs)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidQuestionSet))
}

func TestEngine_FollowUpFlow(t *testing.T) {
	e := newEngine(t)

	p, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "1", p.ResponseID.String())
	assert.False(t, p.IsFollowUp)

	require.NoError(t, e.Answer("Yes"))
	assert.Equal(t, Cursor{Index: 0, Stage: AtFollowUp}, e.Cursor())

	p, ok = e.Current()
	require.True(t, ok)
	assert.True(t, p.IsFollowUp)
	assert.Equal(t, "How many times?", p.Text)
	assert.Equal(t, "1-followUp", p.ResponseID.String())

	require.NoError(t, e.Answer("2–3 times"))
	assert.Equal(t, Cursor{Index: 1, Stage: AtPrimary}, e.Cursor())

	require.NoError(t, e.Answer("No"))
	p, ok = e.Current()
	require.True(t, ok)
	assert.True(t, p.IsFreeText)
	assert.Equal(t, "Describe your home.", p.Hint)

	require.NoError(t, e.Answer("Loose rugs in the hallway"))
	assert.True(t, e.Done())

	_, ok = e.Current()
	assert.False(t, ok)

	responses, err := e.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []domain.ResponseEntry{
		{QuestionID: domain.PrimaryID(1), Answer: "Yes"},
		{QuestionID: domain.FollowUpID(1), Answer: "2–3 times"},
		{QuestionID: domain.PrimaryID(2), Answer: "No"},
		{QuestionID: domain.PrimaryID(3), Answer: "Loose rugs in the hallway"},
	}, responses)
	assert.Equal(t, []string{"Loose rugs in the hallway"}, e.Notes())
}

func TestEngine_NonYesSkipsFollowUp(t *testing.T) {
	for _, answer := range []string{"No", "I don't know"} {
		t.Run(answer, func(t *testing.T) {
			e := newEngine(t)
			require.NoError(t, e.Answer(answer))
			assert.Equal(t, Cursor{Index: 1, Stage: AtPrimary}, e.Cursor())
			assert.Len(t, e.Responses(), 1)
		})
	}
}

func TestEngine_RejectsInvalidAnswer(t *testing.T) {
	e := newEngine(t)

	err := e.Answer("Maybe")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidAnswer))
	assert.Equal(t, Cursor{}, e.Cursor())
	assert.Empty(t, e.Responses())

	require.NoError(t, e.Answer("Yes"))
	// a primary option is not a follow-up option
	err = e.Answer("No")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidAnswer))
	assert.Equal(t, Cursor{Index: 0, Stage: AtFollowUp}, e.Cursor())
	assert.Len(t, e.Responses(), 1)
}

func TestEngine_TerminalRejectsAnswers(t *testing.T) {
	e := newEngine(t)
	for _, a := range []string{"No", "No", ""} {
		require.NoError(t, e.Answer(a))
	}
	require.True(t, e.Done())

	err := e.Answer("Yes")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeQuestionnaireFinished))
	assert.Len(t, e.Responses(), 3)
}

func TestEngine_FinalizeBeforeDone(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Answer("No"))

	_, err := e.Finalize()
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeQuestionnaireIncomplete))

	answered, total := e.Progress()
	assert.Equal(t, 1, answered)
	assert.Equal(t, 3, total)
}

func TestEngine_ResponseCountMatchesPath(t *testing.T) {
	paths := []struct {
		answers       []string
		wantResponses int
	}{
		{answers: []string{"No", "No", "note"}, wantResponses: 3},
		{answers: []string{"Yes", "Once", "Yes", "note"}, wantResponses: 4},
		{answers: []string{"I don't know", "I don't know", ""}, wantResponses: 3},
	}

	for _, p := range paths {
		e := newEngine(t)
		for _, a := range p.answers {
			require.NoError(t, e.Answer(a))
		}
		assert.True(t, e.Done())
		assert.Len(t, e.Responses(), p.wantResponses)
	}
}

func TestEngine_ResponsesAreCopies(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Answer("No"))

	r := e.Responses()
	r[0].Answer = "Yes"
	assert.Equal(t, "No", e.Responses()[0].Answer)

	p, _ := e.Current()
	p.Options[0] = "changed"
	p2, _ := e.Current()
	assert.Equal(t, "Yes", p2.Options[0])
}
