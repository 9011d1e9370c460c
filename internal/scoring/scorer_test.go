package scoring

import (
	"testing"

	"risk-scorecard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var balance = domain.QuestionDefinition{
	ID:       1,
	Text:     "Do you feel unsteady when walking?",
	Category: "Balance",
	Options:  []string{"Yes", "No", "I don't know"},
	Points:   map[string]int{"Yes": 4, "No": 0, "I don't know": 0},
}

var falls = domain.QuestionDefinition{
	ID:       2,
	Text:     "Have you fallen in the past 12 months?",
	Category: "Fall History",
	Options:  []string{"Yes", "No", "I don't know"},
	Points:   map[string]int{"Yes": 6, "No": 0, "I don't know": 0},
	FollowUp: &domain.FollowUp{
		Text:    "How many times?",
		Options: []string{"Once", "2–3 times", "More than 3 times", "I don't know"},
		Points:  map[string]int{"Once": 2, "2–3 times": 4, "More than 3 times": 6, "I don't know": 0},
	},
}

var notes = domain.QuestionDefinition{
	ID:         3,
	Text:       "Anything else?",
	Category:   "Notes",
	IsFreeText: true,
}

func entry(id domain.ResponseID, answer string) domain.ResponseEntry {
	return domain.ResponseEntry{QuestionID: id, Answer: answer}
}

func TestScore_SingleQuestionNo(t *testing.T) {
	report := Score(domain.QuestionSet{balance}, []domain.ResponseEntry{entry(domain.PrimaryID(1), "No")})

	assert.Equal(t, domain.ScoreOf(100), report.OverallScore)
	assert.Equal(t, domain.TierLow, report.OverallRisk)
	assert.Equal(t, domain.TierLow, report.CategoryRiskTiers["Balance"])
	require.Len(t, report.CategoryScores, 1)
	assert.Equal(t, 0, report.CategoryScores[0].EarnedPoints)
}

func TestScore_SingleQuestionYes(t *testing.T) {
	report := Score(domain.QuestionSet{balance}, []domain.ResponseEntry{entry(domain.PrimaryID(1), "Yes")})

	assert.Equal(t, domain.ScoreOf(0), report.OverallScore)
	assert.Equal(t, domain.TierHigh, report.OverallRisk)
	assert.Equal(t, domain.TierModerate, report.CategoryRiskTiers["Balance"])
	assert.Equal(t, 4, report.CategoryScores[0].EarnedPoints)
}

func TestScore_FollowUp(t *testing.T) {
	t.Run("follow-up entry scores its own answer against the question maximum", func(t *testing.T) {
		report := Score(domain.QuestionSet{falls}, []domain.ResponseEntry{
			entry(domain.FollowUpID(2), "2–3 times"),
		})
		assert.Equal(t, 4, report.Earned)
		assert.Equal(t, 6, report.Possible)
		assert.Equal(t, 4, report.CategoryScores[0].EarnedPoints)
	})

	t.Run("primary and follow-up both count", func(t *testing.T) {
		report := Score(domain.QuestionSet{falls}, []domain.ResponseEntry{
			entry(domain.PrimaryID(2), "Yes"),
			entry(domain.FollowUpID(2), "2–3 times"),
		})
		assert.Equal(t, 10, report.Earned)
		assert.Equal(t, 12, report.Possible)
		// round(100 - 10/12*100) = round(16.67)
		assert.Equal(t, domain.ScoreOf(17), report.OverallScore)
		assert.Equal(t, domain.TierHigh, report.CategoryRiskTiers["Fall History"])
	})
}

func TestScore_AllUnknownIsNotApplicable(t *testing.T) {
	report := Score(domain.QuestionSet{balance, falls}, []domain.ResponseEntry{
		entry(domain.PrimaryID(1), domain.AnswerUnknown),
		entry(domain.PrimaryID(2), domain.AnswerUnknown),
	})

	assert.False(t, report.OverallScore.Applicable)
	assert.Equal(t, "N/A", report.OverallScore.String())
	assert.Empty(t, report.OverallRisk)
	assert.Equal(t, 0, report.Possible)
	assert.Equal(t, domain.TierLow, report.CategoryRiskTiers["Balance"])
}

func TestScore_UnknownNeverChangesPossible(t *testing.T) {
	qs := domain.QuestionSet{balance, falls}
	weighted := falls
	weighted.Points = map[string]int{"Yes": 6, "No": 0, "I don't know": 5}

	base := Score(qs, []domain.ResponseEntry{entry(domain.PrimaryID(1), "Yes")})
	withUnknown := Score(domain.QuestionSet{balance, weighted}, []domain.ResponseEntry{
		entry(domain.PrimaryID(1), "Yes"),
		entry(domain.PrimaryID(2), domain.AnswerUnknown),
		entry(domain.FollowUpID(2), domain.AnswerUnknown),
	})

	assert.Equal(t, base.Possible, withUnknown.Possible)
	assert.Equal(t, base.Earned, withUnknown.Earned)
	assert.Equal(t, base.OverallScore, withUnknown.OverallScore)
	assert.Equal(t, 0, withUnknown.CategoryScores[1].EarnedPoints)
}

func TestScore_FreeTextNotes(t *testing.T) {
	report := Score(domain.QuestionSet{balance, notes}, []domain.ResponseEntry{
		entry(domain.PrimaryID(1), "No"),
		entry(domain.PrimaryID(3), "My stairs have no handrail"),
		entry(domain.PrimaryID(3), "   "),
	})

	assert.Equal(t, []string{"My stairs have no handrail"}, report.FreeTextNotes)
	_, scored := report.CategoryRiskTiers["Notes"]
	assert.False(t, scored)
	assert.Equal(t, 0, report.Possible-balance.MaxPoints())
}

func TestScore_SkipsUnknownAndUncategorized(t *testing.T) {
	uncategorized := balance
	uncategorized.ID = 9
	uncategorized.Category = ""

	report := Score(domain.QuestionSet{balance, uncategorized}, []domain.ResponseEntry{
		entry(domain.PrimaryID(42), "Yes"),
		entry(domain.FollowUpID(42), "Once"),
		entry(domain.PrimaryID(9), "Yes"),
		entry(domain.PrimaryID(1), "Bogus"),
	})

	assert.Equal(t, 0, report.Earned)
	assert.Equal(t, 4, report.Possible)
	assert.Equal(t, domain.ScoreOf(100), report.OverallScore)
	assert.Len(t, report.CategoryScores, 1)
}

func TestScore_CategoryOrderFollowsResponses(t *testing.T) {
	report := Score(domain.QuestionSet{balance, falls}, []domain.ResponseEntry{
		entry(domain.PrimaryID(2), "No"),
		entry(domain.PrimaryID(1), "No"),
	})

	require.Len(t, report.CategoryScores, 2)
	assert.Equal(t, "Fall History", report.CategoryScores[0].Category)
	assert.Equal(t, "Balance", report.CategoryScores[1].Category)
}

func TestScore_Idempotent(t *testing.T) {
	qs := domain.QuestionSet{balance, falls, notes}
	responses := []domain.ResponseEntry{
		entry(domain.PrimaryID(1), "Yes"),
		entry(domain.PrimaryID(2), "Yes"),
		entry(domain.FollowUpID(2), "Once"),
		entry(domain.PrimaryID(3), "Loose rugs everywhere"),
	}

	assert.Equal(t, Score(qs, responses), Score(qs, responses))
}

func TestCategoryTier(t *testing.T) {
	tests := []struct {
		points int
		want   domain.Tier
	}{
		{0, domain.TierLow},
		{2, domain.TierLow},
		{3, domain.TierModerate},
		{5, domain.TierModerate},
		{6, domain.TierHigh},
		{12, domain.TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryTier(tt.points), "points=%d", tt.points)
	}
}

func TestOverallRisk(t *testing.T) {
	assert.Equal(t, domain.TierLow, OverallRisk(domain.ScoreOf(67)))
	assert.Equal(t, domain.TierModerate, OverallRisk(domain.ScoreOf(66)))
	assert.Equal(t, domain.TierModerate, OverallRisk(domain.ScoreOf(34)))
	assert.Equal(t, domain.TierHigh, OverallRisk(domain.ScoreOf(33)))
	assert.Equal(t, domain.Tier(""), OverallRisk(domain.NotApplicable()))
}

func TestOverallScoreRounding(t *testing.T) {
	// 100 - 1/3*100 = 66.67
	assert.Equal(t, domain.ScoreOf(67), overallScore(1, 3))
	// 100 - 1/2*100 = 50 exactly
	assert.Equal(t, domain.ScoreOf(50), overallScore(1, 2))
	// 100 - 1/8*100 = 87.5 rounds up
	assert.Equal(t, domain.ScoreOf(88), overallScore(1, 8))
	assert.Equal(t, domain.NotApplicable(), overallScore(0, 0))
}
