// Package scoring turns a finished response log into a Report.
//
// The overall score is a safety index: more risk points give a lower score.
// Category tiers use fixed point thresholds, independent of what was possible.
package scoring

import (
	"math"
	"strings"

	"risk-scorecard/internal/domain"
)

// Category tier thresholds on raw accumulated points.
const (
	categoryHighThreshold     = 6
	categoryModerateThreshold = 3
)

// Overall risk thresholds on the 0-100 safety score.
const (
	overallLowRiskThreshold      = 67
	overallModerateRiskThreshold = 34
)

// CategoryTier classifies raw category points.
func CategoryTier(points int) domain.Tier {
	switch {
	case points >= categoryHighThreshold:
		return domain.TierHigh
	case points >= categoryModerateThreshold:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}

// OverallRisk maps the safety score onto a risk tier. A high score is low risk.
func OverallRisk(score domain.Score) domain.Tier {
	if !score.Applicable {
		return ""
	}
	switch {
	case score.Value >= overallLowRiskThreshold:
		return domain.TierLow
	case score.Value >= overallModerateRiskThreshold:
		return domain.TierModerate
	default:
		return domain.TierHigh
	}
}

// Score derives a report from questions and responses. It is pure: the same
// inputs always produce an equal report.
func Score(questions domain.QuestionSet, responses []domain.ResponseEntry) *domain.Report {
	var (
		earned, possible int
		order            []string
		byCategory       = make(map[string]int)
		notes            = []string{}
	)

	for _, r := range responses {
		q, ok := questions.ByID(r.QuestionID.Question)
		if !ok {
			continue
		}
		if q.IsFreeText {
			if strings.TrimSpace(r.Answer) != "" {
				notes = append(notes, r.Answer)
			}
			continue
		}
		if !q.Scored() {
			continue
		}

		score := q.PointsFor(r.Answer)
		if r.Answer == domain.AnswerUnknown {
			score = 0
		} else {
			earned += score
			possible += q.MaxPoints()
		}

		if _, seen := byCategory[q.Category]; !seen {
			order = append(order, q.Category)
		}
		byCategory[q.Category] += score
	}

	report := &domain.Report{
		OverallScore:      overallScore(earned, possible),
		Earned:            earned,
		Possible:          possible,
		CategoryScores:    make([]domain.CategoryScoreEntry, 0, len(order)),
		CategoryRiskTiers: make(map[string]domain.Tier, len(order)),
		FreeTextNotes:     notes,
	}
	report.OverallRisk = OverallRisk(report.OverallScore)

	for _, c := range order {
		tier := CategoryTier(byCategory[c])
		report.CategoryScores = append(report.CategoryScores, domain.CategoryScoreEntry{
			Category:     c,
			EarnedPoints: byCategory[c],
			Tier:         tier,
		})
		report.CategoryRiskTiers[c] = tier
	}
	return report
}

func overallScore(earned, possible int) domain.Score {
	if possible <= 0 {
		return domain.NotApplicable()
	}
	// half-up rounding; the value is never negative
	v := math.Floor(100 - float64(earned)/float64(possible)*100 + 0.5)
	return domain.ScoreOf(int(v))
}
