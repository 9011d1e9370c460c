package service

import (
	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/dto"
)

// BuildReportResponse joins a report with the static advice catalog.
// classified tells whether note verdicts are final.
func BuildReportResponse(cat *catalog.Catalog, report *domain.Report, classified bool) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		OverallScore:         report.OverallScore,
		OverallRisk:          report.OverallRisk,
		Earned:               report.Earned,
		Possible:             report.Possible,
		Categories:           make([]dto.CategoryResultResponse, 0, len(report.CategoryScores)),
		Notes:                make([]dto.NoteResultResponse, 0, len(report.FreeTextNotes)),
		ClassificationStatus: dto.ClassificationPending,
	}
	if classified {
		resp.ClassificationStatus = dto.ClassificationDone
	}
	if cat != nil {
		resp.Title = cat.Title
	}

	for _, c := range report.CategoryScores {
		item := dto.CategoryResultResponse{
			Category: c.Category,
			Points:   c.EarnedPoints,
			Tier:     c.Tier,
		}
		if cat != nil {
			if advice, ok := cat.AdviceFor(c.Category); ok {
				item.Advice = advice.Advice
				item.Icon = advice.Icon
				item.Link = cat.LinkFor(c.Category)
			}
		}
		resp.Categories = append(resp.Categories, item)
	}

	for _, note := range report.FreeTextNotes {
		item := dto.NoteResultResponse{Note: note}
		if v, ok := report.NoteClassifications[note]; ok {
			verdict := v
			item.Verdict = &verdict
		}
		resp.Notes = append(resp.Notes, item)
	}
	return resp
}
