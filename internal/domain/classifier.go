package domain

import (
	"context"
	"strings"
)

// Classification is the verdict class a note classifier can return
type Classification string

const (
	ClassificationProtective Classification = "Protective"
	ClassificationNeutral    Classification = "Neutral"
	ClassificationHarmful    Classification = "Harmful"
	ClassificationUnknown    Classification = "Unknown"
)

// ParseClassification matches s case-insensitively against the known classes.
func ParseClassification(s string) (Classification, bool) {
	for _, c := range []Classification{
		ClassificationProtective,
		ClassificationNeutral,
		ClassificationHarmful,
		ClassificationUnknown,
	} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}

// NoteVerdict is the classifier output for one free-text note
type NoteVerdict struct {
	Classification Classification `json:"classification"`
	Explanation    string         `json:"explanation"`
	DoctorAdvice   string         `json:"doctor_advice"`
}

// FallbackVerdict is returned whenever a note cannot be classified.
func FallbackVerdict() NoteVerdict {
	return NoteVerdict{
		Classification: ClassificationUnknown,
		Explanation:    "We could not analyze this note automatically.",
		DoctorAdvice:   "Please review this note with your healthcare provider.",
	}
}

// NoteClassifier defines the interface for classifying free-text notes
type NoteClassifier interface {
	// Classify returns a verdict for note. Implementations may block on the network.
	Classify(ctx context.Context, note string) (*NoteVerdict, error)
}
