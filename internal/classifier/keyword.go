package classifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"risk-scorecard/internal/domain"
)

type pattern struct {
	re    *regexp.Regexp
	topic string
	// advice is only set on hazard patterns
	advice string
}

// Protective phrases are removed before hazards are searched, so "grab bars in
// the shower" does not also count as a bathroom hazard.
var protectivePatterns = []pattern{
	{re: regexp.MustCompile(`(?i)\bgrab ?bars?(\s+(in|by|near|next to)\s+(the\s+|my\s+)?(shower|bath ?tub|bath|bathroom|toilet))?\b`), topic: "grab bars"},
	{re: regexp.MustCompile(`(?i)\bhand ?rails?(\s+on\s+(the\s+|my\s+|both\s+)?(stairs|steps|staircase))?\b`), topic: "handrails"},
	{re: regexp.MustCompile(`(?i)\bnon[- ]?slip(\s+(mats?|strips?))?(\s+(in|on)\s+(the\s+|my\s+)?(shower|bath ?tub|bathroom|floor|stairs|steps))?\b`), topic: "non-slip surfaces"},
	{re: regexp.MustCompile(`(?i)\b(night ?lights?|motion[- ]sensor lights?|well[- ]lit)\b`), topic: "good lighting"},
	{re: regexp.MustCompile(`(?i)\b(exercise|exercising|work out|tai chi|yoga|strength training|balance class(es)?)\b`), topic: "regular exercise"},
	{re: regexp.MustCompile(`(?i)\bphysical therap(y|ist)\b`), topic: "physical therapy"},
}

var hazardPatterns = []pattern{
	{
		re:     regexp.MustCompile(`(?i)\b(rugs?|carpets?|mats?|clutter|cords?)\b`),
		topic:  "loose rugs or clutter",
		advice: "Consider removing loose rugs and clutter or securing carpets to reduce tripping hazards.",
	},
	{
		re:     regexp.MustCompile(`(?i)\b(stairs?|steps|staircase)\b`),
		topic:  "stairs",
		advice: "Make sure stairs have sturdy handrails on both sides and are well lit.",
	},
	{
		re:     regexp.MustCompile(`(?i)\b(shower|bath ?tubs?|bathroom|slippery)\b`),
		topic:  "the bathroom",
		advice: "Install grab bars and non-slip mats in the bathroom.",
	},
	{
		re:     regexp.MustCompile(`(?i)\b(night|dark|dim|lights?|lighting)\b`),
		topic:  "lighting",
		advice: "Add nightlights or motion-sensor lights along walkways you use at night.",
	},
	{
		re:     regexp.MustCompile(`(?i)\b(medications?|medicines?|pills|dizzy|dizziness|lightheaded|sleepy|drowsy)\b`),
		topic:  "medication side effects",
		advice: "Ask your doctor or pharmacist to review medications that may cause dizziness or drowsiness.",
	},
	{
		re:     regexp.MustCompile(`(?i)\b(walkers?|canes?|wheelchairs?|unsteady|wobbly)\b`),
		topic:  "mobility",
		advice: "Use the mobility aids you have been prescribed and ask about a balance assessment.",
	},
}

// KeywordClassifier classifies notes offline with fixed patterns. Hazards win
// over protective measures when both are present.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a new instance of KeywordClassifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var _ domain.NoteClassifier = (*KeywordClassifier)(nil)

// Classify implements domain.NoteClassifier. It never fails.
func (k *KeywordClassifier) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	remaining := note
	var protective []string
	for _, p := range protectivePatterns {
		if p.re.MatchString(remaining) {
			protective = append(protective, p.topic)
			remaining = p.re.ReplaceAllString(remaining, " ")
		}
	}

	var hazards, advice []string
	for _, p := range hazardPatterns {
		if p.re.MatchString(remaining) {
			hazards = append(hazards, p.topic)
			advice = append(advice, p.advice)
		}
	}

	switch {
	case len(hazards) > 0:
		return &domain.NoteVerdict{
			Classification: domain.ClassificationHarmful,
			Explanation:    fmt.Sprintf("Your note mentions possible fall hazards: %s.", strings.Join(hazards, ", ")),
			DoctorAdvice:   strings.Join(advice, " "),
		}, nil
	case len(protective) > 0:
		return &domain.NoteVerdict{
			Classification: domain.ClassificationProtective,
			Explanation:    fmt.Sprintf("Your note describes measures that lower fall risk: %s.", strings.Join(protective, ", ")),
			DoctorAdvice:   "Keep these safety measures in place and mention them at your next check-up.",
		}, nil
	default:
		return &domain.NoteVerdict{
			Classification: domain.ClassificationNeutral,
			Explanation:    "No specific fall hazards or protective measures were recognized in your note.",
			DoctorAdvice:   "Share this note with your healthcare provider if it concerns your safety.",
		}, nil
	}
}
