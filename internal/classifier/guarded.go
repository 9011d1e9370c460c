package classifier

import (
	"context"
	"time"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/logger"

	"go.uber.org/zap"
)

// Guarded bounds every call with a timeout and turns any failure into the
// fallback verdict. Ineligible notes never reach the inner classifier.
type Guarded struct {
	inner   domain.NoteClassifier
	timeout time.Duration
}

// NewGuarded creates a new instance of Guarded. A non-positive timeout
// disables the deadline.
func NewGuarded(inner domain.NoteClassifier, timeout time.Duration) *Guarded {
	return &Guarded{inner: inner, timeout: timeout}
}

var _ domain.NoteClassifier = (*Guarded)(nil)

// Classify implements domain.NoteClassifier. The returned error is always nil.
func (g *Guarded) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	verdict := g.Verdict(ctx, note)
	return &verdict, nil
}

// Verdict classifies note, falling back on ineligible input, timeout or error.
func (g *Guarded) Verdict(ctx context.Context, note string) domain.NoteVerdict {
	if !Eligible(note) {
		return domain.FallbackVerdict()
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	verdict, err := g.inner.Classify(ctx, note)
	if err != nil || verdict == nil {
		logger.Get().Warn("Note classification failed, using fallback verdict", zap.Error(err))
		return domain.FallbackVerdict()
	}
	return *verdict
}
