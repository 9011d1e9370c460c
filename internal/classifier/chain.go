package classifier

import (
	"context"
	"errors"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/logger"

	"go.uber.org/zap"
)

// Chain tries each classifier in order and returns the first verdict. Later
// entries are still tried after a deadline, so offline classifiers should come last.
type Chain []domain.NoteClassifier

var _ domain.NoteClassifier = Chain(nil)

func (c Chain) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	var errs []error
	for i, inner := range c {
		verdict, err := inner.Classify(ctx, note)
		if err == nil && verdict != nil {
			return verdict, nil
		}
		if err == nil {
			err = errors.New("classifier returned no verdict")
		}
		logger.Get().Debug("Classifier in chain failed, trying next", zap.Int("position", i), zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, domain.NewClassifierError(errors.New("no classifiers configured"))
	}
	return nil, domain.NewClassifierError(errors.Join(errs...))
}
