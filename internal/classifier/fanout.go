package classifier

import (
	"context"

	"risk-scorecard/internal/domain"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentNotes caps simultaneous upstream calls for one report.
const maxConcurrentNotes = 4

// ClassifyAll classifies each distinct note concurrently and returns verdicts
// keyed by the note text. Ineligible notes and failed calls map to the fallback
// verdict. The only error is ctx's, when it is cancelled before all verdicts
// are in; partial results are then dropped.
func ClassifyAll(ctx context.Context, c domain.NoteClassifier, notes []string) (map[string]domain.NoteVerdict, error) {
	unique := make([]string, 0, len(notes))
	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	verdicts := make([]domain.NoteVerdict, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNotes)

	for i, note := range unique {
		if !Eligible(note) {
			verdicts[i] = domain.FallbackVerdict()
			continue
		}
		i, note := i, note
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdict, err := c.Classify(gctx, note)
			if err != nil || verdict == nil {
				verdicts[i] = domain.FallbackVerdict()
				return nil
			}
			verdicts[i] = *verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.NoteVerdict, len(unique))
	for i, note := range unique {
		out[note] = verdicts[i]
	}
	return out, nil
}
