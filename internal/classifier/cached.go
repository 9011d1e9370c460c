package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"risk-scorecard/internal/cache"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// defaultCallTimeout bounds a shared upstream call when no timeout is configured.
const defaultCallTimeout = 30 * time.Second

// Cached stores successful verdicts keyed by the normalized note text.
// Concurrent requests for the same note share one upstream call. The shared
// call is detached from every caller, so a caller that gives up only stops its
// own wait. Cache failures are logged and never fail a classification.
type Cached struct {
	inner       domain.NoteClassifier
	store       domain.Cache
	ttl         time.Duration
	namespace   string
	callTimeout time.Duration
	group       singleflight.Group
}

// NewCached wraps inner with a verdict cache. namespace separates verdicts of
// different classifier setups (for example one per model). callTimeout bounds
// the shared upstream call.
func NewCached(inner domain.NoteClassifier, store domain.Cache, ttl time.Duration, namespace string, callTimeout time.Duration) *Cached {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &Cached{inner: inner, store: store, ttl: ttl, namespace: namespace, callTimeout: callTimeout}
}

var _ domain.NoteClassifier = (*Cached)(nil)

// VerdictKey returns the cache key used for note.
func VerdictKey(namespace, note string) string {
	if namespace == "" {
		return cache.GenerateCacheKey("classifier", "verdict", cache.HashIdentifier(note))
	}
	return cache.GenerateCacheKey("classifier", "verdict", cache.HashIdentifier(note), namespace)
}

func (c *Cached) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	l := logger.Get()
	key := VerdictKey(c.namespace, note)

	if cached, err := c.store.Get(ctx, key); err == nil {
		var verdict domain.NoteVerdict
		errUnmarshal := json.Unmarshal([]byte(cached), &verdict)
		if errUnmarshal == nil {
			l.Debug("Verdict cache hit", zap.String("key", key))
			return &verdict, nil
		}
		l.Warn("Discarding unreadable cached verdict", zap.String("key", key), zap.Error(errUnmarshal))
		if errDel := c.store.Delete(ctx, key); errDel != nil {
			l.Warn("Failed to delete unreadable cached verdict", zap.String("key", key), zap.Error(errDel))
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		l.Warn("Verdict cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	// The flight outlives any single caller; values from ctx are kept.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(flightCtx, c.callTimeout)
		defer cancel()

		verdict, err := c.inner.Classify(callCtx, note)
		if err != nil {
			return nil, err
		}
		if verdict == nil {
			return nil, errors.New("classifier returned no verdict")
		}
		c.save(callCtx, key, verdict)
		return verdict, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// every waiter gets its own copy of the shared verdict
		copied := *res.Val.(*domain.NoteVerdict)
		return &copied, nil
	}
}

func (c *Cached) save(ctx context.Context, key string, verdict *domain.NoteVerdict) {
	data, err := json.Marshal(verdict)
	if err != nil {
		logger.Get().Warn("Failed to encode verdict for caching", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, string(data), c.ttl); err != nil {
		logger.Get().Warn("Failed to cache verdict", zap.String("key", key), zap.Error(err))
	}
}
