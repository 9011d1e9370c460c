package classifier

import (
	"context"
	"sync"
	"time"

	"risk-scorecard/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock type for the domain.Cache type
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNoteClassifier is a mock type for the domain.NoteClassifier type
type MockNoteClassifier struct {
	mock.Mock
}

func (m *MockNoteClassifier) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoteVerdict), args.Error(1)
}

// funcClassifier adapts a function; it is used where a mock would need timing control.
type funcClassifier func(ctx context.Context, note string) (*domain.NoteVerdict, error)

func (f funcClassifier) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	return f(ctx, note)
}

// countingClassifier returns the same verdict for every note and records calls.
type countingClassifier struct {
	mu      sync.Mutex
	calls   map[string]int
	verdict domain.NoteVerdict
}

func newCountingClassifier(c domain.Classification) *countingClassifier {
	return &countingClassifier{
		calls:   make(map[string]int),
		verdict: domain.NoteVerdict{Classification: c, Explanation: "test", DoctorAdvice: "test"},
	}
}

func (c *countingClassifier) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	c.mu.Lock()
	c.calls[note]++
	c.mu.Unlock()
	v := c.verdict
	return &v, nil
}

func (c *countingClassifier) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}
