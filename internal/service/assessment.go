package service

import (
	"context"
	"sync"
	"time"

	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/classifier"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/dto"
	"risk-scorecard/internal/export"
	"risk-scorecard/internal/logger"
	"risk-scorecard/internal/questionnaire"
	"risk-scorecard/internal/scoring"
	"risk-scorecard/internal/util"

	"go.uber.org/zap"
)

// AssessmentService defines the questionnaire operations exposed to handlers and the CLI
type AssessmentService interface {
	Questions() *dto.QuestionListResponse
	StartSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	SubmitAnswer(ctx context.Context, id string, answer string) (*dto.SessionResponse, error)
	RestartSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	EndSession(ctx context.Context, id string) error
	GetReport(ctx context.Context, id string) (*dto.ReportResponse, error)
	ExportReport(ctx context.Context, id string, format string) (*ExportedReport, error)
	Evaluate(ctx context.Context, responses []domain.ResponseEntry) (*domain.Report, error)
	ScoreResponses(ctx context.Context, responses []domain.ResponseEntry) (*dto.ReportResponse, error)
	ClassifyNote(ctx context.Context, note string) (*dto.ClassifyNoteResponse, error)
	StartSweeper(ctx context.Context, interval time.Duration)
	Close()
}

// ExportedReport is a rendered report document
type ExportedReport struct {
	Content     []byte
	ContentType string
	FileName    string
}

// session holds one respondent's engine. The generation counter is bumped on
// every restart so late classification results can be recognized as stale.
type session struct {
	mu         sync.Mutex
	id         string
	engine     *questionnaire.Engine
	createdAt  time.Time
	updatedAt  time.Time
	generation uint64
	cancel     context.CancelFunc
	report     *domain.Report
	verdicts   map[string]domain.NoteVerdict
	classified bool
}

// assessmentService implements AssessmentService
type assessmentService struct {
	catalog    *catalog.Catalog
	classifier domain.NoteClassifier
	sessionTTL time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	// classification goroutines run under baseCtx so Close can stop them
	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// NewAssessmentService creates a new instance of assessmentService.
// noteClassifier should never fail, as classifier.Guarded does.
func NewAssessmentService(cat *catalog.Catalog, noteClassifier domain.NoteClassifier, sessionTTL time.Duration) AssessmentService {
	return newAssessmentService(cat, noteClassifier, sessionTTL)
}

func newAssessmentService(cat *catalog.Catalog, noteClassifier domain.NoteClassifier, sessionTTL time.Duration) *assessmentService {
	ctx, cancel := context.WithCancel(context.Background())
	return &assessmentService{
		catalog:    cat,
		classifier: noteClassifier,
		sessionTTL: sessionTTL,
		now:        time.Now,
		sessions:   make(map[string]*session),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Questions implements AssessmentService
func (s *assessmentService) Questions() *dto.QuestionListResponse {
	resp := &dto.QuestionListResponse{
		Title:     s.catalog.Title,
		Questions: make([]dto.QuestionResponse, 0, len(s.catalog.Questions)),
	}
	for _, q := range s.catalog.Questions {
		item := dto.QuestionResponse{
			ID:         q.ID,
			Text:       q.Text,
			Category:   q.Category,
			Options:    q.Options,
			IsFreeText: q.IsFreeText,
			Hint:       q.Hint,
		}
		if q.FollowUp != nil {
			item.FollowUp = &dto.FollowUpResponse{Text: q.FollowUp.Text, Options: q.FollowUp.Options}
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp
}

// StartSession implements AssessmentService
func (s *assessmentService) StartSession(ctx context.Context) (*dto.SessionResponse, error) {
	engine, err := questionnaire.New(s.catalog.Questions)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &session{
		id:        util.NewULID(),
		engine:    engine,
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	logger.Get().Info("Questionnaire session started", zap.String("session_id", sess.id))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sessionResponse(sess), nil
}

// GetSession implements AssessmentService
func (s *assessmentService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sessionResponse(sess), nil
}

// SubmitAnswer implements AssessmentService
func (s *assessmentService) SubmitAnswer(ctx context.Context, id string, answer string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.engine.Answer(answer); err != nil {
		logger.Get().Debug("Answer rejected",
			zap.String("session_id", id),
			zap.Error(err))
		return nil, err
	}
	sess.updatedAt = s.now()

	if sess.engine.Done() && sess.report == nil {
		s.complete(sess)
	}
	return sessionResponse(sess), nil
}

// complete scores a finished session and starts note classification.
// Callers hold sess.mu.
func (s *assessmentService) complete(sess *session) {
	responses, err := sess.engine.Finalize()
	if err != nil {
		// Done() was checked by the caller
		logger.Get().Error("Failed to finalize finished session", zap.String("session_id", sess.id), zap.Error(err))
		return
	}
	sess.report = scoring.Score(sess.engine.Questions(), responses)

	l := logger.Get()
	l.Info("Questionnaire completed",
		zap.String("session_id", sess.id),
		zap.Stringer("overall_score", sess.report.OverallScore),
		zap.String("overall_risk", string(sess.report.OverallRisk)),
		zap.Int("notes", len(sess.report.FreeTextNotes)))

	if len(sess.report.FreeTextNotes) == 0 {
		sess.verdicts = map[string]domain.NoteVerdict{}
		sess.classified = true
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	sess.cancel = cancel
	generation := sess.generation
	notes := append([]string(nil), sess.report.FreeTextNotes...)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.classifyNotes(ctx, sess, generation, notes)
	}()
}

func (s *assessmentService) classifyNotes(ctx context.Context, sess *session, generation uint64, notes []string) {
	l := logger.Get().With(zap.String("session_id", sess.id))
	start := time.Now()

	verdicts, err := classifier.ClassifyAll(ctx, s.classifier, notes)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		l.Info("Note classification cancelled", zap.Error(err))
		return
	}
	if sess.generation != generation {
		l.Info("Discarding note classification for a restarted session")
		return
	}
	sess.verdicts = verdicts
	sess.classified = true
	sess.cancel = nil
	l.Info("Note classification finished",
		zap.Int("notes", len(verdicts)),
		zap.Duration("elapsed", time.Since(start)))
}

// RestartSession implements AssessmentService
func (s *assessmentService) RestartSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	engine, err := questionnaire.New(s.catalog.Questions)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
	sess.generation++
	sess.engine = engine
	sess.report = nil
	sess.verdicts = nil
	sess.classified = false
	sess.updatedAt = s.now()

	logger.Get().Info("Questionnaire session restarted", zap.String("session_id", id))
	return sessionResponse(sess), nil
}

// EndSession implements AssessmentService
func (s *assessmentService) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.NewSessionNotFoundError(id)
	}
	s.discard(sess)
	logger.Get().Info("Questionnaire session ended", zap.String("session_id", id))
	return nil
}

func (s *assessmentService) discard(sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
	sess.generation++
}

// GetReport implements AssessmentService
func (s *assessmentService) GetReport(ctx context.Context, id string) (*dto.ReportResponse, error) {
	report, classified, err := s.sessionReport(id)
	if err != nil {
		return nil, err
	}
	resp := BuildReportResponse(s.catalog, report, classified)
	resp.SessionID = id
	resp.GeneratedAt = s.now()
	return resp, nil
}

// ExportReport implements AssessmentService
func (s *assessmentService) ExportReport(ctx context.Context, id string, format string) (*ExportedReport, error) {
	report, classified, err := s.sessionReport(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	content, contentType, err := export.Render(format, export.Document{
		Report:      report,
		Catalog:     s.catalog,
		GeneratedAt: now,
		Pending:     !classified,
	})
	if err != nil {
		return nil, err
	}
	return &ExportedReport{
		Content:     content,
		ContentType: contentType,
		FileName:    export.FileName(format, now),
	}, nil
}

func (s *assessmentService) sessionReport(id string) (*domain.Report, bool, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.report == nil {
		answered, total := sess.engine.Progress()
		return nil, false, domain.NewQuestionnaireIncompleteError(answered, total)
	}
	if sess.classified {
		return sess.report.WithClassifications(sess.verdicts), true, nil
	}
	return sess.report, false, nil
}

// Evaluate implements AssessmentService. It scores a saved response log and
// classifies its notes synchronously.
func (s *assessmentService) Evaluate(ctx context.Context, responses []domain.ResponseEntry) (*domain.Report, error) {
	report := scoring.Score(s.catalog.Questions, responses)
	verdicts, err := classifier.ClassifyAll(ctx, s.classifier, report.FreeTextNotes)
	if err != nil {
		return nil, domain.NewInternalError("note classification was interrupted", err)
	}
	return report.WithClassifications(verdicts), nil
}

// ScoreResponses implements AssessmentService
func (s *assessmentService) ScoreResponses(ctx context.Context, responses []domain.ResponseEntry) (*dto.ReportResponse, error) {
	report, err := s.Evaluate(ctx, responses)
	if err != nil {
		return nil, err
	}
	resp := BuildReportResponse(s.catalog, report, true)
	resp.GeneratedAt = s.now()
	return resp, nil
}

// ClassifyNote implements AssessmentService
func (s *assessmentService) ClassifyNote(ctx context.Context, note string) (*dto.ClassifyNoteResponse, error) {
	verdict := domain.FallbackVerdict()
	if classifier.Eligible(note) {
		v, err := s.classifier.Classify(ctx, note)
		if err != nil {
			logger.Get().Warn("Note classification failed", zap.Error(err))
		} else if v != nil {
			verdict = *v
		}
	}
	return &dto.ClassifyNoteResponse{
		Note:           note,
		Classification: verdict.Classification,
		Explanation:    verdict.Explanation,
		DoctorAdvice:   verdict.DoctorAdvice,
	}, nil
}

// Close cancels running classifications and waits for them to stop.
func (s *assessmentService) Close() {
	s.baseCancel()
	s.wg.Wait()
}

// StartSweeper implements AssessmentService. It evicts idle sessions every interval until ctx is done.
func (s *assessmentService) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.sessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.evictExpired(); n > 0 {
					logger.Get().Info("Evicted idle questionnaire sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

func (s *assessmentService) evictExpired() int {
	cutoff := s.now().Add(-s.sessionTTL)
	var expired []*session

	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.discard(sess)
	}
	return len(expired)
}

func (s *assessmentService) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(id)
	}
	return sess, nil
}

// sessionResponse snapshots sess. Callers hold sess.mu.
func sessionResponse(sess *session) *dto.SessionResponse {
	answered, total := sess.engine.Progress()
	resp := &dto.SessionResponse{
		SessionID: sess.id,
		Done:      sess.engine.Done(),
		Answered:  answered,
		Total:     total,
		Responses: sess.engine.Responses(),
		CreatedAt: sess.createdAt,
		UpdatedAt: sess.updatedAt,
	}
	if resp.Responses == nil {
		resp.Responses = []domain.ResponseEntry{}
	}
	if prompt, ok := sess.engine.Current(); ok {
		resp.Current = &dto.PromptResponse{
			ResponseID: prompt.ResponseID.String(),
			QuestionID: prompt.QuestionID,
			Category:   prompt.Category,
			Text:       prompt.Text,
			Options:    prompt.Options,
			IsFreeText: prompt.IsFreeText,
			Hint:       prompt.Hint,
			IsFollowUp: prompt.IsFollowUp,
		}
	}
	return resp
}
