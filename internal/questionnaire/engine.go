// Package questionnaire walks a question set one answer at a time, asking a
// follow-up after a "Yes" when the question defines one.
package questionnaire

import (
	"slices"

	"risk-scorecard/internal/domain"
)

// Stage is the sub-state of the cursor at a question index.
type Stage int

const (
	AtPrimary Stage = iota
	AtFollowUp
)

func (s Stage) String() string {
	if s == AtFollowUp {
		return "follow_up"
	}
	return "primary"
}

// Cursor is the engine position. The walk is finished once Index reaches the
// number of questions; Stage is always AtPrimary there.
type Cursor struct {
	Index int
	Stage Stage
}

// Prompt is what a renderer needs to show the pending question.
type Prompt struct {
	ResponseID domain.ResponseID
	QuestionID int
	Category   string
	Text       string
	Options    []string
	IsFreeText bool
	Hint       string
	IsFollowUp bool
}

// Engine is a strictly forward, single-pass walk over a question set.
// It is not safe for concurrent use.
type Engine struct {
	questions domain.QuestionSet
	cursor    Cursor
	responses []domain.ResponseEntry
	notes     []string
}

// New validates questions and positions the engine at the first one.
func New(questions domain.QuestionSet) (*Engine, error) {
	if err := questions.Validate(); err != nil {
		return nil, domain.NewError(domain.CodeInvalidQuestionSet, "invalid question set", err)
	}
	return &Engine{questions: questions}, nil
}

// Cursor returns the current position.
func (e *Engine) Cursor() Cursor {
	return e.cursor
}

// Done reports whether every question has been passed.
func (e *Engine) Done() bool {
	return e.cursor.Index >= len(e.questions)
}

// Current returns the pending prompt, or false once the walk is finished.
func (e *Engine) Current() (Prompt, bool) {
	if e.Done() {
		return Prompt{}, false
	}
	q := &e.questions[e.cursor.Index]
	if e.cursor.Stage == AtFollowUp {
		return Prompt{
			ResponseID: domain.FollowUpID(q.ID),
			QuestionID: q.ID,
			Category:   q.Category,
			Text:       q.FollowUp.Text,
			Options:    slices.Clone(q.FollowUp.Options),
			IsFollowUp: true,
		}, true
	}
	return Prompt{
		ResponseID: domain.PrimaryID(q.ID),
		QuestionID: q.ID,
		Category:   q.Category,
		Text:       q.Text,
		Options:    slices.Clone(q.Options),
		IsFreeText: q.IsFreeText,
		Hint:       q.Hint,
	}, true
}

// Answer applies one answer to the pending prompt. A rejected answer leaves the
// engine untouched.
func (e *Engine) Answer(answer string) error {
	if e.Done() {
		return domain.NewQuestionnaireFinishedError()
	}
	q := &e.questions[e.cursor.Index]

	switch {
	case e.cursor.Stage == AtFollowUp:
		if !q.HasFollowUpOption(answer) {
			return domain.NewInvalidAnswerError(answer, q.FollowUp.Text)
		}
		e.record(domain.FollowUpID(q.ID), answer)
		e.advance()

	case q.IsFreeText:
		e.record(domain.PrimaryID(q.ID), answer)
		e.notes = append(e.notes, answer)
		e.advance()

	default:
		if !q.HasOption(answer) {
			return domain.NewInvalidAnswerError(answer, q.Text)
		}
		e.record(domain.PrimaryID(q.ID), answer)
		if q.FollowUp != nil && answer == domain.AnswerYes {
			e.cursor.Stage = AtFollowUp
		} else {
			e.advance()
		}
	}
	return nil
}

func (e *Engine) record(id domain.ResponseID, answer string) {
	e.responses = append(e.responses, domain.ResponseEntry{QuestionID: id, Answer: answer})
}

func (e *Engine) advance() {
	e.cursor = Cursor{Index: e.cursor.Index + 1, Stage: AtPrimary}
}

// Responses returns a copy of the answers recorded so far.
func (e *Engine) Responses() []domain.ResponseEntry {
	return slices.Clone(e.responses)
}

// Notes returns the free-text answers in the order they were given.
func (e *Engine) Notes() []string {
	return slices.Clone(e.notes)
}

// Questions returns the question set the engine walks.
func (e *Engine) Questions() domain.QuestionSet {
	return e.questions
}

// Progress returns the number of primary questions passed and the total.
func (e *Engine) Progress() (answered, total int) {
	return e.cursor.Index, len(e.questions)
}

// Finalize returns the response log once the walk is finished.
func (e *Engine) Finalize() ([]domain.ResponseEntry, error) {
	if !e.Done() {
		answered, total := e.Progress()
		return nil, domain.NewQuestionnaireIncompleteError(answered, total)
	}
	return e.Responses(), nil
}
