package handler

import (
	"fmt"
	"strings"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/dto"
	"risk-scorecard/internal/logger"
	"risk-scorecard/internal/middleware"
	"risk-scorecard/internal/service"
	"risk-scorecard/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssessmentHandler handles questionnaire HTTP requests
type AssessmentHandler struct {
	service   service.AssessmentService
	validator *validation.Validator
}

// NewAssessmentHandler creates a new AssessmentHandler instance
func NewAssessmentHandler(service service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// RegisterRoutes mounts the questionnaire routes on router
func (h *AssessmentHandler) RegisterRoutes(router fiber.Router) {
	vm := middleware.NewValidationMiddleware()

	router.Get("/questions", h.GetQuestions)
	router.Post("/score", h.ScoreResponses)
	router.Post("/notes/classify", h.ClassifyNote)

	sessions := router.Group("/sessions")
	sessions.Post("/", h.StartSession)
	sessions.Get("/:id", vm.ValidateSessionID(), h.GetSession)
	sessions.Delete("/:id", vm.ValidateSessionID(), h.EndSession)
	sessions.Post("/:id/answers", vm.ValidateSessionID(), h.SubmitAnswer)
	sessions.Post("/:id/restart", vm.ValidateSessionID(), h.RestartSession)
	sessions.Get("/:id/report", vm.ValidateSessionID(), h.GetReport)
	sessions.Get("/:id/report/export", vm.ValidateSessionID(), vm.ValidateExportFormat(), h.ExportReport)
}

// GetQuestions godoc
// @Summary Get the question set
// @Description Returns every question with its options and follow-up
// @Tags questions
// @Produce json
// @Success 200 {object} dto.QuestionListResponse
// @Router /questions [get]
func (h *AssessmentHandler) GetQuestions(c *fiber.Ctx) error {
	return c.JSON(h.service.Questions())
}

// StartSession godoc
// @Summary Start a questionnaire
// @Description Creates a session positioned at the first question
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *AssessmentHandler) StartSession(c *fiber.Ctx) error {
	resp, err := h.service.StartSession(c.UserContext())
	if err != nil {
		return err
	}
	c.Location(fmt.Sprintf("%s/%s", strings.TrimSuffix(c.Path(), "/"), resp.SessionID))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get session state
// @Description Returns progress, the pending prompt and the answers so far
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *AssessmentHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Answer the pending question
// @Description Applies one answer. Invalid answers leave the session unchanged.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *AssessmentHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be a JSON object with an answer field")
	}
	if errs := h.validator.ValidateAnswer(req.Answer); len(errs) > 0 {
		return errs
	}

	id := sessionID(c)
	resp, err := h.service.SubmitAnswer(c.UserContext(), id, req.Answer)
	if err != nil {
		return err
	}
	if resp.Done {
		logger.Get().Debug("Session finished through the API", zap.String("session_id", id))
	}
	return c.JSON(resp)
}

// RestartSession godoc
// @Summary Restart a questionnaire
// @Description Clears all answers and discards pending note classification
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/restart [post]
func (h *AssessmentHandler) RestartSession(c *fiber.Ctx) error {
	resp, err := h.service.RestartSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EndSession godoc
// @Summary End a questionnaire
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *AssessmentHandler) EndSession(c *fiber.Ctx) error {
	if err := h.service.EndSession(c.UserContext(), sessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReport godoc
// @Summary Get the scored report
// @Description classification_status is "pending" until every note has a verdict
// @Tags reports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/report [get]
func (h *AssessmentHandler) GetReport(c *fiber.Ctx) error {
	resp, err := h.service.GetReport(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ExportReport godoc
// @Summary Download the report
// @Tags reports
// @Produce text/markdown
// @Produce text/html
// @Param id path string true "Session ID"
// @Param format query string false "md or html" default(md)
// @Success 200 {string} string
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/report/export [get]
func (h *AssessmentHandler) ExportReport(c *fiber.Ctx) error {
	format, _ := c.Locals("validated_format").(string)
	out, err := h.service.ExportReport(c.UserContext(), sessionID(c), format)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Attachment(out.FileName)
	return c.Send(out.Content)
}

// ScoreResponses godoc
// @Summary Score a saved response log
// @Description Scores responses without a session; notes are classified before returning
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.ScoreRequest true "Responses"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /score [post]
func (h *AssessmentHandler) ScoreResponses(c *fiber.Ctx) error {
	var req dto.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be a JSON object with a responses list")
	}
	if errs := h.validator.ValidateResponses(req.Responses); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.ScoreResponses(c.UserContext(), req.Responses)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ClassifyNote godoc
// @Summary Classify a free-text note
// @Description Never fails on classifier faults; unclassifiable notes get an Unknown verdict
// @Tags notes
// @Accept json
// @Produce json
// @Param request body dto.ClassifyNoteRequest true "Note"
// @Success 200 {object} dto.ClassifyNoteResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /notes/classify [post]
func (h *AssessmentHandler) ClassifyNote(c *fiber.Ctx) error {
	var req dto.ClassifyNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be a JSON object with a note field")
	}
	if errs := h.validator.ValidateNote(req.Note); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.ClassifyNote(c.UserContext(), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.ValidatedSessionIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}
