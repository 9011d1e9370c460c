package llmclassifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"risk-scorecard/internal/config"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	defaultOllamaModel = "qwen3:0.6b"
	defaultOpenAIModel = "gpt-4o-mini"
)

const promptTemplate = `You review free-text notes written by older adults during a home fall-risk screening.
Classify the note and respond with ONLY a JSON object in the following format:
{
    "classification": "Protective | Neutral | Harmful",
    "explanation": "brief explanation here",
    "doctor_advice": "one or two sentences of advice"
}

Note: %s

Rules:
1. "Harmful" means the note describes something that raises fall risk (hazards, symptoms, risky habits)
2. "Protective" means the note describes something that lowers fall risk (safety equipment, exercise, support)
3. "Neutral" means the note does neither
4. Explanation must be under 60 words and must not repeat the note verbatim
5. doctor_advice must be practical and must not diagnose`

// LLMClassifier implements domain.NoteClassifier on top of a langchaingo model.
type LLMClassifier struct {
	llm llms.Model
}

// NewLLMClassifier creates a new instance of LLMClassifier
func NewLLMClassifier(llm llms.Model) *LLMClassifier {
	return &LLMClassifier{llm: llm}
}

var _ domain.NoteClassifier = (*LLMClassifier)(nil)

// NewModel creates the langchaingo client for the configured provider.
func NewModel(cfg config.ClassifierConfig, httpClient *http.Client) (llms.Model, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	switch cfg.Provider {
	case config.ProviderOllama:
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(model),
			ollama.WithHTTPClient(httpClient),
		)
	case config.ProviderOpenAI:
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(model),
			openai.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported classifier provider %q", cfg.Provider)
	}
}

// Classify implements domain.NoteClassifier
func (c *LLMClassifier) Classify(ctx context.Context, note string) (*domain.NoteVerdict, error) {
	l := logger.Get()
	l.Debug("Classifying note with LLM", zap.Int("note_length", len(note)))

	raw, err := llms.GenerateFromSinglePrompt(ctx, c.llm, fmt.Sprintf(promptTemplate, note), llms.WithTemperature(0.1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Warn("LLM request timed out", zap.Error(err))
			return nil, domain.NewClassifierError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Warn("Failed to get response from LLM", zap.Error(err))
		return nil, domain.NewClassifierError(fmt.Errorf("LLM call failed: %w", err))
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	verdict, err := parseVerdict(raw)
	if err != nil {
		l.Warn("Could not parse LLM verdict", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewClassifierError(err)
	}
	return verdict, nil
}

// parseVerdict extracts the JSON verdict from free-form model output. Reasoning
// blocks and markdown fences around the object are tolerated.
func parseVerdict(raw string) (*domain.NoteVerdict, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON object found in LLM response")
	}

	var resp struct {
		Classification string `json:"classification"`
		Explanation    string `json:"explanation"`
		DoctorAdvice   string `json:"doctor_advice"`
	}
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON from LLM: %w", err)
	}

	classification, ok := domain.ParseClassification(resp.Classification)
	if !ok || classification == domain.ClassificationUnknown {
		return nil, fmt.Errorf("unknown classification %q", resp.Classification)
	}
	return &domain.NoteVerdict{
		Classification: classification,
		Explanation:    strings.TrimSpace(resp.Explanation),
		DoctorAdvice:   strings.TrimSpace(resp.DoctorAdvice),
	}, nil
}
