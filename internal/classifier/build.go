package classifier

import (
	"fmt"
	"net/http"
	"strings"

	"risk-scorecard/internal/adapter/llmclassifier"
	"risk-scorecard/internal/config"
	"risk-scorecard/internal/domain"
)

// Build assembles the guarded classifier for cfg. store may be nil, in which
// case model verdicts are not cached. Keyword verdicts are never cached.
func Build(cfg config.ClassifierConfig, store domain.Cache, httpClient *http.Client) (*Guarded, error) {
	keyword := NewKeywordClassifier()

	switch cfg.Mode {
	case config.ClassifierModeKeyword, "":
		return NewGuarded(keyword, cfg.Timeout), nil
	case config.ClassifierModeLLM, config.ClassifierModeHybrid:
	default:
		return nil, fmt.Errorf("unsupported classifier mode %q", cfg.Mode)
	}

	model, err := llmclassifier.NewModel(cfg, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	var remote domain.NoteClassifier = llmclassifier.NewLLMClassifier(model)
	if store != nil {
		namespace := strings.Trim(cfg.Provider+"_"+cfg.Model, "_")
		remote = NewCached(remote, store, cfg.CacheTTL, namespace, cfg.Timeout)
	}

	if cfg.Mode == config.ClassifierModeHybrid {
		return NewGuarded(Chain{remote, keyword}, cfg.Timeout), nil
	}
	return NewGuarded(remote, cfg.Timeout), nil
}
