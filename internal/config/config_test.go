package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, ClassifierModeKeyword, cfg.Classifier.Mode)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Classifier.CacheTTL)
	assert.Empty(t, cfg.Redis.Address)
	assert.Empty(t, cfg.Questionnaire.CatalogFile)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("CLASSIFIER_MODE", ClassifierModeHybrid)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CATALOG_FILE", "/etc/catalog.yaml")

	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, ClassifierModeHybrid, cfg.Classifier.Mode)
	assert.Equal(t, ProviderOpenAI, cfg.Classifier.Provider)
	assert.Equal(t, "sk-test", cfg.Classifier.APIKey)
	assert.Equal(t, "/etc/catalog.yaml", cfg.Questionnaire.CatalogFile)
}

func TestFromViper_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	_, err := fromViper(newViper())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Classifier: ClassifierConfig{
			Mode:      ClassifierModeLLM,
			Provider:  ProviderOllama,
			ServerURL: "http://localhost:11434",
			Timeout:   time.Second,
		}}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Classifier.Mode = "magic"
	assert.Error(t, c.Validate())

	c = base()
	c.Classifier.Provider = ProviderOpenAI
	assert.Error(t, c.Validate())

	c = base()
	c.Classifier.Provider = "bard"
	assert.Error(t, c.Validate())

	c = base()
	c.Classifier.Timeout = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Classifier.Mode = ClassifierModeKeyword
	c.Classifier.Provider = ""
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  port: 7070
classifier:
  mode: llm
  provider: ollama
  server_url: http://ollama:11434
  timeout: 5s
`), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ENV", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, ClassifierModeLLM, cfg.Classifier.Mode)
	assert.Equal(t, "http://ollama:11434", cfg.Classifier.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
}
