package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Logger        LoggerConfig
	Redis         RedisConfig
	Classifier    ClassifierConfig
	Questionnaire QuestionnaireConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// SessionTTL bounds how long an idle questionnaire session is kept in memory.
	SessionTTL time.Duration
}

type LoggerConfig struct {
	Level  string
	Env    string
	Stderr bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ClassifierConfig selects the free-text note classifier.
//
// Mode is one of "keyword" (offline patterns only), "llm" (hosted model only) or
// "hybrid" (hosted model, falling back to patterns when the call fails).
type ClassifierConfig struct {
	Mode      string
	Provider  string
	ServerURL string
	Model     string
	APIKey    string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type QuestionnaireConfig struct {
	// CatalogFile overrides the embedded question set when set.
	CatalogFile string
}

const (
	ClassifierModeKeyword = "keyword"
	ClassifierModeLLM     = "llm"
	ClassifierModeHybrid  = "hybrid"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.session_ttl", "2h")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.stderr", false)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("classifier.mode", ClassifierModeKeyword)
	v.SetDefault("classifier.provider", ProviderOllama)
	v.SetDefault("classifier.server_url", "http://localhost:11434")
	v.SetDefault("classifier.model", "")
	v.SetDefault("classifier.timeout", "15s")
	v.SetDefault("classifier.cache_ttl", "24h")
	v.SetDefault("questionnaire.catalog_file", "")
}

// LoadConfig reads config.yaml from the working directory or ./configs when
// present, then applies environment overrides. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			SessionTTL:   v.GetDuration("server.session_ttl"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Stderr: v.GetBool("logger.stderr"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Classifier: ClassifierConfig{
			Mode:      v.GetString("classifier.mode"),
			Provider:  v.GetString("classifier.provider"),
			ServerURL: v.GetString("classifier.server_url"),
			Model:     v.GetString("classifier.model"),
			APIKey:    v.GetString("classifier.api_key"),
			Timeout:   v.GetDuration("classifier.timeout"),
			CacheTTL:  v.GetDuration("classifier.cache_ttl"),
		},
		Questionnaire: QuestionnaireConfig{
			CatalogFile: v.GetString("questionnaire.catalog_file"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if mode := os.Getenv("CLASSIFIER_MODE"); mode != "" {
		config.Classifier.Mode = mode
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.Classifier.ServerURL = llmServer
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.Classifier.APIKey = openAIKey
		if os.Getenv("CLASSIFIER_PROVIDER") == "" && config.Classifier.Provider == ProviderOllama && config.Classifier.Mode != ClassifierModeKeyword {
			config.Classifier.Provider = ProviderOpenAI
		}
	}
	if provider := os.Getenv("CLASSIFIER_PROVIDER"); provider != "" {
		config.Classifier.Provider = provider
	}
	if catalog := os.Getenv("CATALOG_FILE"); catalog != "" {
		config.Questionnaire.CatalogFile = catalog
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Classifier.Mode {
	case ClassifierModeKeyword, ClassifierModeLLM, ClassifierModeHybrid:
	default:
		return fmt.Errorf("unsupported classifier mode %q", c.Classifier.Mode)
	}
	if c.Classifier.Mode != ClassifierModeKeyword {
		switch c.Classifier.Provider {
		case ProviderOllama:
			if c.Classifier.ServerURL == "" {
				return fmt.Errorf("classifier.server_url is required for the ollama provider")
			}
		case ProviderOpenAI:
			if c.Classifier.APIKey == "" {
				return fmt.Errorf("classifier.api_key (or OPENAI_API_KEY) is required for the openai provider")
			}
		default:
			return fmt.Errorf("unsupported classifier provider %q", c.Classifier.Provider)
		}
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier.timeout must be positive")
	}
	return nil
}
