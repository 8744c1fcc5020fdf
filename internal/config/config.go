package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDocumentPath   = "./uk_crypto_law_guide.pdf"
	defaultCacheDir       = ".cache"
	defaultArtifactFormat = "pdf"
	defaultProvider       = "vertex"
	defaultModel          = "gemini-1.5-pro-002"
	defaultLocation       = "us-central1"
	defaultSummaryModel   = "gpt-3.5-turbo"
	defaultCacheHitDelay  = 100 * time.Millisecond
	defaultPaceInterval   = 200 * time.Millisecond
	defaultLogLevel       = "info"
	defaultLogDir         = "logs"
	defaultTrackingDir    = "data"
)

type Config struct {
	Document DocumentConfig `yaml:"document"`
	LLM      LLMConfig      `yaml:"llm"`
	Summary  LLMConfig      `yaml:"summary_llm"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
	Tracking TrackingConfig `yaml:"tracking"`
}

type DocumentConfig struct {
	Path     string `yaml:"path"`
	CacheDir string `yaml:"cache_dir"`
	// ArtifactFormat is "pdf" or "text".
	ArtifactFormat string `yaml:"artifact_format"`
}

// LLMConfig selects a generative model provider. Key, Project and Location
// are only read by the providers that need them.
type LLMConfig struct {
	Provider          string  `yaml:"provider"`
	BaseURL           string  `yaml:"base_url"`
	Key               string  `yaml:"key"`
	Model             string  `yaml:"model"`
	Project           string  `yaml:"project"`
	Location          string  `yaml:"location"`
	MaxTokens         int     `yaml:"max_tokens"`
	Temperature       float64 `yaml:"temperature"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

type EngineConfig struct {
	CacheHitDelay time.Duration `yaml:"cache_hit_delay"`
	PaceInterval  time.Duration `yaml:"pace_interval"`
}

// TrackingConfig places the interaction and feedback log.
type TrackingConfig struct {
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Dir holds the daily log file.
	Dir string `yaml:"dir"`
}

// LoadConfig reads the YAML config at path. A missing file yields defaults.
// Secrets left empty in the file are taken from the environment, after
// loading a .env file from the working directory if one exists.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	for _, llm := range []*LLMConfig{&cfg.LLM, &cfg.Summary} {
		if llm.Project == "" {
			llm.Project = os.Getenv("GOOGLE_CLOUD_PROJECT")
		}
		if llm.Key != "" {
			continue
		}
		switch llm.Provider {
		case "googleai":
			llm.Key = os.Getenv("GOOGLE_API_KEY")
		case "openai":
			llm.Key = os.Getenv("OPENAI_API_KEY")
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Document.Path == "" {
		cfg.Document.Path = defaultDocumentPath
	}
	if cfg.Document.CacheDir == "" {
		cfg.Document.CacheDir = defaultCacheDir
	}
	if cfg.Document.ArtifactFormat == "" {
		cfg.Document.ArtifactFormat = defaultArtifactFormat
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultProvider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel
	}
	if cfg.LLM.Location == "" {
		cfg.LLM.Location = defaultLocation
	}

	if cfg.Summary.Provider == "" {
		cfg.Summary.Provider = "openai"
	}
	if cfg.Summary.Model == "" {
		cfg.Summary.Model = defaultSummaryModel
	}
	if cfg.Summary.Location == "" {
		cfg.Summary.Location = defaultLocation
	}
	if cfg.Summary.MaxTokens == 0 {
		cfg.Summary.MaxTokens = 150
	}
	if cfg.Summary.Temperature == 0 {
		cfg.Summary.Temperature = 0.7
	}

	// negative values disable the delays
	if cfg.Engine.CacheHitDelay == 0 {
		cfg.Engine.CacheHitDelay = defaultCacheHitDelay
	}
	if cfg.Engine.PaceInterval == 0 {
		cfg.Engine.PaceInterval = defaultPaceInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = defaultLogDir
	}

	if cfg.Tracking.Dir == "" {
		cfg.Tracking.Dir = defaultTrackingDir
	}
}
