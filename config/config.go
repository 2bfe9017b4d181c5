package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"research/internal/domain"
)

// Config holds all configuration for the research service.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Search      SearchConfig      `yaml:"search"`
	Rerank      RerankConfig      `yaml:"rerank"`
	LLM         LLMConfig         `yaml:"llm"`
	Credibility CredibilityConfig `yaml:"credibility"`
	Documents   DocumentsConfig   `yaml:"documents"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Store       StoreConfig       `yaml:"store"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	RateLimitRPS       float64       `yaml:"rate_limit_rps"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
}

// SearchConfig holds web search configuration.
type SearchConfig struct {
	Provider   string        `yaml:"provider"` // "serpapi", "mock"
	Engine     string        `yaml:"engine"`
	NumResults int           `yaml:"num_results"`
	TopK       int           `yaml:"top_k"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheSize  int           `yaml:"cache_size"` // 0 disables the cache
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// RerankConfig holds relevance model configuration.
type RerankConfig struct {
	Provider  string        `yaml:"provider"` // "huggingface", "cohere", "simple"
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LLMConfig holds chat model configuration.
type LLMConfig struct {
	Provider      string        `yaml:"provider"` // "openai", "local", "mock"
	Model         string        `yaml:"model"`
	Temperature   float64       `yaml:"temperature"`
	APIKeyEnv     string        `yaml:"api_key_env"`
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxIterations int           `yaml:"max_iterations"`
}

// CredibilityConfig holds source ranking configuration.
type CredibilityConfig struct {
	UseLLMFallback bool                     `yaml:"use_llm_fallback"`
	Reputation     []domain.ReputationEntry `yaml:"reputation"` // evaluated in order, first match wins
	MaxCitations   int                      `yaml:"max_citations"`
}

// DocumentsConfig holds uploaded document handling configuration.
type DocumentsConfig struct {
	UploadDir         string `yaml:"upload_dir"`
	MaxCompare        int    `yaml:"max_compare"`
	MaxCompareWords   int    `yaml:"max_compare_words"`
	SummaryChunkChars int    `yaml:"summary_chunk_chars"`
	SummaryMinWords   int    `yaml:"summary_min_words"`
	SummaryMaxLength  int    `yaml:"summary_max_length"`
	SummaryMinLength  int    `yaml:"summary_min_length"`
}

// SummarizerConfig holds summarization model configuration.
type SummarizerConfig struct {
	Provider  string        `yaml:"provider"` // "huggingface", "mock"
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// StoreConfig holds the metadata database location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console", "json"
}

// DefaultReputation returns the built-in domain reputation rules in
// evaluation order. Generic suffixes precede specific domains, so
// "harvard.edu" is matched by "edu".
func DefaultReputation() []domain.ReputationEntry {
	return []domain.ReputationEntry{
		{Domain: "gov", Score: 5},
		{Domain: "edu", Score: 5},
		{Domain: "nature.com", Score: 4},
		{Domain: "sciencedirect.com", Score: 4},
		{Domain: "harvard.edu", Score: 4},
		{Domain: "stanford.edu", Score: 4},
		{Domain: "wikipedia.org", Score: 2},
		{Domain: "quora.com", Score: 1},
		{Domain: "reddit.com", Score: 1},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8000",
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       120 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSAllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RateLimitRPS:       10,
			RateLimitBurst:     20,
		},
		Search: SearchConfig{
			Provider:   "serpapi",
			Engine:     "google",
			NumResults: 10,
			TopK:       5,
			APIKeyEnv:  "SERPAPI_API_KEY",
			BaseURL:    "https://serpapi.com",
			Timeout:    30 * time.Second,
			CacheSize:  0,
			CacheTTL:   5 * time.Minute,
		},
		Rerank: RerankConfig{
			Provider:  "huggingface",
			Model:     "cross-encoder/ms-marco-MiniLM-L-6-v2",
			APIKeyEnv: "HF_API_TOKEN",
			BaseURL:   "https://api-inference.huggingface.co",
			Timeout:   30 * time.Second,
		},
		LLM: LLMConfig{
			Provider:      "openai",
			Model:         "gpt-3.5-turbo",
			Temperature:   0,
			APIKeyEnv:     "OPENAI_API_KEY",
			BaseURL:       "https://api.openai.com/v1",
			Timeout:       60 * time.Second,
			MaxIterations: 5,
		},
		Credibility: CredibilityConfig{
			UseLLMFallback: false,
			Reputation:     DefaultReputation(),
			MaxCitations:   5,
		},
		Documents: DocumentsConfig{
			UploadDir:         "uploads",
			MaxCompare:        5,
			MaxCompareWords:   500,
			SummaryChunkChars: 1024,
			SummaryMinWords:   50,
			SummaryMaxLength:  200,
			SummaryMinLength:  50,
		},
		Summarizer: SummarizerConfig{
			Provider:  "huggingface",
			Model:     "facebook/bart-large-cnn",
			APIKeyEnv: "HF_API_TOKEN",
			BaseURL:   "https://api-inference.huggingface.co",
			Timeout:   120 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join(".research", "research.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for research.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "research.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".research", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// ApplyEnv overrides selected settings from RESEARCH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("RESEARCH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RESEARCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RESEARCH_UPLOAD_DIR"); v != "" {
		c.Documents.UploadDir = v
	}
}

// Validate checks limits and reputation rules.
func (c *Config) Validate() error {
	if c.Search.NumResults <= 0 {
		return fmt.Errorf("search.num_results must be positive, got %d", c.Search.NumResults)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Credibility.MaxCitations <= 0 {
		return fmt.Errorf("credibility.max_citations must be positive, got %d", c.Credibility.MaxCitations)
	}
	if c.Documents.MaxCompare <= 0 {
		return fmt.Errorf("documents.max_compare must be positive, got %d", c.Documents.MaxCompare)
	}
	if c.Documents.MaxCompareWords <= 0 {
		return fmt.Errorf("documents.max_compare_words must be positive, got %d", c.Documents.MaxCompareWords)
	}
	if c.Documents.SummaryChunkChars <= 0 {
		return fmt.Errorf("documents.summary_chunk_chars must be positive, got %d", c.Documents.SummaryChunkChars)
	}
	if c.LLM.MaxIterations <= 0 {
		return fmt.Errorf("llm.max_iterations must be positive, got %d", c.LLM.MaxIterations)
	}
	for _, e := range c.Credibility.Reputation {
		if e.Domain == "" {
			return fmt.Errorf("credibility.reputation: empty domain")
		}
		if e.Score < domain.MinCredibility || e.Score > domain.MaxCredibility {
			return fmt.Errorf("credibility.reputation: score for %q must be in [%d,%d], got %d",
				e.Domain, domain.MinCredibility, domain.MaxCredibility, e.Score)
		}
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StorePath returns the metadata database path resolved against dir.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// UploadDir returns the upload directory resolved against dir.
func (c *Config) UploadDir(dir string) string {
	if filepath.IsAbs(c.Documents.UploadDir) {
		return c.Documents.UploadDir
	}
	return filepath.Join(dir, c.Documents.UploadDir)
}

// EnsureDirs creates the upload and store directories.
func (c *Config) EnsureDirs(dir string) error {
	if err := os.MkdirAll(c.UploadDir(dir), 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(c.StorePath(dir)), 0755)
}
