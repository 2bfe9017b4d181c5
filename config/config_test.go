package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"research/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.NumResults != 10 {
		t.Errorf("expected NumResults=10, got %d", cfg.Search.NumResults)
	}
	if cfg.Search.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Search.TopK)
	}
	if cfg.Credibility.MaxCitations != 5 {
		t.Errorf("expected MaxCitations=5, got %d", cfg.Credibility.MaxCitations)
	}
	if cfg.Credibility.UseLLMFallback {
		t.Error("expected LLM fallback disabled by default")
	}
	if cfg.Documents.MaxCompare != 5 {
		t.Errorf("expected MaxCompare=5, got %d", cfg.Documents.MaxCompare)
	}
	if cfg.Rerank.Model != "cross-encoder/ms-marco-MiniLM-L-6-v2" {
		t.Errorf("unexpected rerank model %s", cfg.Rerank.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultReputation_Order(t *testing.T) {
	rep := DefaultReputation()
	if len(rep) != 9 {
		t.Fatalf("expected 9 rules, got %d", len(rep))
	}
	if rep[0].Domain != "gov" || rep[1].Domain != "edu" {
		t.Errorf("expected gov, edu first, got %s, %s", rep[0].Domain, rep[1].Domain)
	}
	if rep[4].Domain != "harvard.edu" {
		t.Errorf("expected harvard.edu at index 4, got %s", rep[4].Domain)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "research.yaml")

	content := `
search:
  top_k: 3
  timeout: 5s
credibility:
  use_llm_fallback: true
  reputation:
    - domain: harvard.edu
      score: 4
    - domain: edu
      score: 5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Search.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Search.TopK)
	}
	if cfg.Search.Timeout != 5*time.Second {
		t.Errorf("expected Timeout=5s, got %s", cfg.Search.Timeout)
	}
	if cfg.Search.NumResults != 10 {
		t.Errorf("expected NumResults default 10, got %d", cfg.Search.NumResults)
	}
	if !cfg.Credibility.UseLLMFallback {
		t.Error("expected LLM fallback enabled")
	}
	if len(cfg.Credibility.Reputation) != 2 || cfg.Credibility.Reputation[0].Domain != "harvard.edu" {
		t.Errorf("expected reputation order preserved, got %+v", cfg.Credibility.Reputation)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "research.yaml")

	content := `
documents:
  upload_dir: files
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Documents.UploadDir != "files" {
		t.Errorf("expected UploadDir=files, got %s", cfg.Documents.UploadDir)
	}
	if got := cfg.UploadDir(tmpDir); got != filepath.Join(tmpDir, "files") {
		t.Errorf("unexpected resolved upload dir %s", got)
	}
}

func TestValidate_RejectsBadReputationScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Credibility.Reputation = append(cfg.Credibility.Reputation, domain.ReputationEntry{Domain: "example.com", Score: 7})

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for score 7")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RESEARCH_ADDR", ":9999")
	t.Setenv("RESEARCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":9999" {
		t.Errorf("expected Addr=:9999, got %s", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestStorePath(t *testing.T) {
	cfg := DefaultConfig()
	path := cfg.StorePath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".research", "research.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
