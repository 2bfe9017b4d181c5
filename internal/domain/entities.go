package domain

import "time"

// SearchResult is a single organic result returned by the search API.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"link"`
	Snippet string `json:"snippet"`
}

type ScoredResult struct {
	Result         SearchResult
	RelevanceScore float64
}

// CredibilityLabel is the three-tier label derived from a credibility score.
type CredibilityLabel string

const (
	CredibilityHigh   CredibilityLabel = "High"
	CredibilityMedium CredibilityLabel = "Medium"
	CredibilityLow    CredibilityLabel = "Low"
)

const (
	MinCredibility = 1
	MaxCredibility = 5
)

// LabelFor maps a score to its label: >=4 High, >=3 Medium, otherwise Low.
func LabelFor(score int) CredibilityLabel {
	switch {
	case score >= 4:
		return CredibilityHigh
	case score >= 3:
		return CredibilityMedium
	default:
		return CredibilityLow
	}
}

// ClampCredibility bounds a score to [MinCredibility, MaxCredibility].
func ClampCredibility(score int) int {
	if score < MinCredibility {
		return MinCredibility
	}
	if score > MaxCredibility {
		return MaxCredibility
	}
	return score
}

type Citation struct {
	SourceTitle      string           `json:"source_title"`
	URL              string           `json:"url"`
	SnippetPreview   string           `json:"snippet_preview"`
	CredibilityScore int              `json:"credibility_score"`
	CredibilityLabel CredibilityLabel `json:"credibility_label"`
}

type ReputationEntry struct {
	Domain string `yaml:"domain" json:"domain"`
	Score  int    `yaml:"score" json:"score"`
}

// Document is an uploaded PDF tracked by the service.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"file_path"`
	Size       int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Summary is a cached summarization of a document's leading text.
type Summary struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	ModTime   int64     `json:"mod_time"`
	Text      string    `json:"text"`
	WordCount int       `json:"word_count"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}
