package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"research/internal/domain"
	"research/internal/port"
)

// Tool is a capability offered to the research agent. Call returns the
// user-facing answer; an error means the arguments were unusable.
type Tool interface {
	Schema() port.ToolSchema
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// ErrInvalidArguments is returned by tools given malformed arguments.
var ErrInvalidArguments = errors.New("invalid tool arguments")

type funcTool struct {
	schema port.ToolSchema
	call   func(ctx context.Context, args json.RawMessage) (string, error)
}

func (t *funcTool) Schema() port.ToolSchema { return t.schema }

func (t *funcTool) Call(ctx context.Context, args json.RawMessage) (string, error) {
	return t.call(ctx, args)
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// NewSearchTool exposes the search pipeline as "search_web".
func NewSearchTool(search *SearchUseCase) Tool {
	return &funcTool{
		schema: port.ToolSchema{
			Name:        "search_web",
			Description: "Searches the web and returns the top 5 results ranked by relevance.",
			Parameters: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Search query"}},"required":["query"]}`),
		},
		call: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if in.Query == "" {
				return "", fmt.Errorf("%w: query is required", ErrInvalidArguments)
			}
			return search.Run(ctx, in.Query), nil
		},
	}
}

// NewSummarizeTool exposes PDF summarization as "summarize_pdf".
func NewSummarizeTool(summarize *SummarizeUseCase) Tool {
	return &funcTool{
		schema: port.ToolSchema{
			Name:        "summarize_pdf",
			Description: "Extracts the text of an uploaded PDF and summarizes it. Takes the file name of the upload.",
			Parameters: json.RawMessage(`{"type":"object","properties":{"file_path_relative":{"type":"string","description":"File name of the uploaded PDF"}},"required":["file_path_relative"]}`),
		},
		call: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Path string `json:"file_path_relative"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if in.Path == "" {
				return "", fmt.Errorf("%w: file_path_relative is required", ErrInvalidArguments)
			}
			return summarize.Run(ctx, in.Path), nil
		},
	}
}

// NewCompareTool exposes document comparison as "compare_documents".
func NewCompareTool(compare *CompareUseCase) Tool {
	return &funcTool{
		schema: port.ToolSchema{
			Name:        "compare_documents",
			Description: fmt.Sprintf("Compares up to %d uploaded PDFs and extracts common, unique and conflicting points.", compare.maxDocs),
			Parameters: json.RawMessage(`{"type":"object","properties":{"file_paths":{"type":"array","items":{"type":"string"},"description":"File names of the uploaded PDFs"}},"required":["file_paths"]}`),
		},
		call: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Paths []string `json:"file_paths"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			return compare.Run(ctx, in.Paths), nil
		},
	}
}

// NewCiteTool exposes credibility ranking as "rank_and_cite".
func NewCiteTool(cite *CiteUseCase) Tool {
	return &funcTool{
		schema: port.ToolSchema{
			Name:        "rank_and_cite",
			Description: "Ranks sources by credibility and returns formatted citations.",
			Parameters: json.RawMessage(`{"type":"object","properties":{"results":{"type":"array","items":{"type":"object","properties":{"link":{"type":"string"},"title":{"type":"string"},"snippet":{"type":"string"}}}},"use_llm":{"type":"boolean","description":"Ask the model to rate unknown domains"}},"required":["results"]}`),
		},
		call: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Results []domain.SearchResult `json:"results"`
				UseLLM  bool                  `json:"use_llm"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			return cite.Run(ctx, in.Results, in.UseLLM), nil
		},
	}
}

// NewResearchTools returns the full tool set offered to the research agent.
func NewResearchTools(search *SearchUseCase, summarize *SummarizeUseCase, compare *CompareUseCase, cite *CiteUseCase) []Tool {
	return []Tool{
		NewSearchTool(search),
		NewSummarizeTool(summarize),
		NewCompareTool(compare),
		NewCiteTool(cite),
	}
}
