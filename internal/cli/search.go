package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"research/internal/usecase"
)

var (
	searchQuery string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the web and rank results by relevance",
	Long: `Search the web and rank the results against the query with a
cross-encoder relevance model.

Examples:
  research search -q "climate change"
  research search -q "quantum error correction" --json > results.json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output ranked results as JSON")
	searchCmd.MarkFlagRequired("query")
}

type searchOutput struct {
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	uc, err := newSearchUseCase(GetConfig(), GetLogger())
	if err != nil {
		return err
	}

	results, err := uc.Search(cmd.Context(), searchQuery)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), usecase.FormatSearchError(err))
		return nil
	}

	if !searchJSON {
		fmt.Fprint(cmd.OutOrStdout(), usecase.FormatSearchResults(results))
		return nil
	}

	out := make([]searchOutput, len(results))
	for i, r := range results {
		out[i] = searchOutput{
			Title:          r.Result.Title,
			Link:           r.Result.URL,
			Snippet:        r.Result.Snippet,
			RelevanceScore: r.RelevanceScore,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
