package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"research/internal/domain"
	"research/internal/port"
)

var (
	citeResults string
	citeUseLLM  bool
	citeJSON    bool
)

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Rank sources by credibility and format citations",
	Long: `Rank search results by source credibility and print formatted citations.
The results file holds a JSON array of {"title","link","snippet"} objects,
such as the output of "research search --json".

Examples:
  research cite --results results.json
  research cite --results results.json --use-llm`,
	Args: cobra.NoArgs,
	RunE: runCite,
}

func init() {
	rootCmd.AddCommand(citeCmd)
	citeCmd.Flags().StringVar(&citeResults, "results", "", "path to a JSON file of search results (required)")
	citeCmd.Flags().BoolVar(&citeUseLLM, "use-llm", false, "rate unknown domains with the language model (default from config)")
	citeCmd.Flags().BoolVar(&citeJSON, "json", false, "output citations as JSON")
	citeCmd.MarkFlagRequired("results")
}

func runCite(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()

	data, err := os.ReadFile(citeResults)
	if err != nil {
		return fmt.Errorf("failed to read results file: %w", err)
	}
	var results []domain.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("failed to parse results file: %w", err)
	}

	useLLM := cfg.Credibility.UseLLMFallback
	if cmd.Flags().Changed("use-llm") {
		useLLM = citeUseLLM
	}

	var model port.LLM
	if useLLM {
		m, err := newLLM(cfg)
		if err != nil {
			return fmt.Errorf("failed to create llm: %w", err)
		}
		model = m
	}

	uc := newCiteUseCase(cfg, model, log)

	if !citeJSON {
		fmt.Fprintln(cmd.OutOrStdout(), uc.Run(cmd.Context(), results, useLLM))
		return nil
	}

	citations, err := uc.Rank(cmd.Context(), results, useLLM)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(citations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
