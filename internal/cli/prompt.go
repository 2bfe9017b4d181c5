package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"research/internal/prompt"
)

var (
	promptCredibility bool
	promptCompare     bool
	promptTitle       string
	promptURL         string
	promptSnippet     string
)

var promptCmd = &cobra.Command{
	Use:   "prompt [file.pdf...]",
	Short: "Render the model prompts",
	Long: `Render the prompts sent to the language model, for inspection or manual
use with another model.

Use --credibility for the source rating prompt.
Use --compare for the document comparison prompt of the given PDFs.

Examples:
  research prompt --credibility --title "Study" --url https://example.org --snippet "..."
  research prompt --compare a.pdf b.pdf`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().BoolVar(&promptCredibility, "credibility", false, "render the credibility rating prompt")
	promptCmd.Flags().BoolVar(&promptCompare, "compare", false, "render the comparison prompt for the given files")
	promptCmd.Flags().StringVar(&promptTitle, "title", "", "source title for --credibility")
	promptCmd.Flags().StringVar(&promptURL, "url", "", "source URL for --credibility")
	promptCmd.Flags().StringVar(&promptSnippet, "snippet", "", "source snippet for --credibility")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	if !promptCredibility && !promptCompare {
		return fmt.Errorf("must specify either --credibility or --compare")
	}
	if promptCredibility && promptCompare {
		return fmt.Errorf("cannot specify both --credibility and --compare")
	}

	var (
		out string
		err error
	)
	if promptCredibility {
		out, err = prompt.Credibility(promptTitle, promptURL, promptSnippet)
	} else {
		if len(args) == 0 {
			return fmt.Errorf("--compare needs at least one file")
		}
		uc := newCompareUseCase(GetConfig(), nil, GetRootDir(), GetLogger())
		out, err = uc.Prompt(args)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
