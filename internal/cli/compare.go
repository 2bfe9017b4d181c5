package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file.pdf>...",
	Short: "Compare uploaded PDF documents",
	Long: `Compare up to five PDFs from the upload directory and report their
common, unique and conflicting points. Files are looked up by base name.

Examples:
  research compare a.pdf b.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm: %w", err)
	}

	uc := newCompareUseCase(cfg, model, GetRootDir(), GetLogger())
	fmt.Fprintln(cmd.OutOrStdout(), uc.Run(cmd.Context(), args))
	return nil
}
