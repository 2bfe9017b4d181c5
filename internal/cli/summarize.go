package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var summarizeNoCache bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file.pdf>...",
	Short: "Summarize uploaded PDF documents",
	Long: `Summarize one or more PDFs from the upload directory. Files are looked
up by base name. Summaries are cached in the metadata store until the
file or the summarizer configuration changes.

Examples:
  research summarize paper.pdf
  research summarize a.pdf b.pdf c.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().BoolVar(&summarizeNoCache, "no-cache", false, "bypass the summary cache")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	dir := GetRootDir()
	log := GetLogger()

	sum, err := newSummarizer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	st, err := openStore(cfg, dir, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	uc := newSummarizeUseCase(cfg, sum, st, dir, log)
	if summarizeNoCache {
		uc = newSummarizeUseCase(cfg, sum, nil, dir, log)
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Summarizing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	start := time.Now()
	outputs := make([]string, len(args))
	for i, path := range args {
		outputs[i] = uc.Run(cmd.Context(), path)
		bar.Set(i + 1)

		done := i + 1
		rate := float64(done) / time.Since(start).Seconds()
		if remaining := len(args) - done; remaining > 0 && rate > 0 {
			eta := time.Duration(float64(remaining)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Summarizing[reset] ETA: %s", formatDuration(eta)))
		}
	}

	for i, out := range outputs {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\n---")
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
