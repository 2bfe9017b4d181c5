package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"research/internal/server"
	"research/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the research assistant HTTP API.

Examples:
  research serve
  research serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	dir := GetRootDir()
	log := GetLogger()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	st, err := openStore(cfg, dir, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	search, err := newSearchUseCase(cfg, log)
	if err != nil {
		return err
	}
	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm: %w", err)
	}
	sum, err := newSummarizer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	metrics := server.NewMetrics()
	cite := newCiteUseCase(cfg, model, log)
	compare := newCompareUseCase(cfg, model, dir, log)
	summarize := newSummarizeUseCase(cfg, sum, st, dir, log)
	documents := newDocumentsUseCase(cfg, st, dir, log)
	agent := usecase.NewAgentUseCase(model, usecase.NewResearchTools(search, summarize, compare, cite),
		usecase.AgentOptions{
			MaxIterations: cfg.LLM.MaxIterations,
			MaxCompare:    cfg.Documents.MaxCompare,
			Observer:      metrics.RecordToolInvocation,
		}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(ctx, cfg.Server, server.Deps{
		Agent:     agent,
		Search:    search,
		Cite:      cite,
		Compare:   compare,
		Summarize: summarize,
		Documents: documents,
		Metrics:   metrics,
	}, log)

	log.Info("starting research API",
		zap.String("addr", cfg.Server.Addr),
		zap.String("upload_dir", documents.UploadDir()),
		zap.String("llm", model.ModelName()))
	return srv.ListenAndServe(ctx)
}
