package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/homefix-ai/pkg/analyzer"
	"github.com/helmcode/homefix-ai/pkg/llm"
	"github.com/helmcode/homefix-ai/pkg/server"
)

var (
	addr          string
	serveProvider string
	serveModel    string
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnosis HTTP API",
		Long: `Serve the diagnosis API:

  POST /api/diagnose  JSON {"description","category","image"} or multipart form
  POST /api/parse     JSON {"text"}
  GET  /healthz

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to HOMEFIX_ADDR or :8080)")
	cmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider (claude, openai, gemini)")
	cmd.Flags().StringVar(&serveModel, "model", "", "Model name override")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	if addr != "" {
		cfg.Server.Addr = addr
	}
	gin.SetMode(cfg.Server.Mode)

	ctx := cmd.Context()
	client, err := llm.NewFactory(cfg, logger).Create(ctx, serveProvider, serveModel)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}

	a := analyzer.NewWithLLM(client,
		analyzer.WithParser(newParser(cfg)),
		analyzer.WithLogger(logger),
		analyzer.WithTimeout(cfg.Timeout),
	)
	logger.Info("Starting HomeFix AI", zap.String("model", client.GetModel()), zap.String("addr", cfg.Server.Addr))
	return server.New(a, logger, cfg.Server.MaxImageBytes).Run(ctx, cfg.Server.Addr)
}
