package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mcp-cocktail-recipes/internal/config"
	"mcp-cocktail-recipes/internal/llm"
	"mcp-cocktail-recipes/internal/server"
	"mcp-cocktail-recipes/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		host   string
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.config
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("db-path") {
				cfg.DBPath = dbPath
			}
			return runServe(cmd.Context(), &cfg, a.logger)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for HTTP transport (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	completer, err := newCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}
	if completer == nil {
		logger.Warn("no language model configured, generate_recipes is disabled")
	}

	srv, err := server.NewCocktailServer(&server.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Version: version,
	}, store, completer, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// newCompleter builds the configured model backend. It returns nil when the
// provider has nothing to talk to.
func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.ModelSet(), logger.Named("gemini"))
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client, nil
	default:
		if cfg.GatewayURL == "" {
			return nil, nil
		}
		return llm.NewGatewayClient(cfg.GatewayURL, cfg.APIKey, cfg.ModelSet(), cfg.Timeout, logger.Named("gateway")), nil
	}
}
