package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solartech-poc/solarbot/internal/agent"
	"github.com/solartech-poc/solarbot/internal/agent/llm"
	"github.com/solartech-poc/solarbot/internal/agent/repo"
	"github.com/solartech-poc/solarbot/internal/agent/tools"
	"github.com/solartech-poc/solarbot/internal/api"
	"github.com/solartech-poc/solarbot/internal/knowledge"
	"github.com/solartech-poc/solarbot/internal/mail"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg *AppConfig) error {
	rdb, err := cfg.Redis.New()
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		return fmt.Errorf("parse CONVERSATION_TTL: %w", err)
	}
	leads := repo.NewRedisLeadRepository(rdb, ttl)

	sender := mail.NewSMTPSender(cfg.Email)
	registry, err := tools.NewRegistry(ctx,
		tools.NewUpdateLeadTool(leads),
		tools.NewSendEmailTool(sender),
	)
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}

	models, err := llm.NewChatModels(ctx, llm.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Reasoning: cfg.Reasoning,
	}, registry.Infos())
	if err != nil {
		return fmt.Errorf("init chat models: %w", err)
	}

	embed := knowledge.GeminiEmbedding(models.Client, cfg.Knowledge.EmbeddingModel)
	store, err := knowledge.NewStore(cfg.Knowledge.Path, embed)
	if err != nil {
		return fmt.Errorf("open knowledge store: %w", err)
	}
	if err := seedKnowledge(ctx, store, cfg.Knowledge.PDFPath); err != nil {
		return err
	}

	orchestrator := agent.New(agent.Config{
		Conversation: cfg.Conversation,
		Retrieval:    cfg.Retrieval,
		Prompt:       cfg.Prompt,
	}, cfg.Reasoning, leads, store, registry, models.Tooled, models.Plain)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(orchestrator, requestTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", cfg.ListenAddr).Str("model", models.ModelName).Msg("webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		logx.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedKnowledge loads the product corpus into the vector store on startup.
// A persistent store that already holds documents is left as is; a missing
// PDF only degrades retrieval, so the server still starts.
func seedKnowledge(ctx context.Context, store *knowledge.Store, pdfPath string) error {
	if store.Len() > 0 {
		logx.Info().Int("documents", store.Len()).Msg("knowledge store already populated")
		return nil
	}
	if _, err := os.Stat(pdfPath); err != nil {
		logx.Warn().Str("path", pdfPath).Msg("knowledge PDF not found; answering without retrieval context")
		return nil
	}
	passages, err := knowledge.ExtractPDF(pdfPath)
	if err != nil {
		return fmt.Errorf("extract knowledge PDF: %w", err)
	}
	n, err := store.Ingest(ctx, passages)
	if err != nil {
		return fmt.Errorf("ingest knowledge PDF: %w", err)
	}
	logx.Info().Str("path", pdfPath).Int("chunks", n).Msg("knowledge corpus ingested")
	return nil
}
