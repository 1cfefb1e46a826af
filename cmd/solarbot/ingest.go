package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solartech-poc/solarbot/internal/agent/llm"
	"github.com/solartech-poc/solarbot/internal/knowledge"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf]",
	Short: "Index a knowledge PDF into the vector store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pdfPath := cfg.Knowledge.PDFPath
		if len(args) == 1 {
			pdfPath = args[0]
		}

		ctx := cmd.Context()
		client, err := llm.NewClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("init gemini client: %w", err)
		}
		embed := knowledge.GeminiEmbedding(client, cfg.Knowledge.EmbeddingModel)

		store, err := knowledge.NewStore(cfg.Knowledge.Path, embed)
		if err != nil {
			return fmt.Errorf("open knowledge store: %w", err)
		}

		passages, err := knowledge.ExtractPDF(pdfPath)
		if err != nil {
			return fmt.Errorf("extract %s: %w", pdfPath, err)
		}
		n, err := store.Ingest(ctx, passages)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", pdfPath, err)
		}

		logx.Info().
			Str("pdf", pdfPath).
			Str("store", cfg.Knowledge.Path).
			Int("chunks", n).
			Int("total", store.Len()).
			Msg("ingestion complete")
		return nil
	},
}
