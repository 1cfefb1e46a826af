package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	"github.com/solartech-poc/solarbot/internal/core"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
	pkgredis "github.com/solartech-poc/solarbot/pkg/redis"
)

// AppConfig defines all configurable parameters of the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Reasoning    model.ReasoningModelConfig
	Conversation model.ConversationConfig
	Retrieval    model.RetrievalConfig
	Prompt       model.PromptConfig
	Knowledge    model.KnowledgeConfig
	Email        model.EmailConfig

	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8000"`
}

func loadConfig() (*AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file; relying on process env")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return &cfg, nil
}

var rootCmd = &cobra.Command{
	Use:           "solarbot",
	Short:         "SolarBot conversational sales agent",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logx.Init(logx.LoggerOpts{Environment: core.EnvironmentFromOS()})
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, ingestCmd, chatCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
