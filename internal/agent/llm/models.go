package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

// Config holds everything needed to construct the Gemini chat models.
type Config struct {
	APIKey    string
	BaseURL   string
	Reasoning model.ReasoningModelConfig
}

// ChatModels carries the two reasoning rounds' models plus the shared genai
// client (reused for embeddings so queries and the index share one embedding
// space). Tooled has the tool schema bound; Plain is the tools-free model
// used for the follow-up round.
type ChatModels struct {
	Tooled    *gemini.ChatModel
	Plain     *gemini.ChatModel
	ModelName string
	Client    *genai.Client
}

// NewClient creates the genai client shared by chat models and embeddings.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}
	return genai.NewClient(ctx, clientCfg)
}

// NewChatModels creates the shared client and both chat models, binding the
// tool declarations to the first-round model.
func NewChatModels(ctx context.Context, cfg Config, toolInfos []*schema.ToolInfo) (*ChatModels, error) {
	client, err := NewClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		logx.Error().Err(err).Msg("error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	tooled, err := newModel(ctx, client, cfg.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("error creating reasoning model: %w", err)
	}
	if err := tooled.BindTools(toolInfos); err != nil {
		logx.Error().Err(err).Msg("failed to bind tools to reasoning model")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	plain, err := newModel(ctx, client, cfg.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("error creating follow-up model: %w", err)
	}

	logx.Debug().Str("model", cfg.Reasoning.Model).Int("tools", len(toolInfos)).Msg("chat models ready")
	return &ChatModels{
		Tooled:    tooled,
		Plain:     plain,
		ModelName: cfg.Reasoning.Model,
		Client:    client,
	}, nil
}

func newModel(ctx context.Context, client *genai.Client, cfg model.ReasoningModelConfig) (*gemini.ChatModel, error) {
	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
}
