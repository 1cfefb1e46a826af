package knowledge

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"google.golang.org/genai"
)

// GeminiEmbedding adapts the shared genai client into a chromem embedding
// function. Ingest and query must go through the same function so both ends
// live in the same embedding space.
func GeminiEmbedding(client *genai.Client, modelName string) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.Models.EmbedContent(ctx, modelName, genai.Text(text), nil)
		if err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return nil, fmt.Errorf("embed content: empty embedding from model %s", modelName)
		}
		return resp.Embeddings[0].Values, nil
	}
}
