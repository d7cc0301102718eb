package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultEmbedModel = "text-embedding-004"

	// Rough input budget of the embedding model, in runes.
	embedChunkRunes = 8000
)

// GeminiEmbedder produces document embeddings with the Gemini API. One
// instance is created at startup and shared by every request.
type GeminiEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

type geminiEmbedder struct {
	client     *genai.Client
	embedModel string
	chunker    TextChunker
	logger     *zap.Logger
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string, logger *zap.Logger) (GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	if model == "" {
		model = DefaultEmbedModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiEmbedder{
		client:     client,
		embedModel: model,
		chunker:    NewTextChunker(),
		logger:     logger,
	}, nil
}

func (g *geminiEmbedder) Model() string {
	return g.embedModel
}

// Embed implements GeminiEmbedder. Texts over the input budget are embedded
// chunk by chunk and mean-pooled.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	chunks := g.chunker.Split(text, embedChunkRunes)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to embed")
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(chunk), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if result == nil || len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("empty embedding result")
		}
		vectors = append(vectors, result.Embeddings[0].Values)
	}

	if len(vectors) > 1 {
		g.logger.Debug("mean-pooled chunked embedding", zap.Int("chunks", len(vectors)))
	}

	return meanPool(vectors)
}

func meanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 1 {
		return vectors[0], nil
	}

	dim := len(vectors[0])
	out := make([]float32, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch: %d != %d", len(v), dim)
		}
		for i, x := range v {
			out[i] += x
		}
	}

	n := float32(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out, nil
}
