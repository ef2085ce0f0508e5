package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/prehire/interview-api/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type geminiScorer struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

// NewGeminiScorer builds the Gemini-backed scoring collaborator. A missing
// API key yields a non-functional scorer rather than a startup failure;
// every evaluation then degrades to the fallback result.
func NewGeminiScorer(cfg *config.Config) (Scorer, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI evaluation will be non-functional.")
		return &geminiScorer{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-2.0-flash")
	return &geminiScorer{client: model, cfg: cfg}, nil
}

func (s *geminiScorer) Score(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", errors.New("gemini client not initialized")
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during evaluation")
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", errors.New("gemini returned no content")
	}

	fullResponseText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText += string(txt)
		}
	}
	if fullResponseText == "" {
		return "", errors.New("gemini returned no text content")
	}
	return fullResponseText, nil
}
