package advice

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// GeminiClient implements Generator against the Generative Language API.
type GeminiClient struct {
	svc   *genai.Service
	model string
}

// NewGeminiClient builds the client. A missing API key is a configuration
// failure and is caught before this point by config validation.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}

	svc, err := genai.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	return &GeminiClient{svc: svc, model: model}, nil
}

var _ Generator = (*GeminiClient)(nil)

// Generate runs the prompt through the model and returns the first
// candidate's text. A single attempt; retries are the caller's concern (and
// this app makes none).
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := &genai.GenerateContentRequest{
		Contents: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
	}

	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
