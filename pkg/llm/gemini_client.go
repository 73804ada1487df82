package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
	logger *logrus.Logger
}

func newGeminiClient(ctx context.Context, cfg Config, logger *logrus.Logger) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiClient{client: client, model: cfg.Model, logger: logger}, nil
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"model":        c.model,
		"prompt_chars": len(prompt),
		"max_tokens":   maxTokens,
	}).Debug("Sending completion request")

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini API error: %v", ErrRemoteService, err)
	}
	return candidateText(resp), nil
}

// candidateText returns the text of the first candidate that has any,
// skipping thought parts.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}
