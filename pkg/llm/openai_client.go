package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

type openAIClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
	logger *logrus.Logger
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

// Complete calls the Responses endpoint once.
func (c *openAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":             c.model,
		"input":             prompt,
		"max_output_tokens": maxTokens,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/responses", c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"model":        c.model,
		"prompt_chars": len(prompt),
		"max_tokens":   maxTokens,
	}).Debug("Sending completion request")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrRemoteService, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: openai API error: %s (%s)", ErrRemoteService, resp.Status, string(body))
	}

	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrRemoteService, err)
	}
	return extractText(&env), nil
}
