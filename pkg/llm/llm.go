package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultHTTPTimeout = 10 * time.Minute
)

var (
	// ErrMissingCredential is returned when no API key is available for the provider.
	ErrMissingCredential = errors.New("missing service credential")
	// ErrRemoteService wraps transport failures and error responses from the completion service.
	ErrRemoteService = errors.New("remote service failure")
)

// Client sends a single prompt to a text-generation service and returns plain text.
// Implementations do not retry; an empty string with a nil error means the
// service answered without usable text.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Name() string
}

// Config describes how to build a completion client.
type Config struct {
	Provider string
	Model    string
	Endpoint string
	APIKey   string

	// Timeout bounds one HTTP round trip. Zero disables it.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// New builds the client for cfg.Provider. It fails with ErrMissingCredential
// before any network activity when the key is empty.
func New(ctx context.Context, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingCredential, cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model must not be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		base := strings.TrimRight(cfg.Endpoint, "/")
		if base == "" {
			base = defaultOpenAIBase
		}
		return &openAIClient{
			apiKey: cfg.APIKey,
			model:  cfg.Model,
			base:   base,
			client: pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
			logger: logger,
		}, nil
	case ProviderGemini:
		return newGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout < 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
