package llm

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredential(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderGemini} {
		_, err := New(context.Background(), Config{Provider: provider, Model: "m", APIKey: "  "})
		assert.ErrorIs(t, err, ErrMissingCredential, provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "llama", Model: "m", APIKey: "k"})
	assert.Error(t, err)
}

func TestNewOpenAIDefaults(t *testing.T) {
	c, err := New(context.Background(), Config{Model: "gpt-4o-mini", APIKey: "k", Timeout: -1})
	require.NoError(t, err)

	oc, ok := c.(*openAIClient)
	require.True(t, ok)
	assert.Equal(t, defaultOpenAIBase, oc.base)
	assert.Equal(t, defaultHTTPTimeout, oc.client.Timeout)
	assert.Equal(t, "OpenAI (gpt-4o-mini)", c.Name())
}

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	assert.Same(t, custom, pickHTTPClient(custom, time.Minute))
}

func TestPickHTTPClientZeroDisablesTimeout(t *testing.T) {
	assert.Zero(t, pickHTTPClient(nil, 0).Timeout)
	assert.Equal(t, 30*time.Second, pickHTTPClient(nil, 30*time.Second).Timeout)
}
