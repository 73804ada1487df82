package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("BOOK_RUN_ID", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	s, err := LoadSettings(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, s.Provider)
	assert.Equal(t, "gpt-4o-mini", s.Model)
	assert.Equal(t, 7000, s.SubsectionMaxTokens)
	assert.Equal(t, 18000, s.ChapterMaxTokens)
	assert.Equal(t, 500, s.TargetMinWords)
	assert.Equal(t, 220, s.HardMinWords)
	assert.Equal(t, 2, s.MaxTries)
	assert.Equal(t, 7, s.MaxClaims)
	assert.Equal(t, MiniHeadingBullet, s.MiniHeadingMode)
	assert.Equal(t, 10*time.Minute, s.RequestTimeout)
	assert.Equal(t, "sk-test", s.APIKey())

	_, err = time.Parse(RunIDLayout, s.RunID)
	assert.NoError(t, err, "default run id should be a timestamp")
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("BOOK_MODEL", "gpt-4.1")
	t.Setenv("MINI_HEADING_MODE", " BOLD ")
	t.Setenv("MAX_TRIES_PER_SUB", "4")
	t.Setenv("BOOK_RUN_ID", "fixed")
	t.Setenv("BOOK_REQUEST_TIMEOUT", "45s")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1/")

	s, err := LoadSettings(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", s.Model)
	assert.Equal(t, MiniHeadingBold, s.MiniHeadingMode)
	assert.Equal(t, 4, s.MaxTries)
	assert.Equal(t, "fixed", s.RunID)
	assert.Equal(t, 45*time.Second, s.RequestTimeout)
	assert.Equal(t, "http://localhost:8080/v1", s.BaseURL)
}

func TestLoadSettingsGeminiKeyFallback(t *testing.T) {
	t.Setenv("BOOK_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	s, err := LoadSettings(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, s.Provider)
	assert.Equal(t, "g-key", s.APIKey())
}

func TestLoadSettingsExplicitOverridesEnv(t *testing.T) {
	t.Setenv("BOOK_MODEL", "from-env")
	v := viper.New()
	v.Set("model", "from-flag")

	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", s.Model)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("MINI_HEADING_MODE", "underline")
	t.Setenv("HARD_MIN_WORDS", "900")
	t.Setenv("MAX_CLAIMS", "12")

	_, err := LoadSettings(viper.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Contains(t, err.Error(), "mini_heading_mode")
	assert.Contains(t, err.Error(), "hard_min_words must not exceed target_min_words")
	assert.Contains(t, err.Error(), "max_claims")
}
