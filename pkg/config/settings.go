package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	MiniHeadingBullet = "bullet"
	MiniHeadingBold   = "bold"

	// RunIDLayout formats the default run identifier.
	RunIDLayout = "20060102-150405"
)

// ErrInvalidSettings is returned when a setting is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds every tunable of a generation run. It is built once at process
// start and passed by pointer to the generator.
type Settings struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	SubsectionMaxTokens int `mapstructure:"subsection_max_tokens"`
	ChapterMaxTokens    int `mapstructure:"chapter_max_tokens"`
	PlanningMaxTokens   int `mapstructure:"planning_max_tokens"`
	SummaryMaxTokens    int `mapstructure:"summary_max_tokens"`
	FixMaxTokens        int `mapstructure:"fix_max_tokens"`

	TargetMinWords  int `mapstructure:"target_min_words"`
	TargetMaxWords  int `mapstructure:"target_max_words"`
	HardMinWords    int `mapstructure:"hard_min_words"`
	ChapterMinWords int `mapstructure:"chapter_min_words"`
	ChapterMaxWords int `mapstructure:"chapter_max_words"`

	MaxTries  int `mapstructure:"max_tries"`
	MaxClaims int `mapstructure:"max_claims"`

	MiniHeadingMode string `mapstructure:"mini_heading_mode"`

	RunID          string        `mapstructure:"run_id"`
	OutputDir      string        `mapstructure:"output_dir"`
	BookFile       string        `mapstructure:"book_file"`
	CheckpointFile string        `mapstructure:"checkpoint_file"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// envBindings maps setting keys to the environment variables that feed them.
var envBindings = map[string][]string{
	"provider":              {"BOOK_PROVIDER"},
	"model":                 {"BOOK_MODEL"},
	"base_url":              {"OPENAI_BASE_URL"},
	"openai_api_key":        {"OPENAI_API_KEY"},
	"gemini_api_key":        {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"subsection_max_tokens": {"SUBSECTION_MAX_OUTPUT_TOKENS"},
	"chapter_max_tokens":    {"CHAPTER_MAX_OUTPUT_TOKENS"},
	"planning_max_tokens":   {"PLANNING_MAX_OUTPUT_TOKENS"},
	"summary_max_tokens":    {"SUMMARY_MAX_OUTPUT_TOKENS"},
	"fix_max_tokens":        {"FIX_MAX_OUTPUT_TOKENS"},
	"target_min_words":      {"TARGET_MIN_WORDS"},
	"target_max_words":      {"TARGET_MAX_WORDS"},
	"hard_min_words":        {"HARD_MIN_WORDS"},
	"chapter_min_words":     {"CHAPTER_MIN_WORDS"},
	"chapter_max_words":     {"CHAPTER_MAX_WORDS"},
	"max_tries":             {"MAX_TRIES_PER_SUB"},
	"max_claims":            {"MAX_CLAIMS"},
	"mini_heading_mode":     {"MINI_HEADING_MODE"},
	"run_id":                {"BOOK_RUN_ID"},
	"output_dir":            {"BOOK_OUTPUT_DIR"},
	"book_file":             {"BOOK_FILE"},
	"checkpoint_file":       {"BOOK_CHECKPOINT"},
	"request_timeout":       {"BOOK_REQUEST_TIMEOUT"},
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")

	v.SetDefault("subsection_max_tokens", 7000)
	v.SetDefault("chapter_max_tokens", 18000)
	v.SetDefault("planning_max_tokens", 400)
	v.SetDefault("summary_max_tokens", 1200)
	v.SetDefault("fix_max_tokens", 1800)

	v.SetDefault("target_min_words", 500)
	v.SetDefault("target_max_words", 600)
	v.SetDefault("hard_min_words", 220)
	v.SetDefault("chapter_min_words", 2000)
	v.SetDefault("chapter_max_words", 3000)

	v.SetDefault("max_tries", 2)
	v.SetDefault("max_claims", 7)
	v.SetDefault("mini_heading_mode", MiniHeadingBullet)

	v.SetDefault("run_id", "")
	v.SetDefault("output_dir", "output")
	v.SetDefault("book_file", BookFileName)
	v.SetDefault("checkpoint_file", "progress.json")
	v.SetDefault("request_timeout", "10m")
}

// BindEnv attaches the recognized environment variables to their setting keys.
func BindEnv(v *viper.Viper) error {
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// LoadSettings resolves settings from v (flags, environment, defaults) and validates them.
// An empty run id is replaced with the current time.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	s.normalize()
	if s.RunID == "" {
		s.RunID = time.Now().Format(RunIDLayout)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) normalize() {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	s.MiniHeadingMode = strings.ToLower(strings.TrimSpace(s.MiniHeadingMode))
	s.Model = strings.TrimSpace(s.Model)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	s.RunID = strings.TrimSpace(s.RunID)
	s.OpenAIAPIKey = strings.TrimSpace(s.OpenAIAPIKey)
	s.GeminiAPIKey = strings.TrimSpace(s.GeminiAPIKey)
}

// Validate checks ranges and enumerations.
func (s *Settings) Validate() error {
	var problems []string

	switch s.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		problems = append(problems, fmt.Sprintf("provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, s.Provider))
	}
	switch s.MiniHeadingMode {
	case MiniHeadingBullet, MiniHeadingBold:
	default:
		problems = append(problems, fmt.Sprintf("mini_heading_mode must be %q or %q, got %q", MiniHeadingBullet, MiniHeadingBold, s.MiniHeadingMode))
	}
	if s.Model == "" {
		problems = append(problems, "model must not be empty")
	}

	positive := map[string]int{
		"subsection_max_tokens": s.SubsectionMaxTokens,
		"chapter_max_tokens":    s.ChapterMaxTokens,
		"planning_max_tokens":   s.PlanningMaxTokens,
		"summary_max_tokens":    s.SummaryMaxTokens,
		"fix_max_tokens":        s.FixMaxTokens,
		"target_min_words":      s.TargetMinWords,
		"target_max_words":      s.TargetMaxWords,
		"hard_min_words":        s.HardMinWords,
		"chapter_min_words":     s.ChapterMinWords,
		"chapter_max_words":     s.ChapterMaxWords,
		"max_tries":             s.MaxTries,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %d", key, positive[key]))
		}
	}

	if s.HardMinWords > s.TargetMinWords {
		problems = append(problems, "hard_min_words must not exceed target_min_words")
	}
	if s.TargetMinWords > s.TargetMaxWords {
		problems = append(problems, "target_min_words must not exceed target_max_words")
	}
	if s.ChapterMinWords > s.ChapterMaxWords {
		problems = append(problems, "chapter_min_words must not exceed chapter_max_words")
	}
	if s.MaxClaims < 1 || s.MaxClaims > 7 {
		problems = append(problems, fmt.Sprintf("max_claims must be between 1 and 7, got %d", s.MaxClaims))
	}
	if s.RequestTimeout < 0 {
		problems = append(problems, "request_timeout must not be negative")
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		problems = append(problems, "output_dir must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// APIKey returns the credential for the configured provider.
func (s *Settings) APIKey() string {
	if s.Provider == ProviderGemini {
		return s.GeminiAPIKey
	}
	return s.OpenAIAPIKey
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
