package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the application. It is loaded once at
// startup and passed explicitly into each component's constructor.
type Config struct {
	DebugMode     bool   `mapstructure:"debug_mode"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`

	HelloFresh HelloFreshConfig `mapstructure:"hellofresh"`
	Mealie     MealieConfig     `mapstructure:"mealie"`
	Planning   PlanningConfig   `mapstructure:"planning"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// HelloFreshConfig describes the provider account the extractor scrapes.
// MagicLink is the preferred entry point; Email/Password are the legacy
// fallback used when no link is supplied.
type HelloFreshConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Locale         string `mapstructure:"locale"`
	MagicLink      string `mapstructure:"magic_link"`
	Email          string `mapstructure:"email"`
	Password       string `mapstructure:"password"`
	SubscriptionID string `mapstructure:"subscription_id"`
}

// MealieConfig describes the target meal-planning service.
type MealieConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	PerPage int    `mapstructure:"per_page"`
}

// PlanningConfig controls matching and plan creation.
type PlanningConfig struct {
	EntryType         string   `mapstructure:"entry_type"`
	MatchingThreshold float64  `mapstructure:"matching_threshold"`
	DaysToPlan        []string `mapstructure:"days_to_plan"`
}

// GeminiConfig enables the optional LLM match resolver when an API key is set.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// TelegramConfig enables the optional run-summary notification when both
// fields are set.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// LoggingConfig controls log verbosity and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the YAML configuration, applying defaults and environment
// overrides (MEALIE_TOKEN overrides mealie.token, and so on). A .env file in
// the working directory is loaded first when present. When path is empty,
// config.yaml is looked up in the working directory.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug_mode", false)
	v.SetDefault("screenshot_dir", ".")
	v.SetDefault("hellofresh.base_url", "https://www.hellofresh.fr")
	v.SetDefault("hellofresh.locale", "fr-FR")
	v.SetDefault("mealie.per_page", 100)
	v.SetDefault("planning.entry_type", "dinner")
	v.SetDefault("planning.matching_threshold", 0.6)
	v.SetDefault("planning.days_to_plan", []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func (c *Config) validate() error {
	if c.Mealie.URL == "" {
		return fmt.Errorf("mealie.url is not set")
	}
	if c.Mealie.Token == "" {
		return fmt.Errorf("mealie.token is not set")
	}
	if c.HelloFresh.SubscriptionID == "" {
		return fmt.Errorf("hellofresh.subscription_id is not set")
	}
	if c.Planning.MatchingThreshold < 0 || c.Planning.MatchingThreshold > 1 {
		return fmt.Errorf("planning.matching_threshold must be between 0 and 1, got %v", c.Planning.MatchingThreshold)
	}
	if len(c.Planning.DaysToPlan) == 0 {
		return fmt.Errorf("planning.days_to_plan is empty")
	}
	return nil
}
