package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Timing   TimingConfig   `mapstructure:"timing"`
	App      AppConfig      `mapstructure:"app"`
}

type DatabaseConfig struct {
	QuranPath  string `mapstructure:"quran_path"`
	TimingPath string `mapstructure:"timing_path"`
}

// RedisConfig is optional. Without a URI progress is kept in memory.
type RedisConfig struct {
	URI     string `mapstructure:"uri"`
	Profile string `mapstructure:"profile"`
}

type TimingConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RecitersFile string        `mapstructure:"reciters_file"`
}

type AppConfig struct {
	LocalesDir      string `mapstructure:"locales_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
	LogMode         string `mapstructure:"log_mode"`
}

// Load loads configuration from a YAML file with environment variable overrides
func Load(filename string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(filename)

	// Set defaults
	v.SetDefault("app.locales_dir", "locales")
	v.SetDefault("app.default_language", "en")
	v.SetDefault("app.log_mode", "dev")
	v.SetDefault("timing.timeout", 30*time.Second)
	v.SetDefault("timing.reciters_file", "reciters.yaml")
	v.SetDefault("redis.profile", "default")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Environment variable configuration
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.QuranPath == "" {
		return nil, fmt.Errorf("quran database path is required")
	}
	switch domain.Language(cfg.App.DefaultLanguage) {
	case domain.LangEnglish, domain.LangArabic:
	default:
		return nil, fmt.Errorf("unsupported default language: %q", cfg.App.DefaultLanguage)
	}

	return &cfg, nil
}

type recitersFile struct {
	Reciters []domain.Reciter `yaml:"reciters"`
}

// LoadReciters reads the reciter catalogue
func LoadReciters(filename string) ([]domain.Reciter, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var rf recitersFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return rf.Reciters, nil
}
