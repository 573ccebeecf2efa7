package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DataFile      string `mapstructure:"DATA_FILE"`
	ExportDir     string `mapstructure:"EXPORT_DIR"`
	Env           string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	SaveDelayMs   int    `mapstructure:"SAVE_DELAY_MS"`
	UpdateRepo    string `mapstructure:"UPDATE_REPO"`
	AppVersion    string `mapstructure:"APP_VERSION"`
}

var ErrNoToken = errors.New("TELEGRAM_TOKEN is not set")

// LoadConfig reads .env (when present) and the environment, applying defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("DATA_FILE", "employees.json")
	viper.SetDefault("EXPORT_DIR", ".")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SAVE_DELAY_MS", 600)
	viper.SetDefault("UPDATE_REPO", "WAM2021/Employee_Scheduler")
	viper.SetDefault("APP_VERSION", "1.0.0")

	// AutomaticEnv alone does not surface env vars through Unmarshal; bind
	// each key explicitly.
	for _, key := range []string{"TELEGRAM_TOKEN", "DATA_FILE", "EXPORT_DIR", "ENV", "LOG_LEVEL", "SAVE_DELAY_MS", "UPDATE_REPO", "APP_VERSION"} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.TelegramToken == "" {
		return nil, ErrNoToken
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
