package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/utakatalp/form-predictor/internal/model"
)

type Config struct {
	// Server
	Host           string        `mapstructure:"HOST"`
	Port           int           `mapstructure:"PORT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CorsOrigins    []string      `mapstructure:"CORS_ORIGINS"`

	// Historical matches
	DataDriver string `mapstructure:"DATA_DRIVER"`
	DataSource string `mapstructure:"DATA_SOURCE"`
	DataSheet  string `mapstructure:"DATA_SHEET"`
	FormWindow int    `mapstructure:"FORM_WINDOW"`

	// Fitted artifacts
	ModelDir    string `mapstructure:"MODEL_DIR"`
	model.Files `mapstructure:",squash"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from the environment, an optional .env file and an
// optional predictor.yaml in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("predictor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	files := model.DefaultFiles()
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 5000)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DATA_DRIVER", "xlsx")
	v.SetDefault("DATA_SOURCE", "epl_team_form_features_updated.xlsx")
	v.SetDefault("DATA_SHEET", "")
	v.SetDefault("FORM_WINDOW", 10)
	v.SetDefault("MODEL_DIR", ".")
	v.SetDefault("MODEL_OVER15", files.Over15)
	v.SetDefault("MODEL_OVER25", files.Over25)
	v.SetDefault("MODEL_BTTS", files.BTTS)
	v.SetDefault("MODEL_RESULT", files.Result)
	v.SetDefault("MODEL_CORNERS", files.Corners)
	v.SetDefault("MODEL_SCALER", files.Scaler)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// comma separated in the environment
	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CorsOrigins = strings.Split(origins, ",")
		for i := range cfg.CorsOrigins {
			cfg.CorsOrigins[i] = strings.TrimSpace(cfg.CorsOrigins[i])
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.FormWindow <= 0 {
		return fmt.Errorf("FORM_WINDOW must be positive, got %d", c.FormWindow)
	}
	if c.DataSource == "" {
		return fmt.Errorf("DATA_SOURCE is required")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
