package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string        `mapstructure:"PGSQL_URL" validate:"required"`
	Port               string        `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction       bool          `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck      bool          `mapstructure:"ENABLE_DB_CHECK"`
	RunMigrations      bool          `mapstructure:"RUN_MIGRATIONS"`
	JWTSecret          string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	LogLevel           string        `mapstructure:"LOG_LEVEL" validate:"oneof=DEBUG INFO WARN ERROR"`
	RateLimit          string        `mapstructure:"RATE_LIMIT" validate:"required"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	ParserURL          string        `mapstructure:"PARSER_URL" validate:"omitempty,url"`
	ParserTimeout      time.Duration `mapstructure:"PARSER_TIMEOUT" validate:"gt=0"`
	WriteBatchSize     int           `mapstructure:"WRITE_BATCH_SIZE" validate:"min=1,max=1000"`
	// RulesFile overrides the embedded classification rule table when set.
	RulesFile string `mapstructure:"RULES_FILE" validate:"omitempty,filepath"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("PARSER_URL", "http://localhost:8000")
	v.SetDefault("PARSER_TIMEOUT", "60s")
	v.SetDefault("WRITE_BATCH_SIZE", 100)
	v.SetDefault("RULES_FILE", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		LogLevel:       strings.ToUpper(v.GetString("LOG_LEVEL")),
		RateLimit:      v.GetString("RATE_LIMIT"),
		ParserURL:      strings.TrimRight(v.GetString("PARSER_URL"), "/"),
		ParserTimeout:  v.GetDuration("PARSER_TIMEOUT"),
		WriteBatchSize: v.GetInt("WRITE_BATCH_SIZE"),
		RulesFile:      v.GetString("RULES_FILE"),
	}
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if cfg.JWTSecret == "" && !cfg.IsProduction {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
