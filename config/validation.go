package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequireAIKey    bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI:          {},
	Production: {
		RequirePostgres: true,
		RequireAIKey:    true,
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Environment]

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
		if cfg.DBPassword == "" && cfg.Environment != Development {
			add("DB_PASSWORD", "db_password secret is required")
		}
	case "sqlite":
		if reqs.RequirePostgres {
			add("DB_DRIVER", "sqlite is not allowed in "+string(cfg.Environment))
		}
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.AIProvider {
	case "together", "openai":
	default:
		add("AI_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.AIProvider))
	}
	if reqs.RequireAIKey && cfg.AIAPIKey == "" {
		add("AI_API_KEY", "ai_api_key secret is required")
	}
	if cfg.AIMaxTokens <= 0 {
		add("AI_MAX_TOKENS", "must be positive")
	}
	if cfg.AITemperature < 0 || cfg.AITemperature > 2 {
		add("AI_TEMPERATURE", "must be between 0 and 2")
	}
	if cfg.AITopP <= 0 || cfg.AITopP > 1 {
		add("AI_TOP_P", "must be in (0, 1]")
	}

	if cfg.RateLimitMax <= 0 {
		add("RATE_LIMIT_MAX", "must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
