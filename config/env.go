package config

import (
	"os"

	"github.com/gin-gonic/gin"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// GinMode maps the environment to a gin mode
func (e Environment) GinMode() string {
	switch e {
	case Development:
		return gin.DebugMode
	case Test, CI:
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// IsDevelopment returns true for the development environment
func (e Environment) IsDevelopment() bool {
	return e == Development
}

// IsProduction returns true for the production environment
func (e Environment) IsProduction() bool {
	return e == Production
}
