package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig allows any origin with the methods and headers the web client
// sends. Preflight requests are answered 200 with no body.
func CORSConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization", "X-Client-Info", "Apikey"},
		MaxAge:                    24 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}
}

// CORS middleware to handle cross-origin requests
func CORS() gin.HandlerFunc {
	return cors.New(CORSConfig())
}

// Preflight answers an OPTIONS request that reached the router directly
func Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
