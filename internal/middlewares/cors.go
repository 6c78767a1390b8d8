package middlewares

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/saulo-duarte/chronos-habits/internal/config"
)

var defaultOrigins = []string{"http://localhost:3000"}

// CorsMiddleware allows the browser client origins listed in CORS_ORIGINS.
func CorsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(config.GetenvList("CORS_ORIGINS", defaultOrigins)),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-Id"}),
		handlers.AllowCredentials(),
	)(next)
}
