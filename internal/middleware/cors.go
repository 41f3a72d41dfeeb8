package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS adds Access-Control headers for allowed origins and short-circuits preflight requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if slices.Contains(allowedOrigins, "*") {
		// credentials cannot be combined with a literal "*", so reflect the caller instead
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return cors.Handler(opts)
}
