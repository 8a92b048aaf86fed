package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS answers browser preflights for any origin. Non-preflight OPTIONS
// requests fall through to the router.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
	})
}
