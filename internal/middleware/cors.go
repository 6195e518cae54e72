package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin. Sessions are authorized by bearer tokens, not
// cookies, so credentials are not forwarded.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}
	return cors.New(options).Handler
}
