package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"tgdrive/internal/auth"
	"tgdrive/internal/middleware"
)

// NewRouter builds the ops API.
// Order: CORS → Recovery → Auth → Routes
func NewRouter(
	health *HealthHandler,
	tree *TreeHandler,
	verifier auth.JWTVerifier,
	corsOrigins string,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.HealthCheck)
	mux.HandleFunc("GET /api/users/{id}/tree", tree.GetTree)

	var handler http.Handler = mux
	handler = middleware.Auth(verifier, logger, "/health")(handler)
	handler = middleware.Recovery(logger)(handler)

	// CORS wraps auth so preflight requests never need a token
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(corsOrigins, ","),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(handler)
}
