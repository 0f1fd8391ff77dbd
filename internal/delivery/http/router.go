package http

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "passin/docs"
	"passin/internal/delivery/http/controllers"
	"passin/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, healthController *controllers.HealthController) *http.ServeMux {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("GET /events/slug/{slug}", eventController.GetEventBySlug)

	// Health
	mux.HandleFunc("GET /healthz", healthController.Liveness)
	mux.HandleFunc("GET /readyz", healthController.Readiness)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain shared by every route.
// Order, outermost first: request id, real ip, access log, panic recovery, CORS.
func NewHandler(logger *slog.Logger, allowedOrigins []string, mux http.Handler) http.Handler {
	var h http.Handler = middleware.CORS(allowedOrigins, mux)
	h = chimw.Recoverer(h)
	h = middleware.LoggingMiddleware(logger, h)
	h = chimw.RealIP(h)
	return chimw.RequestID(h)
}
