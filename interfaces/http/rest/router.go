package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"skydesk-backend/infrastructure/config"
	"skydesk-backend/interfaces/http/rest/middleware"
	"skydesk-backend/interfaces/tools"
	"skydesk-backend/pkg/auth"
)

// Router exposes the tool registry over HTTP.
type Router struct {
	registry *tools.Registry
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(registry *tools.Registry, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Tool invocation routes
	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.tokenValidator(), rt.logger))
		r.Get("/tools", rt.listTools)
		r.Post("/tools/{toolName}", rt.invokeTool)
	})

	return router
}

// tokenValidator builds the JWT validator, or nil when auth is disabled.
func (rt *Router) tokenValidator() *auth.JWTValidator {
	if rt.cfg.JWTSecret == "" {
		return nil
	}
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: rt.cfg.JWTSecret,
		Issuer:    rt.cfg.JWTIssuer,
	})
	if err != nil {
		rt.logger.Error("failed to build token validator", zap.Error(err))
		return nil
	}
	return validator
}

// listTools returns the tool catalog.
func (rt *Router) listTools(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tools": rt.registry.List(),
	})
}

// invokeTool dispatches a tool invocation. The tool's shaped payload comes
// back with a 200 regardless of outcome; the caller reads the status field.
func (rt *Router) invokeTool(w http.ResponseWriter, req *http.Request) {
	toolName := chi.URLParam(req, "toolName")

	body, err := io.ReadAll(req.Body)
	if err != nil {
		rt.respondError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	payload, err := rt.registry.Invoke(req.Context(), toolName, body)
	if err != nil {
		if strings.Contains(err.Error(), "unknown tool") {
			rt.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		rt.logger.Error("tool invocation failed", zap.String("tool", toolName), zap.Error(err))
		rt.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (rt *Router) respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
