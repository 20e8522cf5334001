package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/health"
	"github.com/joescharf/codereview/internal/models"
)

// Reviewer produces a review for a validated submission. Errors should be
// *apperr.AppError; anything else is reported as an internal error.
type Reviewer interface {
	Review(ctx context.Context, code, language string) (*models.Review, error)
}

// Server provides the REST API handlers.
type Server struct {
	cfg      config.Config
	reviewer Reviewer
	health   *health.Reporter
}

// NewServer creates a new API server.
func NewServer(cfg config.Config, reviewer Reviewer, reporter *health.Reporter) *Server {
	if reporter == nil {
		reporter = health.NewReporter(config.ServiceName)
	}
	return &Server{cfg: cfg, reviewer: reviewer, health: reporter}
}

// Router returns an http.Handler for the API routes with CORS, compression,
// panic recovery, and request logging applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/api/health", s.healthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/review", s.reviewCode).Methods(http.MethodPost)
	r.HandleFunc("/api", s.apiInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/", s.apiInfo).Methods(http.MethodGet)

	r.NotFoundHandler = requestLogger(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = requestLogger(http.HandlerFunc(methodNotAllowed))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{s.cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Authorization"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slogRecoveryLogger{}),
		handlers.PrintRecoveryStack(!s.cfg.IsProduction()),
	)
	return handlers.CompressHandler(cors(recovery(r)))
}

type successEnvelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg})
}

// writeAppError logs the full error server-side and sends only its message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	level := slog.LevelWarn
	if appErr.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed",
		"request_id", RequestID(r.Context()),
		"status", appErr.Status,
		"kind", appErr.Kind,
		"error", appErr,
	)
	writeError(w, appErr.Status, appErr.Message)
}

// --- Handlers ---

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Report())
}

type endpoints struct {
	Health string `json:"health"`
	Review string `json:"review"`
}

type apiInfo struct {
	Name               string    `json:"name"`
	Version            string    `json:"version"`
	Endpoints          endpoints `json:"endpoints"`
	MaxCodeLength      int       `json:"maxCodeLength"`
	SupportedLanguages []string  `json:"supportedLanguages"`
}

func (s *Server) apiInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiInfo{
		Name:    config.ServiceName,
		Version: s.cfg.APIVersion,
		Endpoints: endpoints{
			Health: "/api/health",
			Review: "/api/review (POST)",
		},
		MaxCodeLength:      s.cfg.MaxCodeLength,
		SupportedLanguages: models.SupportedLanguages,
	})
}

func (s *Server) reviewCode(w http.ResponseWriter, r *http.Request) {
	req, appErr := decodeReviewRequest(w, r, s.cfg.MaxCodeLength)
	if appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	slog.Info("reviewing code",
		"request_id", RequestID(r.Context()),
		"language", req.Language,
		"chars", len([]rune(req.Code)),
	)

	rv, err := s.reviewer.Review(r.Context(), req.Code, req.Language)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successEnvelope{
		Success:   true,
		Data:      rv,
		Timestamp: time.Now().UTC(),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route "+r.Method+" "+r.URL.Path+" not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path)
}
