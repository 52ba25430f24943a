package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"lilypad/internal/forum"
	"lilypad/internal/middleware"
	"lilypad/internal/utils"
	"lilypad/internal/websocket"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "handlers").Logger()

// Server holds all server dependencies
type Server struct {
	Forum          *forum.Service
	Auth           *middleware.JWTAuth
	Hub            *websocket.Hub
	Metrics        *utils.MetricsCollector
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	forumSvc *forum.Service,
	auth *middleware.JWTAuth,
	hub *websocket.Hub,
	metrics *utils.MetricsCollector,
) *Server {
	return &Server{
		Forum:          forumSvc,
		Auth:           auth,
		Hub:            hub,
		Metrics:        metrics,
		RequestTimeout: 5 * time.Second, // Default timeout for persistence calls
	}
}

// Routes wires every endpoint with its auth requirements.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth())
	mux.HandleFunc("/user/register", s.HandleUserRegistration())
	mux.HandleFunc("/user/login", s.HandleUserLogin())
	mux.HandleFunc("/user/me", s.Auth.Require(s.HandleMe()))

	// GET serves anonymous callers too; mutations check the context user.
	mux.HandleFunc("/posts", s.Auth.Optional(s.HandleFeed()))
	mux.HandleFunc("/post", s.Auth.Optional(s.HandlePost()))
	mux.HandleFunc("/post/vote", s.Auth.Require(s.HandleVote()))

	mux.HandleFunc("/ws", s.Auth.Require(s.HandleWebSocket()))

	return s.countRequests(mux)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Metrics != nil {
			s.Metrics.IncrementRequests()
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if s.Metrics != nil {
		s.Metrics.IncrementErrors()
	}
	if appErr, ok := err.(*utils.AppError); ok {
		http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	logger.Error().Err(err).Msg("unclassified handler error")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// HandleHealth reports service and database status plus a metrics snapshot.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		if err := s.Forum.Healthy(ctx); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		response := map[string]interface{}{
			"status":      "healthy",
			"server_time": time.Now(),
		}
		if s.Metrics != nil {
			response["metrics"] = s.Metrics.Snapshot()
		}
		s.writeJSON(w, http.StatusOK, response)
	}
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.RequestTimeout)
}
