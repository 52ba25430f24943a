package handlers

import (
	"encoding/json"
	"net/http"

	"lilypad/internal/api"
	"lilypad/internal/middleware"
	"lilypad/internal/models"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// RegisterResponse carries the created user and a session token.
type RegisterResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		user, err := s.Forum.Register(ctx, req.Username, req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}

		// Registration logs the user in immediately.
		token, err := s.Auth.GenerateToken(user.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, RegisterResponse{User: user, Token: token})
	}
}

// HandleUserLogin handles requests to log in a user
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		user, err := s.Forum.Login(ctx, req.UsernameOrEmail, req.Password)
		if err != nil {
			status := http.StatusUnauthorized
			s.writeJSON(w, status, api.LoginResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		token, err := s.Auth.GenerateToken(user.ID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to generate token")
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.LoginResponse{
			Success: true,
			Token:   token,
			UserID:  user.ID.String(),
		})
	}
}

// HandleMe returns the authenticated caller's profile.
func (s *Server) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		user, err := s.Forum.CurrentUser(ctx, userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, user)
	}
}
