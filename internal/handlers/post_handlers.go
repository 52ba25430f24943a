package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"lilypad/internal/middleware"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// UpdatePostRequest mutates title and/or text; omitted fields stay unchanged.
type UpdatePostRequest struct {
	ID    string  `json:"id"`
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// HandleFeed serves the paginated feed of posts, newest first.
func (s *Server) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil {
				http.Error(w, "Invalid limit format", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		cursor := r.URL.Query().Get("cursor")

		// Anonymous callers get uuid.Nil; voteStatus stays null for them.
		requestingUserID, _ := middleware.GetUserIDFromContext(r.Context())

		ctx, cancel := s.requestContext(r)
		defer cancel()

		page, err := s.Forum.ListPosts(ctx, limit, cursor, requestingUserID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, page)
	}
}

// HandlePost handles post-related requests
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetPost(w, r)
		case http.MethodPost:
			s.handleCreatePost(w, r)
		case http.MethodPut:
			s.handleUpdatePost(w, r)
		case http.MethodDelete:
			s.handleDeletePost(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid post ID format", http.StatusBadRequest)
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(r.Context())

	ctx, cancel := s.requestContext(r)
	defer cancel()

	post, err := s.Forum.GetPost(ctx, postID, requestingUserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	post, err := s.Forum.CreatePost(ctx, userID, req.Title, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	postID, err := uuid.Parse(req.ID)
	if err != nil {
		http.Error(w, "Invalid post ID format", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	post, err := s.Forum.UpdatePost(ctx, postID, userID, req.Title, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid post ID format", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.Forum.DeletePost(ctx, postID, userID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
