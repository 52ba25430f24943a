package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"lilypad/internal/middleware"
	"lilypad/internal/models"
)

// VoteRequest represents a request to vote on a post. Any value other than -1
// counts as an upvote.
type VoteRequest struct {
	PostID string `json:"postId"`
	Value  int    `json:"value"`
}

// VoteResponse reports the post's points after the vote applied.
type VoteResponse struct {
	Success bool `json:"success"`
	Points  int  `json:"points"`
}

// HandleVote records an authenticated caller's vote on a post.
func (s *Server) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		points, err := s.Forum.CastVote(ctx, userID, postID, models.DirectionFromValue(req.Value))
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, VoteResponse{Success: true, Points: points})
	}
}
