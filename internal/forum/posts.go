package forum

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

// CreatePost creates a post owned by creatorID and returns it with the
// creator profile embedded.
func (s *Service) CreatePost(ctx context.Context, creatorID uuid.UUID, title, text string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, utils.NewInvalidInputError("title is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, utils.NewInvalidInputError("text is required")
	}

	post := &models.Post{
		ID:        uuid.New(),
		Title:     title,
		Text:      text,
		CreatorID: creatorID,
	}
	if err := s.store.SavePost(ctx, post); err != nil {
		return nil, err
	}

	logger.Info().Str("post_id", post.ID.String()).Str("creator_id", creatorID.String()).Msg("post created")
	return s.store.GetPost(ctx, post.ID, creatorID)
}

// GetPost fetches a single post with the caller's vote status annotated.
func (s *Service) GetPost(ctx context.Context, postID, requestingUserID uuid.UUID) (*models.Post, error) {
	return s.store.GetPost(ctx, postID, requestingUserID)
}

// UpdatePost changes a post's title and/or text. Only the creator may update;
// nil fields are left as they are.
func (s *Service) UpdatePost(ctx context.Context, postID, callerID uuid.UUID, title, text *string) (*models.Post, error) {
	if title == nil && text == nil {
		return nil, utils.NewInvalidInputError("nothing to update")
	}
	return s.store.UpdatePost(ctx, postID, callerID, title, text)
}

// DeletePost removes a post and its votes. Only the creator may delete.
func (s *Service) DeletePost(ctx context.Context, postID, callerID uuid.UUID) error {
	return s.store.DeletePost(ctx, postID, callerID)
}
