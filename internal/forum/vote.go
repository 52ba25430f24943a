package forum

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

// CastVote records the caller's vote on a post and returns the post's points
// after the vote applied. The store performs the atomic lookup/insert-or-flip
// and points adjustment; a serialization failure under concurrent votes is
// retried once before being surfaced.
func (s *Service) CastVote(ctx context.Context, userID, postID uuid.UUID, direction models.VoteDirection) (int, error) {
	defer s.observe("vote", time.Now())

	value := direction.Value()
	points, err := s.store.CastVote(ctx, userID, postID, value)
	if utils.IsErrorCode(err, utils.ErrConflictRetry) {
		logger.Warn().
			Str("post_id", postID.String()).
			Str("user_id", userID.String()).
			Msg("vote transaction conflicted, retrying once")
		points, err = s.store.CastVote(ctx, userID, postID, value)
	}
	if err != nil {
		return 0, err
	}

	if s.scores != nil {
		s.scores.PostScoreChanged(postID, points)
	}
	return points, nil
}

// VoteStatus returns the caller's current vote value on a post, or nil when
// they never voted on it.
func (s *Service) VoteStatus(ctx context.Context, userID, postID uuid.UUID) (*int, error) {
	vote, err := s.store.FindVote(ctx, userID, postID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote.Value, nil
}
