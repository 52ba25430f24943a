package forum

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

const (
	feedDefaultLimit = 20
	feedMaxLimit     = 50
)

// ListPosts returns one page of the feed, newest first. The cursor is the
// millisecond timestamp of the last post seen on the prior page; posts at or
// after that instant are excluded. Pass uuid.Nil as requestingUserID for
// anonymous callers; VoteStatus then stays nil on every post.
func (s *Service) ListPosts(ctx context.Context, limit int, cursor string, requestingUserID uuid.UUID) (*models.PaginatedPosts, error) {
	defer s.observe("feed", time.Now())

	limit = clampLimit(limit)
	before, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.store.ListPostsBefore(ctx, limit+1, before, requestingUserID)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return &models.PaginatedPosts{Posts: rows, HasMore: hasMore}, nil
}

// NextCursor builds the cursor a client passes to continue past the given
// post.
func NextCursor(post *models.Post) string {
	return strconv.FormatInt(post.CreatedAt.UnixMilli(), 10)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return feedDefaultLimit
	}
	if limit > feedMaxLimit {
		return feedMaxLimit
	}
	return limit
}

func parseCursor(cursor string) (*time.Time, error) {
	if cursor == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return nil, utils.NewInvalidInputError("cursor must be a millisecond timestamp")
	}
	t := time.UnixMilli(ms).UTC()
	return &t, nil
}
