package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

// FindVote looks up a user's vote on a post. Returns NOT_FOUND when the user
// never voted on it.
func (p *PostgresDB) FindVote(ctx context.Context, userID, postID uuid.UUID) (*models.Vote, error) {
	query := `SELECT user_id, post_id, value, created_at FROM votes WHERE user_id = $1 AND post_id = $2`
	var vote models.Vote
	err := p.DB.GetContext(ctx, &vote, query, userID, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "vote not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query vote", err)
	}
	return &vote, nil
}

// CastVote records a user's vote on a post and keeps the post's points column
// equal to the sum of its vote values. The whole read-then-write sequence runs
// in one transaction with the post row locked, so concurrent votes on the same
// post serialize and no delta is lost. Returns the post's points after the
// vote applied.
//
// Behavior by prior state:
//   - no prior vote: insert the row, points += value
//   - same value:    no-op, success
//   - opposite:      flip the row, points += 2*value
func (p *PostgresDB) CastVote(ctx context.Context, userID, postID uuid.UUID, value int) (int, error) {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to begin vote transaction", err)
	}
	defer tx.Rollback() // Rollback is ignored if tx is committed.

	// Lock the post row first. This validates the post exists (no orphaned
	// vote rows) and serializes concurrent votes on the same post.
	var points int
	err = tx.QueryRowxContext(ctx, `SELECT points FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&points)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, utils.NewPostNotFoundError(postID.String())
		}
		return 0, classifyWriteError(err, "failed to lock post for voting")
	}

	var existingValue int
	err = tx.QueryRowxContext(ctx,
		`SELECT value FROM votes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	).Scan(&existingValue)

	var delta int
	switch {
	case err == sql.ErrNoRows:
		// First vote by this user on this post.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (user_id, post_id, value, created_at) VALUES ($1, $2, $3, NOW())`,
			userID, postID, value,
		)
		if err != nil {
			return 0, classifyWriteError(err, "failed to insert vote")
		}
		delta = value

	case err != nil:
		return 0, classifyWriteError(err, "failed to check existing vote")

	case existingValue == value:
		// Re-vote in the same direction is an idempotent no-op.
		if err := tx.Commit(); err != nil {
			return 0, classifyWriteError(err, "failed to commit vote transaction")
		}
		return points, nil

	default:
		// The vote swings from -1 to +1 or vice versa, a delta of 2.
		_, err = tx.ExecContext(ctx,
			`UPDATE votes SET value = $3, created_at = NOW() WHERE user_id = $1 AND post_id = $2`,
			userID, postID, value,
		)
		if err != nil {
			return 0, classifyWriteError(err, "failed to update vote")
		}
		delta = 2 * value
	}

	var newPoints int
	err = tx.QueryRowxContext(ctx,
		`UPDATE posts SET points = points + $1, updated_at = NOW() WHERE id = $2 RETURNING points`,
		delta, postID,
	).Scan(&newPoints)
	if err != nil {
		return 0, classifyWriteError(err, "failed to adjust post points")
	}

	if err := tx.Commit(); err != nil {
		return 0, classifyWriteError(err, "failed to commit vote transaction")
	}

	return newPoints, nil
}
