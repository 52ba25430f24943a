package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

// postRow widens models.Post with the joined creator columns and the
// requesting user's vote, scanned in one query.
type postRow struct {
	models.Post
	CreatorUsername  string        `db:"creator_username"`
	CreatorEmail     string        `db:"creator_email"`
	CreatorCreatedAt time.Time     `db:"creator_created_at"`
	CreatorUpdatedAt time.Time     `db:"creator_updated_at"`
	VoteValue        sql.NullInt64 `db:"vote_value"`
}

func (r *postRow) toPost() *models.Post {
	post := r.Post
	post.Creator = &models.User{
		ID:        post.CreatorID,
		Username:  r.CreatorUsername,
		Email:     r.CreatorEmail,
		CreatedAt: r.CreatorCreatedAt,
		UpdatedAt: r.CreatorUpdatedAt,
	}
	if r.VoteValue.Valid {
		value := int(r.VoteValue.Int64)
		post.VoteStatus = &value
	}
	return &post
}

const postSelectColumns = `
	p.id, p.title, p.text, p.points, p.creator_id, p.created_at, p.updated_at,
	u.username AS creator_username, u.email AS creator_email,
	u.created_at AS creator_created_at, u.updated_at AS creator_updated_at,
	v.value AS vote_value`

// SavePost inserts a new post.
func (p *PostgresDB) SavePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = post.UpdatedAt
	}

	query := `
		INSERT INTO posts (id, title, text, points, creator_id, created_at, updated_at)
		VALUES (:id, :title, :text, :points, :creator_id, :created_at, :updated_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return classifyWriteError(err, "failed to save post")
	}
	return nil
}

// GetPost fetches a post by its ID, joined with its creator and the requesting
// user's vote status. Pass uuid.Nil for anonymous callers; the vote join then
// matches nothing and VoteStatus stays nil.
func (p *PostgresDB) GetPost(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postSelectColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		LEFT JOIN votes v ON v.post_id = p.id AND v.user_id = $2
		WHERE p.id = $1`

	var row postRow
	err := p.DB.GetContext(ctx, &row, query, postID, requestingUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewPostNotFoundError(postID.String())
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post by id", err)
	}
	return row.toPost(), nil
}

// ListPostsBefore retrieves up to limit posts ordered newest-first, restricted
// to rows strictly older than the cursor timestamp when one is supplied.
// Ordering tie-breaks on id so identical timestamps still have a total order.
func (p *PostgresDB) ListPostsBefore(ctx context.Context, limit int, before *time.Time, requestingUserID uuid.UUID) ([]*models.Post, error) {
	baseQuery := `SELECT ` + postSelectColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		LEFT JOIN votes v ON v.post_id = p.id AND v.user_id = $2`

	rows := []postRow{}
	var err error
	if before != nil {
		query := baseQuery + `
		WHERE p.created_at < $3
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1`
		err = p.DB.SelectContext(ctx, &rows, query, limit, requestingUserID, *before)
	} else {
		query := baseQuery + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1`
		err = p.DB.SelectContext(ctx, &rows, query, limit, requestingUserID)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to query posts feed")
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query posts feed", err)
	}

	posts := make([]*models.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].toPost()
	}
	return posts, nil
}

// UpdatePost mutates title and/or text of a post owned by creatorID. Nil
// fields are left untouched.
func (p *PostgresDB) UpdatePost(ctx context.Context, postID, creatorID uuid.UUID, title, text *string) (*models.Post, error) {
	query := `
		UPDATE posts SET
			title = COALESCE($3, title),
			text = COALESCE($4, text),
			updated_at = NOW()
		WHERE id = $1 AND creator_id = $2
		RETURNING id, title, text, points, creator_id, created_at, updated_at
	`
	var post models.Post
	err := p.DB.GetContext(ctx, &post, query, postID, creatorID, title, text)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, p.ownershipError(ctx, postID)
		}
		return nil, classifyWriteError(err, "failed to update post")
	}
	return &post, nil
}

// DeletePost removes a post owned by creatorID. Votes go with it via the
// foreign key cascade.
func (p *PostgresDB) DeletePost(ctx context.Context, postID, creatorID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND creator_id = $2`, postID, creatorID)
	if err != nil {
		return classifyWriteError(err, "failed to delete post")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after delete", err)
	}
	if rowsAffected == 0 {
		return p.ownershipError(ctx, postID)
	}
	return nil
}

// ownershipError distinguishes "post does not exist" from "post belongs to
// someone else" after a guarded write matched no rows.
func (p *PostgresDB) ownershipError(ctx context.Context, postID uuid.UUID) error {
	var exists bool
	err := p.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to check post existence", err)
	}
	if exists {
		return utils.NewAppError(utils.ErrForbidden, "only the creator can modify this post", nil)
	}
	return utils.NewPostNotFoundError(postID.String())
}
