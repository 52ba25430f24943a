package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"text"`
	Points    int       `json:"points" db:"points"`
	CreatorID uuid.UUID `json:"creatorId" db:"creator_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Creator is populated from the joined users row on reads.
	Creator *User `json:"creator,omitempty" db:"-"`

	// VoteStatus is the requesting user's own vote on this post (+1, -1),
	// or nil when the caller is anonymous or never voted.
	VoteStatus *int `json:"voteStatus" db:"-"`
}

// PaginatedPosts is one page of the feed.
type PaginatedPosts struct {
	Posts   []*Post `json:"posts"`
	HasMore bool    `json:"hasMore"`
}
