package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a single user's vote on a single post. At most one row exists per
// (UserID, PostID) pair; the value flips in place on a revote.
type Vote struct {
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	PostID    uuid.UUID `json:"postId" db:"post_id"`
	Value     int       `json:"value" db:"value"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// VoteDirection represents the direction of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Value maps a direction to the signed unit stored in the votes table.
func (d VoteDirection) Value() int {
	if d == VoteDown {
		return -1
	}
	return 1
}

// DirectionFromValue normalizes a raw client value to a direction. Anything
// other than -1 counts as an upvote.
func DirectionFromValue(value int) VoteDirection {
	if value == -1 {
		return VoteDown
	}
	return VoteUp
}
