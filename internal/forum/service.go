// Package forum holds the core operations of the board: registration and
// login, post CRUD, the vote engine, and the cursor-paginated feed. Every
// operation takes the caller's identity explicitly; nothing is read from
// ambient request state.
package forum

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "forum").Logger()

// Store is the persistence surface the forum operations need. *database.PostgresDB
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID, requestingUserID uuid.UUID) (*models.Post, error)
	ListPostsBefore(ctx context.Context, limit int, before *time.Time, requestingUserID uuid.UUID) ([]*models.Post, error)
	UpdatePost(ctx context.Context, postID, creatorID uuid.UUID, title, text *string) (*models.Post, error)
	DeletePost(ctx context.Context, postID, creatorID uuid.UUID) error

	FindVote(ctx context.Context, userID, postID uuid.UUID) (*models.Vote, error)
	CastVote(ctx context.Context, userID, postID uuid.UUID, value int) (int, error)
}

// ScoreListener is notified after a vote commits with the post's new points
// total. The websocket hub implements it for live score updates.
type ScoreListener interface {
	PostScoreChanged(postID uuid.UUID, points int)
}

type Service struct {
	store   Store
	metrics *utils.MetricsCollector
	scores  ScoreListener
}

func NewService(store Store, metrics *utils.MetricsCollector) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
	}
}

// OnScoreChange registers the listener invoked after each committed vote.
func (s *Service) OnScoreChange(listener ScoreListener) {
	s.scores = listener
}

// Healthy reports whether the backing store is reachable.
func (s *Service) Healthy(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.AddOperationLatency(operation, time.Since(start))
	}
}
