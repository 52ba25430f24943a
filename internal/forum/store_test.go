package forum

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

type listCall struct {
	limit  int
	before *time.Time
	userID uuid.UUID
}

type castCall struct {
	userID uuid.UUID
	postID uuid.UUID
	value  int
}

// fakeStore is an in-memory Store for exercising the service layer without a
// database.
type fakeStore struct {
	pingErr error

	users map[uuid.UUID]*models.User

	posts      map[uuid.UUID]*models.Post
	savedPosts []*models.Post

	listCalls  []listCall
	listResult []*models.Post
	listErr    error

	castCalls  []castCall
	castErrs   []error
	castPoints int

	foundVote   *models.Vote
	findVoteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[uuid.UUID]*models.User),
		posts: make(map[uuid.UUID]*models.Post),
	}
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, utils.NewUserNotFoundError(id.String())
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, utils.NewUserNotFoundError(username)
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return utils.NewAppError(utils.ErrDuplicate, "username or email already taken", nil)
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) SavePost(ctx context.Context, post *models.Post) error {
	f.savedPosts = append(f.savedPosts, post)
	f.posts[post.ID] = post
	return nil
}

func (f *fakeStore) GetPost(ctx context.Context, postID, requestingUserID uuid.UUID) (*models.Post, error) {
	if post, ok := f.posts[postID]; ok {
		return post, nil
	}
	return nil, utils.NewPostNotFoundError(postID.String())
}

func (f *fakeStore) ListPostsBefore(ctx context.Context, limit int, before *time.Time, requestingUserID uuid.UUID) ([]*models.Post, error) {
	f.listCalls = append(f.listCalls, listCall{limit: limit, before: before, userID: requestingUserID})
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.listResult) > limit {
		return f.listResult[:limit], nil
	}
	return f.listResult, nil
}

func (f *fakeStore) UpdatePost(ctx context.Context, postID, creatorID uuid.UUID, title, text *string) (*models.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, utils.NewPostNotFoundError(postID.String())
	}
	if post.CreatorID != creatorID {
		return nil, utils.NewAppError(utils.ErrForbidden, "only the creator can modify this post", nil)
	}
	if title != nil {
		post.Title = *title
	}
	if text != nil {
		post.Text = *text
	}
	return post, nil
}

func (f *fakeStore) DeletePost(ctx context.Context, postID, creatorID uuid.UUID) error {
	post, ok := f.posts[postID]
	if !ok {
		return utils.NewPostNotFoundError(postID.String())
	}
	if post.CreatorID != creatorID {
		return utils.NewAppError(utils.ErrForbidden, "only the creator can modify this post", nil)
	}
	delete(f.posts, postID)
	return nil
}

func (f *fakeStore) FindVote(ctx context.Context, userID, postID uuid.UUID) (*models.Vote, error) {
	if f.findVoteErr != nil {
		return nil, f.findVoteErr
	}
	return f.foundVote, nil
}

func (f *fakeStore) CastVote(ctx context.Context, userID, postID uuid.UUID, value int) (int, error) {
	f.castCalls = append(f.castCalls, castCall{userID: userID, postID: postID, value: value})
	if len(f.castErrs) > 0 {
		err := f.castErrs[0]
		f.castErrs = f.castErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return f.castPoints, nil
}
