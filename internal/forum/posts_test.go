package forum

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

func TestCreatePost(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	creatorID := uuid.New()
	post, err := svc.CreatePost(context.Background(), creatorID, "  first post  ", "hello swamp")
	assert.NoError(t, err)
	assert.Equal(t, "first post", post.Title)
	assert.Equal(t, creatorID, post.CreatorID)
	assert.Len(t, store.savedPosts, 1)
}

func TestCreatePostRequiresTitleAndText(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, uuid.New(), "   ", "text")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.CreatePost(ctx, uuid.New(), "title", "   ")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestUpdatePostNothingToUpdate(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	_, err := svc.UpdatePost(context.Background(), uuid.New(), uuid.New(), nil, nil)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestUpdatePostOnlyCreator(t *testing.T) {
	store := newFakeStore()
	post := &models.Post{ID: uuid.New(), Title: "t", Text: "x", CreatorID: uuid.New()}
	store.posts[post.ID] = post
	svc := NewService(store, nil)

	title := "new"
	_, err := svc.UpdatePost(context.Background(), post.ID, uuid.New(), &title, nil)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	updated, err := svc.UpdatePost(context.Background(), post.ID, post.CreatorID, &title, nil)
	assert.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
}

func TestDeletePost(t *testing.T) {
	store := newFakeStore()
	post := &models.Post{ID: uuid.New(), Title: "t", Text: "x", CreatorID: uuid.New()}
	store.posts[post.ID] = post
	svc := NewService(store, nil)

	err := svc.DeletePost(context.Background(), post.ID, post.CreatorID)
	assert.NoError(t, err)
	assert.NotContains(t, store.posts, post.ID)

	err = svc.DeletePost(context.Background(), post.ID, post.CreatorID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}
