package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhub-app/workhub-api/models"
	"github.com/workhub-app/workhub-api/store"
	"github.com/workhub-app/workhub-api/testutil"
)

// failingPostStore fails CreatePost
type failingPostStore struct {
	store.PostStore
	err error
}

func (f failingPostStore) CreatePost(context.Context, *models.Post) (string, error) {
	return "", f.err
}

func createTestWorker(t *testing.T, st store.AccountStore, id string) {
	t.Helper()
	require.NoError(t, st.CreateWorker(context.Background(), &models.Worker{
		ID:     id,
		Name:   "Ravi",
		Email:  id + "@example.com",
		Status: models.WorkerAvailable,
	}))
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	createTestWorker(t, st, "worker-1")
	images := NewMockImageService()
	svc := NewPostService(st, st, images)

	post, err := svc.Create(ctx, mustSession(t, "worker-1"), " Finished deck ", testutil.NewFileHeader(t, "deck.png", testutil.PNGHeader))
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "Finished deck", post.Caption)
	assert.Equal(t, "post_images/mock_deck.png", post.ImageKey)
	require.NotNil(t, post.ImageURL)
	assert.True(t, images.ImageExists(post.ImageKey))

	posts, err := st.ListPosts(ctx, "worker-1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestPostService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	createTestWorker(t, st, "worker-1")
	svc := NewPostService(st, st, NewMockImageService())

	_, err := svc.Create(ctx, mustSession(t, "worker-1"), "  ", testutil.NewFileHeader(t, "deck.png", testutil.PNGHeader))
	se := requireCode(t, err, CodeValidation)
	assert.Equal(t, msgCaptionRequired, se.Message)

	_, err = svc.Create(ctx, mustSession(t, "worker-1"), "Deck", nil)
	requireCode(t, err, CodeValidation)

	_, err = svc.Create(ctx, mustSession(t, "user-1"), "Deck", testutil.NewFileHeader(t, "deck.png", testutil.PNGHeader))
	requireCode(t, err, CodeWorkerNotFound)

	_, err = svc.Create(ctx, mustSession(t, "worker-1"), "Deck", testutil.NewFileHeader(t, "deck.gif", []byte("GIF89a")))
	requireCode(t, err, CodeInvalidFileUpload)

	posts, err := st.ListPosts(ctx, "worker-1")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_Create_StoreFailureRemovesImage(t *testing.T) {
	st := testutil.NewTestStore(t)
	createTestWorker(t, st, "worker-1")
	images := NewMockImageService()
	posts := failingPostStore{PostStore: st, err: fmt.Errorf("%w: rules", store.ErrPermissionDenied)}

	_, err := NewPostService(st, posts, images).Create(context.Background(), mustSession(t, "worker-1"), "Deck", testutil.NewFileHeader(t, "deck.png", testutil.PNGHeader))
	se := requireCode(t, err, CodePermissionDenied)
	assert.Equal(t, "You do not have permission to publish posts.", se.Message)
	assert.False(t, images.ImageExists("post_images/mock_deck.png"))
}
