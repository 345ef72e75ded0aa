package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	err         error
	sawDeadline bool
}

func (r *failingRepo) Upsert(ctx context.Context, in UpsertInput) (User, bool, error) {
	_, r.sawDeadline = ctx.Deadline()
	return User{}, false, r.err
}

func (r *failingRepo) GetByID(ctx context.Context, userID string) (User, error) {
	_, r.sawDeadline = ctx.Deadline()
	return User{}, r.err
}

func (r *failingRepo) List(ctx context.Context) ([]User, error) {
	return nil, r.err
}

func TestServiceUpsertCreatesThenUpdates(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, UpsertInput{UserID: "u1", FilledForm: false})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.FilledForm)

	second, created, err := svc.Upsert(ctx, UpsertInput{UserID: "u1", FilledForm: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, second.FilledForm)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	fetched, err := svc.FetchByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, fetched.FilledForm)
}

func TestServiceUpsertKeepsProfileImageWhenOmitted(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{UserID: "u1", ProfileImage: "data:image/png;base64,AAA"})
	require.NoError(t, err)
	user, _, err := svc.Upsert(ctx, UpsertInput{UserID: "u1", FilledForm: true})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAA", user.ProfileImage)

	user, _, err = svc.Upsert(ctx, UpsertInput{UserID: "u1", ProfileImage: "data:image/png;base64,BBB"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBB", user.ProfileImage)
}

func TestServiceUpsertRequiresUserID(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	for _, id := range []string{"", "   "} {
		_, _, err := svc.Upsert(context.Background(), UpsertInput{UserID: id})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	}
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceFetchMissingIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	for _, id := range []string{"nonexistent", " ", ""} {
		_, err := svc.FetchByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
		assert.NotErrorIs(t, err, ErrValidation)
		assert.NotErrorIs(t, err, ErrStore)
	}
}

func TestServiceWrapsStoreErrors(t *testing.T) {
	repo := &failingRepo{err: errors.New("connection refused")}
	svc := NewService(repo, time.Second)

	_, _, err := svc.Upsert(context.Background(), UpsertInput{UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "connection refused", StoreDetail(err))
	assert.True(t, repo.sawDeadline)

	_, err = svc.FetchByID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrStore)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStore)
}

func TestServiceFilledForm(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	ctx := context.Background()

	filled, err := svc.FilledForm(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, filled)

	_, _, err = svc.Upsert(ctx, UpsertInput{UserID: "u1", FilledForm: true})
	require.NoError(t, err)
	filled, err = svc.FilledForm(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, filled)

	broken := NewService(&failingRepo{err: errors.New("timeout")}, 0)
	_, err = broken.FilledForm(ctx, "u1")
	assert.ErrorIs(t, err, ErrStore)
}

func TestServiceListInCreationOrder(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)
	ctx := context.Background()
	for _, id := range []string{"b", "a", "c"} {
		_, _, err := svc.Upsert(ctx, UpsertInput{UserID: id})
		require.NoError(t, err)
	}
	_, _, err := svc.Upsert(ctx, UpsertInput{UserID: "a", FilledForm: true})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{all[0].UserID, all[1].UserID, all[2].UserID})
	assert.True(t, all[1].FilledForm)
}

func TestNilServiceIsNotConfigured(t *testing.T) {
	var svc *Service
	_, _, err := svc.Upsert(context.Background(), UpsertInput{UserID: "u1"})
	assert.Error(t, err)
	_, err = svc.List(context.Background())
	assert.Error(t, err)
}
