package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRejectsSelf(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	err := f.follow.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	err = f.follow.FollowUsername(context.Background(), alice.ID, "alice")
	assert.ErrorIs(t, err, ErrSelfFollow)

	ids, err := f.follow.FollowedAuthors(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	require.NoError(t, f.follow.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.follow.Follow(ctx, alice.ID, bob.ID))

	ids, err := f.follow.FollowedAuthors(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids)

	ok, err := f.follow.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	counts, err := f.follow.Counts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowCounts{Followers: 1, Following: 0}, counts)
}

func TestUnfollowMissingPairIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	require.NoError(t, f.follow.Unfollow(ctx, alice.ID, bob.ID))

	require.NoError(t, f.follow.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.follow.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.follow.Unfollow(ctx, alice.ID, bob.ID))

	ok, err := f.follow.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowRequiresUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.user(t, "bob")

	assert.ErrorIs(t, f.follow.Follow(ctx, 0, bob.ID), ErrUnauthenticated)
	assert.ErrorIs(t, f.follow.Unfollow(ctx, 0, bob.ID), ErrUnauthenticated)
	assert.ErrorIs(t, f.follow.FollowUsername(ctx, 0, "bob"), ErrUnauthenticated)

	ok, err := f.follow.IsFollowing(ctx, 0, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowUsernameUnknownAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	err := f.follow.FollowUsername(context.Background(), alice.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	err = f.follow.UnfollowUsername(context.Background(), alice.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
