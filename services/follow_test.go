package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	u := createUser(t, db, "u")
	target := createUser(t, db, "target")

	require.NoError(t, follows.Follow(u.ID, "target"))
	require.NoError(t, follows.Follow(u.ID, "target"))

	assert.Equal(t, int64(1), followCount(t, db, u.ID, target.ID))
}

func TestSelfFollowIsSilentlyRejected(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	u := createUser(t, db, "narcissus")

	require.NoError(t, follows.Follow(u.ID, "narcissus"))

	assert.Equal(t, int64(0), followCount(t, db, u.ID, u.ID))
}

func TestUnfollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	u := createUser(t, db, "u")
	target := createUser(t, db, "target")

	require.NoError(t, follows.Follow(u.ID, "target"))
	require.NoError(t, follows.Unfollow(u.ID, "target"))
	// Second unfollow of a missing edge never raises.
	require.NoError(t, follows.Unfollow(u.ID, "target"))

	assert.Equal(t, int64(0), followCount(t, db, u.ID, target.ID))
}

func TestFollowUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	u := createUser(t, db, "u")

	assert.ErrorIs(t, follows.Follow(u.ID, "ghost"), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, follows.Unfollow(u.ID, "ghost"), gorm.ErrRecordNotFound)
}

func TestIsFollowing(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	u := createUser(t, db, "u")
	target := createUser(t, db, "target")

	ok, err := follows.IsFollowing(u.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, follows.Follow(u.ID, "target"))

	ok, err = follows.IsFollowing(u.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
